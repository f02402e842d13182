package events

import "github.com/atomicstack/storefront-tui/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

func (AppTracer) Navigate(href string) {
	logging.Trace("app.navigate", map[string]interface{}{"href": href})
}

func (AppTracer) Badge(count int) {
	logging.Trace("app.badge", map[string]interface{}{"count": count})
}
