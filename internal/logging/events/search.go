package events

import "github.com/atomicstack/storefront-tui/internal/logging"

type SearchTracer struct{}

var Search = SearchTracer{}

func (SearchTracer) Input(query string, keystroke int) {
	logging.Trace("search.input", map[string]interface{}{"query": query, "keystroke": keystroke})
}

func (SearchTracer) Debounced(keystroke, latest int) {
	logging.Trace("search.debounce.drop", map[string]interface{}{"keystroke": keystroke, "latest": latest})
}

func (SearchTracer) Query(query string, seq int) {
	logging.Trace("search.query", map[string]interface{}{"query": query, "seq": seq})
}

func (SearchTracer) Results(query string, seq, count int) {
	logging.Trace("search.results", map[string]interface{}{"query": query, "seq": seq, "count": count})
}

func (SearchTracer) Stale(seq, latest int) {
	logging.Trace("search.stale", map[string]interface{}{"seq": seq, "latest": latest})
}

func (SearchTracer) Cursor(index int) {
	logging.Trace("search.cursor", map[string]interface{}{"index": index})
}

func (SearchTracer) Hide(reason string) {
	logging.Trace("search.hide", map[string]interface{}{"reason": reason})
}
