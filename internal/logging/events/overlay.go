package events

import "github.com/atomicstack/storefront-tui/internal/logging"

type OverlayTracer struct{}

const (
	OverlayReasonEscape  = "escape"
	OverlayReasonOutside = "outside"
	OverlayReasonCode    = "code"
)

var Overlay = OverlayTracer{}

func (OverlayTracer) Open(surface, restore string) {
	logging.Trace("overlay.open", map[string]interface{}{"surface": surface, "restore": restore})
}

func (OverlayTracer) Close(surface, restored, reason string) {
	logging.Trace("overlay.close", map[string]interface{}{"surface": surface, "restored": restored, "reason": reason})
}

func (OverlayTracer) Focus(surface, target string) {
	logging.Trace("overlay.focus", map[string]interface{}{"surface": surface, "target": target})
}

func (OverlayTracer) Swallow(surface, key string) {
	logging.Trace("overlay.swallow", map[string]interface{}{"surface": surface, "key": key})
}
