package command

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/atomicstack/storefront-tui/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Request encapsulates one backend round-trip.
type Request struct {
	Label string
	Run   func(context.Context) tea.Msg
}

// Bus turns backend requests into Bubble Tea commands while emitting trace
// logs. A nil *Bus is usable.
type Bus struct {
	ctx  context.Context
	next atomic.Int64
}

// New initialises a command bus whose requests inherit ctx.
func New(ctx context.Context) *Bus {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Bus{ctx: ctx}
}

// Execute wraps req into a Bubble Tea command.
func (b *Bus) Execute(req Request) tea.Cmd {
	ctx := context.Background()
	id := req.Label
	if b != nil {
		ctx = b.ctx
		id = req.Label + "#" + strconv.FormatInt(b.next.Add(1), 10)
	}
	events.Command.Queue(id, req.Label)
	return func() tea.Msg {
		if req.Run == nil {
			events.Command.Skip(id, req.Label)
			return nil
		}
		msg := req.Run(ctx)
		if msg == nil {
			events.Command.NoOp(id, req.Label)
			return nil
		}
		events.Command.Result(id, req.Label, fmt.Sprintf("%T", msg))
		return msg
	}
}
