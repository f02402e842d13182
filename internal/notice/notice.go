// Package notice holds the transient status line shown by each surface.
package notice

import "time"

type Kind int

const (
	Info Kind = iota
	Success
	Warning
	Error
)

const DefaultTTL = 5 * time.Second

// Notice is a message that disappears after its TTL.
type Notice struct {
	Text   string
	Kind   Kind
	expire time.Time
	now    func() time.Time
}

// New returns an empty notice. A nil clock uses time.Now.
func New(now func() time.Time) Notice {
	if now == nil {
		now = time.Now
	}
	return Notice{now: now}
}

func (n *Notice) clock() time.Time {
	if n.now == nil {
		return time.Now()
	}
	return n.now()
}

// Set replaces the notice and restarts the TTL.
func (n *Notice) Set(kind Kind, text string) {
	n.Kind = kind
	n.Text = text
	n.expire = n.clock().Add(DefaultTTL)
}

func (n *Notice) Clear() {
	n.Text = ""
	n.expire = time.Time{}
}

// Current returns the text while it has not expired.
func (n *Notice) Current() (string, Kind) {
	if n.Text == "" {
		return "", Info
	}
	if !n.expire.IsZero() && n.clock().After(n.expire) {
		n.Clear()
		return "", Info
	}
	return n.Text, n.Kind
}
