package notice

import (
	"testing"
	"time"
)

func TestNoticeExpires(t *testing.T) {
	now := time.Unix(100, 0)
	n := New(func() time.Time { return now })
	n.Set(Warning, "careful")
	if text, kind := n.Current(); text != "careful" || kind != Warning {
		t.Fatalf("unexpected notice %q/%v", text, kind)
	}
	now = now.Add(DefaultTTL + time.Second)
	if text, _ := n.Current(); text != "" {
		t.Fatalf("expected notice to expire, got %q", text)
	}
}
