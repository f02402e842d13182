// Package state holds the small stores the root model reads when rendering
// the page behind the overlays.
package state

// BadgeStore keeps the header cart count.
type BadgeStore interface {
	Count() int
	SetCount(int)
	Known() bool
}

type badgeStore struct {
	count int
	known bool
}

func NewBadgeStore() BadgeStore {
	return &badgeStore{}
}

func (b *badgeStore) Count() int {
	return b.count
}

func (b *badgeStore) SetCount(count int) {
	if count < 0 {
		count = 0
	}
	b.count = count
	b.known = true
}

// Known reports whether any count has been received yet.
func (b *badgeStore) Known() bool {
	return b.known
}
