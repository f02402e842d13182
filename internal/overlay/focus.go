package overlay

// Focus owns the id of the focused control. An empty id means nothing has
// focus.
type Focus struct {
	current string
}

func NewFocus(initial string) *Focus {
	return &Focus{current: initial}
}

func (f *Focus) Current() string {
	if f == nil {
		return ""
	}
	return f.current
}

func (f *Focus) Set(id string) {
	if f == nil {
		return
	}
	f.current = id
}

func (f *Focus) Blur() {
	f.Set("")
}

func (f *Focus) Is(id string) bool {
	return f != nil && id != "" && f.current == id
}

// ScrollLock tracks which surfaces hold the page scroll lock. The page is
// locked while any owner holds it.
type ScrollLock struct {
	owners map[string]struct{}
}

func NewScrollLock() *ScrollLock {
	return &ScrollLock{owners: make(map[string]struct{})}
}

func (s *ScrollLock) Lock(owner string) {
	if s == nil {
		return
	}
	if s.owners == nil {
		s.owners = make(map[string]struct{})
	}
	s.owners[owner] = struct{}{}
}

func (s *ScrollLock) Unlock(owner string) {
	if s == nil {
		return
	}
	delete(s.owners, owner)
}

func (s *ScrollLock) Locked() bool {
	return s != nil && len(s.owners) > 0
}

// Rect is a screen region in cells.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}
