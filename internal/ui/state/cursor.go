package state

// MoveCursorHome moves the cursor to the first product.
func (l *List) MoveCursorHome() bool {
	return l.moveCursorTo(0)
}

// MoveCursorEnd moves the cursor to the last product.
func (l *List) MoveCursorEnd() bool {
	return l.moveCursorTo(len(l.Items) - 1)
}

// MoveCursorPageUp moves the cursor up by one screen of rows.
func (l *List) MoveCursorPageUp(maxVisible int) bool {
	return l.MoveCursorBy(-l.pageSize(maxVisible))
}

// MoveCursorPageDown moves the cursor down by one screen of rows.
func (l *List) MoveCursorPageDown(maxVisible int) bool {
	return l.MoveCursorBy(l.pageSize(maxVisible))
}

// MoveCursorBy moves the cursor by delta, stopping at either end, and
// reports whether it moved.
func (l *List) MoveCursorBy(delta int) bool {
	return l.moveCursorTo(max(l.Cursor, 0) + delta)
}

func (l *List) moveCursorTo(idx int) bool {
	old := l.Cursor
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	l.Cursor = clamp(idx, 0, len(l.Items)-1)
	return l.Cursor != old
}

func (l *List) pageSize(maxVisible int) int {
	total := len(l.Items)
	if maxVisible <= 0 || maxVisible > total {
		return total
	}
	return maxVisible
}

// EnsureCursorVisible scrolls the viewport so the cursor row is on screen.
func (l *List) EnsureCursorVisible(maxVisible int) {
	if len(l.Items) == 0 {
		l.Cursor, l.ViewportOffset = 0, 0
		return
	}
	l.Cursor = clamp(l.Cursor, 0, len(l.Items)-1)
	if maxVisible <= 0 {
		l.ViewportOffset = 0
		return
	}
	offset := clamp(l.ViewportOffset, 0, max(len(l.Items)-maxVisible, 0))
	switch {
	case l.Cursor < offset:
		offset = l.Cursor
	case l.Cursor >= offset+maxVisible:
		offset = l.Cursor - maxVisible + 1
	}
	l.ViewportOffset = offset
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
