package router

// Entry is one history entry: a location fragment plus the scroll
// offset recorded against it.
type Entry struct {
	Fragment string
	Scroll   int
}

// History abstracts the browser-style history the client navigates
// with: push or replace a location, annotate the current entry with a
// scroll offset, and subscribe to transitions. The initial entry (the
// empty fragment) exists before any push.
type History interface {
	Push(fragment string)
	Replace(fragment string)
	SetScroll(scroll int)
	Current() Entry
	Subscribe(fn func(Entry))
}

// MemoryHistory is an in-process History with back/forward support,
// used by the terminal UI and by tests.
type MemoryHistory struct {
	entries []Entry
	index   int
	subs    []func(Entry)
}

// NewMemoryHistory creates a history positioned at the initial empty
// entry.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{entries: []Entry{{}}}
}

func (h *MemoryHistory) notify() {
	e := h.entries[h.index]
	for _, fn := range h.subs {
		fn(e)
	}
}

// Push appends a new entry after the current one, dropping any forward
// entries, and fires subscribers.
func (h *MemoryHistory) Push(fragment string) {
	h.entries = append(h.entries[:h.index+1], Entry{Fragment: fragment})
	h.index = len(h.entries) - 1
	h.notify()
}

// Replace swaps the current entry's fragment, resetting its scroll,
// and fires subscribers.
func (h *MemoryHistory) Replace(fragment string) {
	h.entries[h.index] = Entry{Fragment: fragment}
	h.notify()
}

// SetScroll annotates the current entry without firing subscribers.
func (h *MemoryHistory) SetScroll(scroll int) {
	h.entries[h.index].Scroll = scroll
}

// Current returns the entry the history is positioned at.
func (h *MemoryHistory) Current() Entry {
	return h.entries[h.index]
}

// Back moves to the previous entry, if any, and fires subscribers.
func (h *MemoryHistory) Back() bool {
	if h.index == 0 {
		return false
	}
	h.index--
	h.notify()
	return true
}

// Forward moves to the next entry, if any, and fires subscribers.
func (h *MemoryHistory) Forward() bool {
	if h.index == len(h.entries)-1 {
		return false
	}
	h.index++
	h.notify()
	return true
}

// Subscribe registers a transition callback. Callbacks fire for every
// Push, Replace, Back and Forward, not for the initial entry.
func (h *MemoryHistory) Subscribe(fn func(Entry)) {
	h.subs = append(h.subs, fn)
}
