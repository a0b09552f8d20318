package router

import "strconv"

// Kind is the type of item a selection entry refers to.
type Kind string

const (
	KindSong     Kind = "song"
	KindAlbum    Kind = "album"
	KindPlaylist Kind = "playlist"
	KindFolder   Kind = "folder"
	KindUser     Kind = "user"
)

// Item is one selectable row.
type Item struct {
	Kind Kind
	Key  string
}

// SongItem builds a song selection entry.
func SongItem(id int64) Item { return Item{Kind: KindSong, Key: strconv.FormatInt(id, 10)} }

// AlbumItem builds an album selection entry.
func AlbumItem(id int64) Item { return Item{Kind: KindAlbum, Key: strconv.FormatInt(id, 10)} }

// PlaylistItem builds a playlist selection entry.
func PlaylistItem(id int64) Item { return Item{Kind: KindPlaylist, Key: strconv.FormatInt(id, 10)} }

// SelectionSet is the set of currently selected rows, scoped to the
// current view. It is plain data: rendering reads it to decide visual
// state, bulk actions read it for their targets. Cleared on every
// navigation.
type SelectionSet struct {
	items    map[Item]struct{}
	onChange func(count int)
}

// NewSelectionSet creates an empty selection. onChange, if non-nil,
// fires after every mutation with the new size; a size of zero
// disables bulk-action controls.
func NewSelectionSet(onChange func(count int)) *SelectionSet {
	return &SelectionSet{
		items:    make(map[Item]struct{}),
		onChange: onChange,
	}
}

func (s *SelectionSet) notify() {
	if s.onChange != nil {
		s.onChange(len(s.items))
	}
}

// Select adds an item. Selecting an already-selected item is a no-op.
func (s *SelectionSet) Select(item Item) {
	if _, ok := s.items[item]; ok {
		return
	}
	s.items[item] = struct{}{}
	s.notify()
}

// Deselect removes an item.
func (s *SelectionSet) Deselect(item Item) {
	if _, ok := s.items[item]; !ok {
		return
	}
	delete(s.items, item)
	s.notify()
}

// Toggle flips an item and reports whether it is now selected.
func (s *SelectionSet) Toggle(item Item) bool {
	if _, ok := s.items[item]; ok {
		s.Deselect(item)
		return false
	}
	s.Select(item)
	return true
}

// SelectAll adds every given item.
func (s *SelectionSet) SelectAll(items []Item) {
	for _, item := range items {
		s.items[item] = struct{}{}
	}
	s.notify()
}

// Clear empties the selection.
func (s *SelectionSet) Clear() {
	if len(s.items) == 0 {
		return
	}
	s.items = make(map[Item]struct{})
	s.notify()
}

// Count returns the number of selected items across all kinds.
func (s *SelectionSet) Count() int { return len(s.items) }

// Selected reports whether the item is in the set.
func (s *SelectionSet) Selected(item Item) bool {
	_, ok := s.items[item]
	return ok
}

// Keys returns the selected keys of one kind, unordered.
func (s *SelectionSet) Keys(kind Kind) []string {
	var keys []string
	for item := range s.items {
		if item.Kind == kind {
			keys = append(keys, item.Key)
		}
	}
	return keys
}

// IDs returns the selected numeric ids of one kind, unordered.
// Non-numeric keys are skipped.
func (s *SelectionSet) IDs(kind Kind) []int64 {
	var ids []int64
	for _, key := range s.Keys(kind) {
		if id, err := strconv.ParseInt(key, 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
