package presenter

import "slices"

// Browser presents one library collection (my list or history) with a
// browse mode and a multi-select deletion mode. The detail view nests
// on top of the browser, so both presenters stay alive at once.
type Browser struct {
	collection string
	selectMode bool
	selected   map[string]struct{}
}

// NewBrowser creates a browser bound to one collection.
func NewBrowser(collection string) *Browser {
	return &Browser{
		collection: collection,
		selected:   make(map[string]struct{}),
	}
}

// Collection returns the collection this browser presents.
func (b *Browser) Collection() string {
	return b.collection
}

// SelectMode reports whether multi-select mode is active.
func (b *Browser) SelectMode() bool {
	return b.selectMode
}

// SetSelectMode toggles multi-select mode. Leaving select mode always
// clears the selection.
func (b *Browser) SetSelectMode(on bool) {
	b.selectMode = on
	if !on {
		clear(b.selected)
	}
}

// ToggleSelect flips an entry's membership in the selection set.
// Outside select mode it does nothing.
func (b *Browser) ToggleSelect(id string) {
	if !b.selectMode {
		return
	}
	if _, ok := b.selected[id]; ok {
		delete(b.selected, id)
		return
	}
	b.selected[id] = struct{}{}
}

// IsSelected reports whether an entry is in the selection set.
func (b *Browser) IsSelected(id string) bool {
	_, ok := b.selected[id]
	return ok
}

// Selected returns the selection as a sorted slice.
func (b *Browser) Selected() []string {
	ids := make([]string, 0, len(b.selected))
	for id := range b.selected {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// CanDelete reports whether a deletion can be requested: select mode
// with a non-empty selection.
func (b *Browser) CanDelete() bool {
	return b.selectMode && len(b.selected) > 0
}

// CompleteDelete ends a deletion round: the selection is cleared and
// select mode exits, regardless of how many backing deletes succeeded.
func (b *Browser) CompleteDelete() {
	clear(b.selected)
	b.selectMode = false
}
