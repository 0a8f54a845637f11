package chat

// blockList is a set of handles that remembers insertion order so listings
// come out the way entries were added.
type blockList struct {
	order []string
	index map[string]struct{}
}

func newBlockList() *blockList {
	return &blockList{index: make(map[string]struct{})}
}

func (b *blockList) Contains(handle string) bool {
	_, ok := b.index[handle]
	return ok
}

// Add reports false if handle was already present.
func (b *blockList) Add(handle string) bool {
	if b.Contains(handle) {
		return false
	}
	b.index[handle] = struct{}{}
	b.order = append(b.order, handle)
	return true
}

// Remove reports false if handle was not present.
func (b *blockList) Remove(handle string) bool {
	if !b.Contains(handle) {
		return false
	}
	delete(b.index, handle)
	for i, h := range b.order {
		if h == handle {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	return true
}

// Clear empties the list and returns what it held.
func (b *blockList) Clear() []string {
	entries := b.order
	b.order = nil
	b.index = make(map[string]struct{})
	return entries
}

func (b *blockList) Entries() []string {
	return append([]string(nil), b.order...)
}

func (b *blockList) Len() int { return len(b.order) }
