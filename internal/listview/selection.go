package listview

// Selection only ever holds visible ids. Ids that are not visible are
// ignored by every method here.

func (v *View) isVisible(id string) bool {
	for _, tx := range v.visible {
		if tx.ID == id {
			return true
		}
	}

	return false
}

func (v *View) Select(ids ...string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, id := range ids {
		if v.isVisible(id) {
			v.selected[id] = struct{}{}
		}
	}
}

func (v *View) Deselect(ids ...string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for _, id := range ids {
		delete(v.selected, id)
	}
}

// Toggle flips the selection of id and reports whether it is now selected.
func (v *View) Toggle(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, ok := v.selected[id]; ok {
		delete(v.selected, id)
		return false
	}

	if !v.isVisible(id) {
		return false
	}

	v.selected[id] = struct{}{}

	return true
}

// SelectAll selects exactly the visible rows.
func (v *View) SelectAll() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.selected = make(map[string]struct{}, len(v.visible))
	for _, tx := range v.visible {
		v.selected[tx.ID] = struct{}{}
	}
}

func (v *View) ClearSelection() {
	v.mu.Lock()
	defer v.mu.Unlock()

	clear(v.selected)
}

func (v *View) IsSelected(id string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	_, ok := v.selected[id]

	return ok
}

// SelectedIDs returns the selection in visible order.
func (v *View) SelectedIDs() []string {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]string, 0, len(v.selected))

	for _, tx := range v.visible {
		if _, ok := v.selected[tx.ID]; ok {
			out = append(out, tx.ID)
		}
	}

	return out
}
