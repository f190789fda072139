package pokedex

// SelectionSet is an ordered set of category names. The zero value is an
// empty set ready to use.
type SelectionSet struct {
	names []string
}

// NewSelectionSet builds a set from names, dropping duplicates and empty
// strings.
func NewSelectionSet(names ...string) SelectionSet {
	var s SelectionSet
	for _, n := range names {
		s.Toggle(n, true)
	}
	return s
}

// Toggle adds name when checked and removes it otherwise.
func (s *SelectionSet) Toggle(name string, checked bool) {
	if name == "" {
		return
	}
	if checked {
		if !s.Contains(name) {
			s.names = append(s.names, name)
		}
		return
	}
	kept := s.names[:0:0]
	for _, n := range s.names {
		if n != name {
			kept = append(kept, n)
		}
	}
	s.names = kept
}

// Contains reports whether name is selected.
func (s SelectionSet) Contains(name string) bool {
	for _, n := range s.names {
		if n == name {
			return true
		}
	}
	return false
}

// Len returns the number of selected names.
func (s SelectionSet) Len() int {
	return len(s.names)
}

// Names returns a copy of the selected names in insertion order.
func (s SelectionSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// ApplyFilter returns the records that carry every selected category, in
// their original order. An empty selection yields a copy of all records.
// The result never aliases all.
func ApplyFilter(all []Record, selected []string) []Record {
	out := make([]Record, 0, len(all))
	for _, r := range all {
		if matchesAll(r, selected) {
			out = append(out, r)
		}
	}
	return out
}

func matchesAll(r Record, selected []string) bool {
	for _, name := range selected {
		if !r.HasCategory(name) {
			return false
		}
	}
	return true
}
