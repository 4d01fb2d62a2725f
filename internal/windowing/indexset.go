package windowing

// IndexSet is a bitmap over window positions [0, n). Values outside that
// range are dropped on insert, so they can never match a window.
type IndexSet struct {
	bits  []bool
	count int
}

// NewIndexSet returns a set over [0, n) holding the valid members of idx.
// Duplicates collapse.
func NewIndexSet(n int, idx ...int) *IndexSet {
	s := &IndexSet{bits: make([]bool, max(n, 0))}
	for _, i := range idx {
		s.Add(i)
	}
	return s
}

// Add inserts i and reports whether it was a new, in-range member.
func (s *IndexSet) Add(i int) bool {
	if i < 0 || i >= len(s.bits) || s.bits[i] {
		return false
	}
	s.bits[i] = true
	s.count++
	return true
}

// Has reports whether i is a member.
func (s *IndexSet) Has(i int) bool {
	return i >= 0 && i < len(s.bits) && s.bits[i]
}

// Len returns the number of distinct members.
func (s *IndexSet) Len() int { return s.count }

// Members returns the members in ascending order.
func (s *IndexSet) Members() []int {
	out := make([]int, 0, s.count)
	for i, ok := range s.bits {
		if ok {
			out = append(out, i)
		}
	}
	return out
}

// Complement returns the positions in [0, n) that are not members, ascending.
func (s *IndexSet) Complement() []int {
	out := make([]int, 0, len(s.bits)-s.count)
	for i, ok := range s.bits {
		if !ok {
			out = append(out, i)
		}
	}
	return out
}
