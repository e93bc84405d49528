package hybrid

// slotKey identifies one property of one host.
type slotKey struct {
	host *Host
	name string
}

// keySet is an insertion-ordered set of slot keys.
type keySet struct {
	order []slotKey
	index map[slotKey]int
}

func newKeySet() *keySet {
	return &keySet{index: make(map[slotKey]int)}
}

// add inserts k and reports whether it was new.
func (s *keySet) add(k slotKey) bool {
	if _, ok := s.index[k]; ok {
		return false
	}
	s.index[k] = len(s.order)
	s.order = append(s.order, k)
	return true
}

func (s *keySet) remove(k slotKey) {
	i, ok := s.index[k]
	if !ok {
		return
	}
	delete(s.index, k)
	s.order = append(s.order[:i], s.order[i+1:]...)
	for j := i; j < len(s.order); j++ {
		s.index[s.order[j]] = j
	}
}

func (s *keySet) has(k slotKey) bool {
	_, ok := s.index[k]
	return ok
}

func (s *keySet) len() int {
	return len(s.order)
}

// keys returns a copy of the keys in insertion order.
func (s *keySet) keys() []slotKey {
	out := make([]slotKey, len(s.order))
	copy(out, s.order)
	return out
}
