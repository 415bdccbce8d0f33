package id

// Sequence hands out surrogate keys 0, 1, 2, ... for one table.
// Keys are never reused. A Sequence is owned by a single run and is not safe
// for concurrent use. The zero value starts at 0.
type Sequence struct {
	next int
}

// Next returns the next key.
func (s *Sequence) Next() int {
	n := s.next
	s.next++
	return n
}
