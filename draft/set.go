package draft

import "strings"

// OrderedSet is a list of unique strings kept in insertion order.
type OrderedSet struct {
	items []string
}

// NewOrderedSet builds a set from vals, dropping blanks and repeats.
func NewOrderedSet(vals ...string) OrderedSet {
	var s OrderedSet
	for _, v := range vals {
		s.Add(v)
	}
	return s
}

// Add appends v unless it is blank or present. Values are trimmed.
func (s *OrderedSet) Add(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" || s.Has(v) {
		return false
	}
	s.items = append(s.items, v)
	return true
}

// Remove deletes v.
func (s *OrderedSet) Remove(v string) bool {
	for i, it := range s.items {
		if it == v {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
	}
	return false
}

// Toggle flips membership and reports whether v is now a member.
func (s *OrderedSet) Toggle(v string) bool {
	if s.Remove(v) {
		return false
	}
	return s.Add(v)
}

// Has reports membership.
func (s *OrderedSet) Has(v string) bool {
	for _, it := range s.items {
		if it == v {
			return true
		}
	}
	return false
}

// Values returns a copy of the members.
func (s *OrderedSet) Values() []string {
	return append([]string(nil), s.items...)
}

// Len is the member count.
func (s *OrderedSet) Len() int { return len(s.items) }
