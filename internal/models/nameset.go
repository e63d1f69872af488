package models

import "slices"

// NameSet is a set of names that remembers insertion order.
type NameSet struct {
	names []string
}

func NewNameSet(names ...string) *NameSet {
	s := &NameSet{}
	for _, n := range names {
		s.Add(n)
	}
	return s
}

func (s *NameSet) Has(name string) bool {
	return slices.Contains(s.names, name)
}

// Add appends name if absent and reports whether the set changed
func (s *NameSet) Add(name string) bool {
	if s.Has(name) {
		return false
	}
	s.names = append(s.names, name)
	return true
}

// Remove deletes name and reports whether it was present
func (s *NameSet) Remove(name string) bool {
	i := slices.Index(s.names, name)
	if i < 0 {
		return false
	}
	s.names = slices.Delete(s.names, i, i+1)
	return true
}

// Toggle removes name if present, appends it otherwise. It returns whether
// name is in the set afterwards.
func (s *NameSet) Toggle(name string) bool {
	if s.Remove(name) {
		return false
	}
	s.names = append(s.names, name)
	return true
}

func (s *NameSet) Len() int {
	return len(s.names)
}

// Names returns a copy of the members in insertion order
func (s *NameSet) Names() []string {
	return slices.Clone(s.names)
}
