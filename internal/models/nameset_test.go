package models

import (
	"slices"
	"testing"
)

func TestNameSet(t *testing.T) {
	s := NewNameSet("Bacon", "Ovo", "Bacon")
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}

	if in := s.Toggle("Cheddar"); !in {
		t.Error("Toggle() on absent name should add it")
	}
	if got := s.Names(); !slices.Equal(got, []string{"Bacon", "Ovo", "Cheddar"}) {
		t.Errorf("Names() = %v", got)
	}

	if in := s.Toggle("Ovo"); in {
		t.Error("Toggle() on present name should remove it")
	}
	if s.Has("Ovo") {
		t.Error("Ovo still present after toggle")
	}

	names := s.Names()
	names[0] = "mutated"
	if !s.Has("Bacon") {
		t.Error("Names() must return a copy")
	}
}

func TestNameSetToggleTwiceIsEmpty(t *testing.T) {
	s := NewNameSet()
	s.Toggle("Granola")
	s.Toggle("Granola")
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}
