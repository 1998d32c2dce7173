package core

// Vec3 is a Cartesian vector in Angstrom.
type Vec3 [3]float64

// Cell holds the three lattice vectors as rows.
type Cell [3]Vec3

// Atom is a single atom of a structure.
type Atom struct {
	Number   int // atomic number
	Position Vec3
}

// Structure is a periodic atomic structure.
type Structure struct {
	Cell  Cell
	Atoms []Atom
	PBC   [3]bool
}

// Len returns the number of atoms.
func (s *Structure) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Atoms)
}

// Numbers returns the atomic numbers in atom order.
func (s *Structure) Numbers() []int {
	out := make([]int, len(s.Atoms))
	for i, a := range s.Atoms {
		out[i] = a.Number
	}
	return out
}

// Clone returns a deep copy of the structure.
func (s *Structure) Clone() *Structure {
	atoms := make([]Atom, len(s.Atoms))
	copy(atoms, s.Atoms)
	return &Structure{Cell: s.Cell, Atoms: atoms, PBC: s.PBC}
}
