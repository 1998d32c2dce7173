package structio

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/taskerslab/pkg/core"
	"github.com/leapstack-labs/taskerslab/pkg/elements"
	"github.com/leapstack-labs/taskerslab/pkg/lattice"
)

func init() {
	Register(Aims{})
}

// Aims is the FHI-aims geometry.in format.
type Aims struct{}

// Name implements Codec.
func (Aims) Name() string { return "aims" }

// Extensions implements Codec.
func (Aims) Extensions() []string { return []string{"in"} }

// Read decodes lattice_vector, atom and atom_frac lines. Other keywords are ignored.
func (Aims) Read(r io.Reader) (*core.Structure, error) {
	type pending struct {
		number int
		pos    core.Vec3
		frac   bool
	}

	var (
		vectors []core.Vec3
		atoms   []pending
		lineNo  int
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "lattice_vector":
			if len(fields) < 4 {
				return nil, fmt.Errorf("aims: line %d: lattice_vector needs three components", lineNo)
			}
			v, err := parseFloats(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("aims: line %d: %w", lineNo, err)
			}
			vectors = append(vectors, core.Vec3{v[0], v[1], v[2]})
		case "atom", "atom_frac":
			if len(fields) < 5 {
				return nil, fmt.Errorf("aims: line %d: %s needs three coordinates and a species", lineNo, fields[0])
			}
			v, err := parseFloats(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("aims: line %d: %w", lineNo, err)
			}
			z, ok := elements.Number(fields[4])
			if !ok {
				return nil, fmt.Errorf("aims: line %d: unknown element %q", lineNo, fields[4])
			}
			atoms = append(atoms, pending{number: z, pos: core.Vec3{v[0], v[1], v[2]}, frac: fields[0] == "atom_frac"})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	s := &core.Structure{}
	switch len(vectors) {
	case 0:
	case 3:
		s.Cell = core.Cell{vectors[0], vectors[1], vectors[2]}
		s.PBC = [3]bool{true, true, true}
	default:
		return nil, fmt.Errorf("aims: expected 0 or 3 lattice vectors, got %d", len(vectors))
	}

	for _, a := range atoms {
		pos := a.pos
		if a.frac {
			if len(vectors) == 0 {
				return nil, fmt.Errorf("aims: atom_frac requires lattice vectors")
			}
			pos = lattice.ToCartesian(s.Cell, pos)
		}
		s.Atoms = append(s.Atoms, core.Atom{Number: a.number, Position: pos})
	}
	return s, nil
}

// Write encodes s with Cartesian atom lines. Lattice vectors are written when
// any axis is periodic.
func (Aims) Write(w io.Writer, s *core.Structure) error {
	bw := bufio.NewWriter(w)
	if s.PBC[0] || s.PBC[1] || s.PBC[2] {
		for _, v := range s.Cell {
			fmt.Fprintf(bw, "lattice_vector %16.8f %16.8f %16.8f\n", v[0], v[1], v[2])
		}
	}
	for _, a := range s.Atoms {
		fmt.Fprintf(bw, "atom %16.8f %16.8f %16.8f %s\n",
			a.Position[0], a.Position[1], a.Position[2], elements.Symbol(a.Number))
	}
	return bw.Flush()
}
