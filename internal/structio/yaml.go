package structio

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/taskerslab/pkg/core"
	"github.com/leapstack-labs/taskerslab/pkg/elements"
)

func init() {
	Register(YAML{})
}

// YAML is a plain document format:
//
//	cell: [[a1x, a1y, a1z], [a2x, a2y, a2z], [a3x, a3y, a3z]]
//	pbc: [true, true, true]
//	atoms:
//	  - {symbol: Mg, position: [0, 0, 0]}
type YAML struct{}

type yamlAtom struct {
	Symbol   string     `yaml:"symbol"`
	Position [3]float64 `yaml:"position,flow"`
}

type yamlStructure struct {
	Cell  [3][3]float64 `yaml:"cell,flow"`
	PBC   *[3]bool      `yaml:"pbc,omitempty,flow"`
	Atoms []yamlAtom    `yaml:"atoms"`
}

// Name implements Codec.
func (YAML) Name() string { return "yaml" }

// Extensions implements Codec.
func (YAML) Extensions() []string { return []string{"yaml", "yml"} }

// Read decodes a document. A missing pbc defaults to periodic on all axes.
func (YAML) Read(r io.Reader) (*core.Structure, error) {
	var doc yamlStructure
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("yaml: %w", err)
	}

	s := &core.Structure{PBC: [3]bool{true, true, true}}
	if doc.PBC != nil {
		s.PBC = *doc.PBC
	}
	for i, v := range doc.Cell {
		s.Cell[i] = core.Vec3(v)
	}
	for i, a := range doc.Atoms {
		z, ok := elements.Number(a.Symbol)
		if !ok {
			return nil, fmt.Errorf("yaml: atom %d: unknown element %q", i, a.Symbol)
		}
		s.Atoms = append(s.Atoms, core.Atom{Number: z, Position: core.Vec3(a.Position)})
	}
	return s, nil
}

// Write encodes s.
func (YAML) Write(w io.Writer, s *core.Structure) error {
	pbc := s.PBC
	doc := yamlStructure{PBC: &pbc}
	for i, v := range s.Cell {
		doc.Cell[i] = [3]float64(v)
	}
	for _, a := range s.Atoms {
		doc.Atoms = append(doc.Atoms, yamlAtom{Symbol: elements.Symbol(a.Number), Position: [3]float64(a.Position)})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}
