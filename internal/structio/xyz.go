package structio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/leapstack-labs/taskerslab/pkg/core"
	"github.com/leapstack-labs/taskerslab/pkg/elements"
)

func init() {
	Register(XYZ{})
}

// XYZ is the extended XYZ format. The lattice and periodicity travel in the
// comment line as Lattice="..." and pbc="...".
type XYZ struct{}

// Name implements Codec.
func (XYZ) Name() string { return "xyz" }

// Extensions implements Codec.
func (XYZ) Extensions() []string { return []string{"xyz", "extxyz"} }

// Read decodes the first frame.
func (XYZ) Read(r io.Reader) (*core.Structure, error) {
	sc := bufio.NewScanner(r)

	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("xyz: missing atom count")
	}
	n, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil || n < 0 {
		return nil, fmt.Errorf("xyz: invalid atom count %q", sc.Text())
	}

	if !sc.Scan() {
		return nil, fmt.Errorf("xyz: missing comment line")
	}
	info := parseKeyValues(sc.Text())

	s := &core.Structure{}
	if lat, ok := info["lattice"]; ok {
		vals, err := parseFloats(strings.Fields(lat))
		if err != nil || len(vals) != 9 {
			return nil, fmt.Errorf("xyz: invalid Lattice %q", lat)
		}
		for i := 0; i < 3; i++ {
			s.Cell[i] = core.Vec3{vals[3*i], vals[3*i+1], vals[3*i+2]}
		}
		s.PBC = [3]bool{true, true, true}
	}
	if pbc, ok := info["pbc"]; ok {
		fields := strings.Fields(pbc)
		if len(fields) != 3 {
			return nil, fmt.Errorf("xyz: invalid pbc %q", pbc)
		}
		for i, f := range fields {
			s.PBC[i] = parseBool(f)
		}
	}

	for i := 0; i < n; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("xyz: expected %d atoms, got %d", n, i)
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 {
			return nil, fmt.Errorf("xyz: atom line %d: want species and three coordinates", i+1)
		}
		z, ok := elements.Number(fields[0])
		if !ok {
			return nil, fmt.Errorf("xyz: atom line %d: unknown element %q", i+1, fields[0])
		}
		pos, err := parseFloats(fields[1:4])
		if err != nil {
			return nil, fmt.Errorf("xyz: atom line %d: %w", i+1, err)
		}
		s.Atoms = append(s.Atoms, core.Atom{Number: z, Position: core.Vec3{pos[0], pos[1], pos[2]}})
	}
	return s, sc.Err()
}

// Write encodes s as a single frame.
func (XYZ) Write(w io.Writer, s *core.Structure) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d\n", len(s.Atoms))

	var lat []string
	for _, v := range s.Cell {
		for _, x := range v {
			lat = append(lat, formatFloat(x))
		}
	}
	fmt.Fprintf(bw, "Lattice=\"%s\" Properties=species:S:1:pos:R:3 pbc=\"%s %s %s\"\n",
		strings.Join(lat, " "), boolFlag(s.PBC[0]), boolFlag(s.PBC[1]), boolFlag(s.PBC[2]))

	for _, a := range s.Atoms {
		fmt.Fprintf(bw, "%-2s %16.8f %16.8f %16.8f\n",
			elements.Symbol(a.Number), a.Position[0], a.Position[1], a.Position[2])
	}
	return bw.Flush()
}

// parseKeyValues splits an extended XYZ comment into lower-cased keys and
// unquoted values.
func parseKeyValues(line string) map[string]string {
	out := make(map[string]string)
	i := 0
	for i < len(line) {
		for i < len(line) && line[i] == ' ' {
			i++
		}
		start := i
		for i < len(line) && line[i] != '=' && line[i] != ' ' {
			i++
		}
		key := strings.ToLower(line[start:i])
		if i >= len(line) || line[i] != '=' {
			if key != "" {
				out[key] = "T"
			}
			continue
		}
		i++ // '='

		var val string
		if i < len(line) && line[i] == '"' {
			end := strings.IndexByte(line[i+1:], '"')
			if end < 0 {
				val = line[i+1:]
				i = len(line)
			} else {
				val = line[i+1 : i+1+end]
				i += end + 2
			}
		} else {
			start := i
			for i < len(line) && line[i] != ' ' {
				i++
			}
			val = line[start:i]
		}
		if key != "" {
			out[key] = val
		}
	}
	return out
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", f)
		}
		out[i] = v
	}
	return out, nil
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "t", "true", "1":
		return true
	}
	return false
}

func boolFlag(b bool) string {
	if b {
		return "T"
	}
	return "F"
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 8, 64)
}
