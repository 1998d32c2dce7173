package charges

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// HirshfeldName is the registry name of the FHI-aims Hirshfeld parser.
const HirshfeldName = "fhi-aims-hirshfeld"

const (
	hirshfeldMarker = "Performing Hirshfeld analysis of fragment charges and moments."
	hirshfeldLabel  = "Hirshfeld charge"
)

func init() {
	Register(Hirshfeld{})
}

// Hirshfeld reads Hirshfeld charges from an FHI-aims standard output file.
//
// Lines are ignored until the analysis header; afterwards every line containing
// "Hirshfeld charge" contributes the number after its first colon, e.g.
//
//	|   Hirshfeld charge        :      0.35343123
//
// Lines whose value does not parse are skipped.
type Hirshfeld struct{}

// Name implements core.ChargeParser.
func (Hirshfeld) Name() string { return HirshfeldName }

// Parse implements core.ChargeParser.
func (Hirshfeld) Parse(r io.Reader) ([]float64, error) {
	var (
		out     []float64
		inBlock bool
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.Contains(line, hirshfeldMarker) {
			inBlock = true
			continue
		}
		if !inBlock || !strings.Contains(line, hirshfeldLabel) {
			continue
		}

		parts := strings.Split(line, ":")
		if len(parts) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, sc.Err()
}
