package charges

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ListName is the registry name of the plain list parser.
const ListName = "list"

func init() {
	Register(List{})
}

// List reads one charge per line. Blank lines and text after '#' are ignored.
type List struct{}

// Name implements core.ChargeParser.
func (List) Name() string { return ListName }

// Parse implements core.ChargeParser.
func (List) Parse(r io.Reader) ([]float64, error) {
	var out []float64
	lineNo := 0

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid charge %q", lineNo, line)
		}
		out = append(out, v)
	}
	return out, sc.Err()
}
