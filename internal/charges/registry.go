// Package charges parses per-atom charge sequences from electronic-structure
// output.
package charges

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/leapstack-labs/taskerslab/pkg/core"
)

// DefaultParser is used when no parser name is configured.
const DefaultParser = HirshfeldName

var (
	registryMu sync.RWMutex
	registry   = make(map[string]core.ChargeParser)
)

// Register adds a parser under its name.
// Called by parser implementations in their init() functions.
func Register(p core.ChargeParser) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[p.Name()] = p
}

// Get retrieves a parser by name.
func Get(name string) (core.ChargeParser, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	p, ok := registry[name]
	return p, ok
}

// NewParser returns the named parser; an empty name selects DefaultParser.
func NewParser(name string) (core.ChargeParser, error) {
	if name == "" {
		name = DefaultParser
	}
	p, ok := Get(name)
	if !ok {
		return nil, &UnknownParserError{Name: name, Available: ListParsers()}
	}
	return p, nil
}

// ListParsers returns all registered parser names (sorted).
func ListParsers() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownParserError is returned when an unknown parser is requested.
type UnknownParserError struct {
	Name      string
	Available []string
}

func (e *UnknownParserError) Error() string {
	return fmt.Sprintf("unknown charge parser %q\nAvailable parsers: %v\nHint: Check charges_format in taskerslab.yaml", e.Name, e.Available)
}

// Unwrap lets errors.Is match core.ErrUnknownFormat.
func (e *UnknownParserError) Unwrap() error {
	return core.ErrUnknownFormat
}

// ParseFile opens path and parses it with the named parser.
func ParseFile(path, name string) ([]float64, error) {
	p, err := NewParser(name)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open charges: %w", err)
	}
	defer f.Close()

	charges, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s with %s: %w", path, p.Name(), err)
	}
	return charges, nil
}
