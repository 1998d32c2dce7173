// Package structio reads and writes atomic structures in the supported file
// formats: extended XYZ, FHI-aims geometry.in and YAML.
package structio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/leapstack-labs/taskerslab/pkg/core"
)

// Codec reads and writes one structure format.
type Codec interface {
	core.StructureReader
	core.StructureWriter

	// Name is the canonical format name.
	Name() string

	// Extensions lists file extensions without the leading dot. The first is
	// used when writing.
	Extensions() []string
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Codec)
)

// Register adds a codec under its name and each of its extensions.
// Called by codec implementations in their init() functions.
func Register(c Codec) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[c.Name()] = c
	for _, ext := range c.Extensions() {
		registry[ext] = c
	}
}

// Get retrieves a codec by format name or extension.
func Get(name string) (Codec, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	c, ok := registry[strings.ToLower(strings.TrimPrefix(name, "."))]
	return c, ok
}

// Lookup is Get with an UnknownFormatError on a miss.
func Lookup(name string) (Codec, error) {
	c, ok := Get(name)
	if !ok {
		return nil, &UnknownFormatError{Format: name, Available: ListFormats()}
	}
	return c, nil
}

// ListFormats returns all registered names and extensions (sorted).
func ListFormats() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForPath picks a codec from a file name. "geometry.in" maps to aims
// regardless of directory.
func ForPath(path string) (Codec, error) {
	base := filepath.Base(path)
	if strings.EqualFold(base, "geometry.in") {
		return Lookup("aims")
	}
	ext := strings.TrimPrefix(filepath.Ext(base), ".")
	if ext == "" {
		return nil, &UnknownFormatError{Format: base, Available: ListFormats()}
	}
	return Lookup(ext)
}

// UnknownFormatError is returned when a format is not registered.
type UnknownFormatError struct {
	Format    string
	Available []string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown structure format %q\nAvailable formats: %v\nHint: set bulk_format in taskerslab.yaml or use a known file extension", e.Format, e.Available)
}

// Unwrap lets errors.Is match core.ErrUnknownFormat.
func (e *UnknownFormatError) Unwrap() error {
	return core.ErrUnknownFormat
}

// ReadFile reads a structure, detecting the format from path when format is empty.
func ReadFile(path, format string) (*core.Structure, error) {
	codec, err := codecFor(path, format)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open structure: %w", err)
	}
	defer f.Close()

	s, err := codec.Read(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s as %s: %w", path, codec.Name(), err)
	}
	if s.Len() == 0 {
		return nil, fmt.Errorf("%s: %w", path, core.ErrEmptyStructure)
	}
	return s, nil
}

// WriteFile writes a structure, detecting the format from path when format is empty.
func WriteFile(path, format string, s *core.Structure) error {
	codec, err := codecFor(path, format)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := codec.Write(f, s); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func codecFor(path, format string) (Codec, error) {
	if format != "" {
		return Lookup(format)
	}
	return ForPath(path)
}
