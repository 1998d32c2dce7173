// Package config provides the generation parameters shared by the CLI
// commands, with their defaults and validation.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/leapstack-labs/taskerslab/internal/charges"
	"github.com/leapstack-labs/taskerslab/internal/structio"
	"github.com/leapstack-labs/taskerslab/pkg/core"
)

// GenerationConfig holds the inputs and parameters of a generation run.
type GenerationConfig struct {
	Bulk          string        `koanf:"bulk"`
	BulkFormat    string        `koanf:"bulk_format"` // empty: from the file extension
	Charges       string        `koanf:"charges"`
	ChargesFormat string        `koanf:"charges_format"`
	BulkName      string        `koanf:"bulk_name"`
	Millers       []core.Miller `koanf:"millers"`

	Layers    int     `koanf:"layers"`
	PlaneTol  float64 `koanf:"plane_tol"`
	ChargeTol float64 `koanf:"charge_tol"`
	DipoleTol float64 `koanf:"dipole_tol"`

	Thickness []int   `koanf:"thickness"`
	Vacuum    float64 `koanf:"vacuum"`
	OutDir    string  `koanf:"out_dir"`
	Ext       string  `koanf:"ext"`
	Plot      bool    `koanf:"plot"`
	PlotDir   string  `koanf:"plot_dir"`

	Concurrency int  `koanf:"concurrency"`
	FailFast    bool `koanf:"fail_fast"`
}

// Tolerances returns the analysis tolerances.
func (c *GenerationConfig) Tolerances() core.Tolerances {
	return core.Tolerances{Plane: c.PlaneTol, Charge: c.ChargeTol, Dipole: c.DipoleTol}
}

// ValidateInputs checks that the bulk and charge inputs are configured and
// their formats are known.
func (c *GenerationConfig) ValidateInputs() error {
	var errs []error
	if c.Bulk == "" {
		errs = append(errs, errors.New("bulk is required\nHint: pass --bulk or set bulk in taskerslab.yaml"))
	} else if c.BulkFormat != "" {
		if _, err := structio.Lookup(c.BulkFormat); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Charges == "" {
		errs = append(errs, errors.New("charges is required\nHint: pass --charges or set charges in taskerslab.yaml"))
	}
	if _, err := charges.NewParser(c.ChargesFormat); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Validate checks every generation parameter.
func (c *GenerationConfig) Validate() error {
	errs := []error{c.ValidateInputs()}

	if c.Layers < 1 {
		errs = append(errs, fmt.Errorf("layers must be at least 1, got %d", c.Layers))
	}
	for name, v := range map[string]float64{"plane_tol": c.PlaneTol, "charge_tol": c.ChargeTol, "dipole_tol": c.DipoleTol} {
		if !(v >= 0) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("%s must be a finite non-negative number, got %v", name, v))
		}
	}
	if !(c.Vacuum >= 0) || math.IsInf(c.Vacuum, 0) {
		errs = append(errs, fmt.Errorf("vacuum must be a finite non-negative number, got %v", c.Vacuum))
	}
	for _, t := range c.Thickness {
		if t < 1 {
			errs = append(errs, fmt.Errorf("thickness values must be at least 1, got %d", t))
			break
		}
	}
	if _, err := structio.Lookup(c.Ext); err != nil {
		errs = append(errs, fmt.Errorf("ext: %w", err))
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency))
	}
	if c.BulkName == "" {
		errs = append(errs, errors.New("bulk_name is required when it cannot be derived from bulk"))
	} else if strings.ContainsAny(c.BulkName, `/\`) {
		errs = append(errs, fmt.Errorf("bulk_name %q must not contain path separators", c.BulkName))
	}
	errs = append(errs, ValidateMillers(c.Millers))
	return errors.Join(errs...)
}

// ValidateMillers rejects zero and repeated indices.
func ValidateMillers(millers []core.Miller) error {
	seen := make(map[core.Miller]bool, len(millers))
	for _, m := range millers {
		if m.IsZero() {
			return fmt.Errorf("millers: %w: %s", core.ErrInvalidMiller, m)
		}
		if seen[m] {
			return fmt.Errorf("millers: duplicate index %s", m)
		}
		seen[m] = true
	}
	return nil
}
