package config

import (
	"path/filepath"
	"testing"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/taskerslab/internal/testutil"
	"github.com/leapstack-labs/taskerslab/pkg/core"
)

func validConfig() *GenerationConfig {
	c := &GenerationConfig{
		Bulk:      "MgO.in",
		Charges:   "MgO.out",
		PlaneTol:  core.DefaultPlaneTol,
		ChargeTol: core.DefaultChargeTol,
		DipoleTol: core.DefaultDipoleTol,
		Vacuum:    DefaultVacuum,
	}
	ApplyDefaults(c)
	return c
}

func TestApplyDefaults(t *testing.T) {
	c := &GenerationConfig{Bulk: "data/MgO.in"}
	ApplyDefaults(c)

	assert.Equal(t, DefaultLayers, c.Layers)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, c.Thickness)
	assert.Equal(t, DefaultMillers, c.Millers)
	assert.Equal(t, DefaultExt, c.Ext)
	assert.Equal(t, "fhi-aims-hirshfeld", c.ChargesFormat)
	assert.Equal(t, "MgO", c.BulkName)

	// explicit values survive
	c = &GenerationConfig{Bulk: "x.in", BulkName: "slab", Layers: 2, Thickness: []int{3}}
	ApplyDefaults(c)
	assert.Equal(t, "slab", c.BulkName)
	assert.Equal(t, 2, c.Layers)
	assert.Equal(t, []int{3}, c.Thickness)

	ApplyDefaults(nil)
}

func TestBulkNameFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", ""},
		{"MgO.in", "MgO"},
		{"data/ZnO.xyz", "ZnO"},
		{filepath.Join("structures", "TiO2", "geometry.in"), "TiO2"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, BulkNameFromPath(tt.path))
		})
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	tests := []struct {
		name    string
		mutate  func(*GenerationConfig)
		wantErr string
	}{
		{"missing bulk", func(c *GenerationConfig) { c.Bulk = ""; c.BulkName = "x" }, "bulk is required"},
		{"missing charges", func(c *GenerationConfig) { c.Charges = "" }, "charges is required"},
		{"unknown charges format", func(c *GenerationConfig) { c.ChargesFormat = "bader" }, "bader"},
		{"unknown bulk format", func(c *GenerationConfig) { c.BulkFormat = "cif" }, "cif"},
		{"layers", func(c *GenerationConfig) { c.Layers = 0 }, "layers must be at least 1"},
		{"negative tolerance", func(c *GenerationConfig) { c.ChargeTol = -1 }, "charge_tol"},
		{"negative vacuum", func(c *GenerationConfig) { c.Vacuum = -2 }, "vacuum"},
		{"thickness", func(c *GenerationConfig) { c.Thickness = []int{1, 0} }, "thickness"},
		{"unknown ext", func(c *GenerationConfig) { c.Ext = "pdb" }, "ext"},
		{"concurrency", func(c *GenerationConfig) { c.Concurrency = -1 }, "concurrency"},
		{"bulk name separator", func(c *GenerationConfig) { c.BulkName = "a/b" }, "path separators"},
		{"zero miller", func(c *GenerationConfig) { c.Millers = []core.Miller{{0, 0, 0}} }, "invalid miller index"},
		{"duplicate miller", func(c *GenerationConfig) { c.Millers = []core.Miller{{1, 0, 0}, {1, 0, 0}} }, "duplicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateMillers_ErrorIs(t *testing.T) {
	err := ValidateMillers([]core.Miller{{0, 0, 0}})
	assert.ErrorIs(t, err, core.ErrInvalidMiller)
	assert.NoError(t, ValidateMillers(nil))
}

func TestTolerances(t *testing.T) {
	c := &GenerationConfig{PlaneTol: 0.2, ChargeTol: 0.01, DipoleTol: 1e-4}
	assert.Equal(t, core.Tolerances{Plane: 0.2, Charge: 0.01, Dipole: 1e-4}, c.Tolerances())
}

func TestParseMillerList(t *testing.T) {
	tests := []struct {
		in   string
		want []core.Miller
	}{
		{"", nil},
		{"100", []core.Miller{{1, 0, 0}}},
		{"100 110 111", []core.Miller{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}}},
		{"1 1 0", []core.Miller{{1, 1, 0}}},
		{"1,0,0; 1,-1,0", []core.Miller{{1, 0, 0}, {1, -1, 0}}},
		{"(1, 1, 1);", []core.Miller{{1, 1, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMillerList(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseMillerList("1 0")
	assert.Error(t, err)
}

func TestUnmarshal_Hooks(t *testing.T) {
	tests := []struct {
		name    string
		millers any
		thick   any
		want    []core.Miller
		wantT   []int
	}{
		{
			name:    "strings",
			millers: []any{"100", "1 1 0"},
			thick:   "1,2,5",
			want:    []core.Miller{{1, 0, 0}, {1, 1, 0}},
			wantT:   []int{1, 2, 5},
		},
		{
			name:    "single string",
			millers: "100;111",
			thick:   []any{3},
			want:    []core.Miller{{1, 0, 0}, {1, 1, 1}},
			wantT:   []int{3},
		},
		{
			name:    "nested lists",
			millers: []any{[]any{1, -1, 0}},
			thick:   []any{"2", "4"},
			want:    []core.Miller{{1, -1, 0}},
			wantT:   []int{2, 4},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := koanf.New(".")
			require.NoError(t, k.Load(confmap.Provider(map[string]any{
				"millers":   tt.millers,
				"thickness": tt.thick,
				"layers":    "2",
			}, "."), nil))

			var c GenerationConfig
			require.NoError(t, Unmarshal(k, "", &c))
			assert.Equal(t, tt.want, c.Millers)
			assert.Equal(t, tt.wantT, c.Thickness)
			assert.Equal(t, 2, c.Layers)
		})
	}
}

func TestUnmarshal_BadMiller(t *testing.T) {
	k := koanf.New(".")
	require.NoError(t, k.Load(confmap.Provider(map[string]any{"millers": []any{"abc"}}, "."), nil))

	var c GenerationConfig
	err := Unmarshal(k, "", &c)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to decode config")
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, FindConfigFile(dir))

	alt := testutil.WriteFile(t, dir, ConfigFileNameAlt, "layers: 1\n")
	assert.Equal(t, alt, FindConfigFile(dir))

	primary := testutil.WriteFile(t, dir, ConfigFileName, "layers: 1\n")
	assert.Equal(t, primary, FindConfigFile(dir))
}
