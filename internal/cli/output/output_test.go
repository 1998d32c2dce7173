package output

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/taskerslab/pkg/core"
	"github.com/leapstack-labs/taskerslab/pkg/tasker"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func newTestRenderer(mode OutputMode, tty bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, tty, mode), out, errOut
}

func TestMode(t *testing.T) {
	tests := map[string]OutputMode{
		"":         ModeAuto,
		"auto":     ModeAuto,
		"TEXT":     ModeText,
		"markdown": ModeMarkdown,
		"md":       ModeMarkdown,
		" json ":   ModeJSON,
		"yaml":     ModeAuto,
	}
	for in, want := range tests {
		assert.Equal(t, want, Mode(in), "Mode(%q)", in)
	}
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode OutputMode
		tty  bool
		want OutputMode
	}{
		{ModeAuto, true, ModeText},
		{ModeAuto, false, ModeMarkdown},
		{"", false, ModeMarkdown},
		{ModeJSON, true, ModeJSON},
		{ModeText, false, ModeText},
	}
	for _, tt := range tests {
		r, _, _ := newTestRenderer(tt.mode, tt.tty)
		assert.Equal(t, tt.want, r.EffectiveMode())
	}
}

func TestNewRenderer_BufferIsNotTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestMarkdownOutput_NoANSI(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeMarkdown, false)
	r.Header(1, "Results")
	r.Success("done")
	r.Muted("quiet")
	r.StatusLine("(1, 0, 0)", "failed", "boom")
	r.Warning("careful")
	r.Error("bad")
	r.Table([]string{"a", "b"}, [][]any{{1, "x"}})

	combined := out.String() + errOut.String()
	assert.False(t, ansiPattern.MatchString(combined), "unexpected ANSI codes in %q", combined)
	assert.Contains(t, out.String(), "# Results")
	assert.Contains(t, strings.ToLower(out.String()), "| a | b |")
	assert.Contains(t, out.String(), "✗ (1, 0, 0)  boom")
	assert.Contains(t, errOut.String(), "careful")
	assert.Contains(t, errOut.String(), "bad")
}

func TestTable(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText, false)
		r.Table([]string{"plane", "charge"}, [][]any{{0, "+1.000"}, {1, "-1.000"}})
		s := out.String()
		assert.Contains(t, s, "PLANE")
		assert.Contains(t, s, "-1.000")
		assert.Contains(t, s, "┌")
	})

	t.Run("empty", func(t *testing.T) {
		r, out, _ := newTestRenderer(ModeText, false)
		r.Table([]string{"x"}, nil)
		assert.Equal(t, "(0 rows)\n", out.String())
	})
}

func TestJSON(t *testing.T) {
	r, out, _ := newTestRenderer(ModeJSON, false)
	require.NoError(t, r.JSON(ChargeSummary{Path: "q.out", Count: 2}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "q.out", got["path"])
	assert.Equal(t, float64(2), got["count"])
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "## Planes", FormatHeader(2, "Planes"))
	assert.Equal(t, "# X", FormatHeader(0, "X"))
	assert.Equal(t, "- **Period:** 3.000", FormatKeyValue("Period", "3.000"))
	assert.Equal(t, "O2Mg", FormatComposition(map[int]int{12: 1, 8: 2}))
	assert.Equal(t, "2-0", Edge(2, 3))
	assert.Equal(t, "0-?", Edge(0, 0))
	assert.Equal(t, map[string]int{"Mg": 1, "O": 2}, Composition(map[int]int{12: 1, 8: 2}))
}

func TestSummarizeCharges(t *testing.T) {
	s := SummarizeCharges("q", "list", []float64{2, -1, -1})
	assert.Equal(t, 3, s.Count)
	assert.InDelta(t, 0, s.Sum, 1e-12)
	assert.Equal(t, -1.0, s.Min)
	assert.Equal(t, 2.0, s.Max)

	empty := SummarizeCharges("q", "list", nil)
	assert.Zero(t, empty.Count)
	assert.Zero(t, empty.Min)
}

func TestNewAnalysisInfo(t *testing.T) {
	profile := &core.Profile{
		Period: 3,
		Rows: []core.AtomProjection{
			{Number: 12, Z: 0, Charge: 2},
			{Number: 8, Z: 1, Charge: -1},
			{Number: 8, Z: 2, Charge: -1},
		},
	}
	a, err := tasker.Analyze(profile, core.DefaultTolerances())
	require.NoError(t, err)

	info := NewAnalysisInfo(core.Miller{0, 0, 1}, a, false)
	assert.Equal(t, "(0, 0, 1)", info.Miller)
	assert.Len(t, info.Planes, 3)
	assert.Equal(t, map[string]int{"Mg": 1, "O": 2}, info.Formula)
	require.NotNil(t, info.Selected)
	assert.True(t, info.Selected.IsTaskerII)
	assert.Equal(t, "1-2", info.Selected.BottomEdge)
	require.NotNil(t, info.Cuts)
	assert.InDelta(t, 1.5, info.Cuts.Bottom, 1e-9)
	for _, c := range info.Candidates {
		assert.True(t, c.IsNeutral && c.IsStoich)
	}

	all := NewAnalysisInfo(core.Miller{0, 0, 1}, a, true)
	assert.Len(t, all.Candidates, 9)
	assert.Greater(t, len(all.Candidates), len(info.Candidates))
}

func TestNewRunInfo(t *testing.T) {
	run := &core.Run{ID: "r1", BulkName: "MgO", Status: core.RunStatusCompleted, Params: core.RunParams{BulkPath: "MgO.in"}}
	results := []*core.MillerResult{{Miller: core.Miller{1, 0, 0}, Status: core.ResultStatusSuccess, IsTaskerII: true}}

	info := NewRunInfo(run, results)
	assert.Equal(t, "MgO.in", info.BulkPath)
	require.Len(t, info.Results, 1)
	assert.Equal(t, "(1, 0, 0)", info.Results[0].Miller)
	assert.True(t, strings.EqualFold(info.Status, "completed"))
}
