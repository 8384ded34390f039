package components

import (
	"strconv"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/strive/internal/model"
	"github.com/theirongolddev/strive/internal/tui/theme"
)

func TestResample(t *testing.T) {
	got := Resample([]float64{0, 10, 20, 30}, 7)
	if len(got) != 7 {
		t.Fatalf("len = %d, want 7", len(got))
	}
	if got[0] != 0 || got[6] != 30 {
		t.Fatalf("endpoints = %v, %v; want 0, 30", got[0], got[6])
	}
	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1] {
			t.Fatalf("resampled path not monotonic at %d: %v", i, got)
		}
	}

	if Resample(nil, 5) != nil {
		t.Error("empty input should give nil")
	}
	if one := Resample([]float64{4}, 3); len(one) != 3 || one[2] != 4 {
		t.Errorf("single value = %v, want [4 4 4]", one)
	}
}

func TestPathChartRowPerSeries(t *testing.T) {
	theme.SetActive("flexoki-dark")
	out := PathChart([]Series{
		{Name: "actual", Values: []float64{0, 5, 10}, Color: theme.Active.Green},
		{Name: "strive", Values: []float64{0, 4, 8, 12}, Color: theme.Active.Blue},
		{Name: "empty"},
	}, 8, 20)

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2 (empty series skipped)", len(lines))
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w != 29 {
			t.Errorf("line %d width = %d, want 29", i, w)
		}
	}
}

func TestHeatmapRows(t *testing.T) {
	theme.SetActive("flexoki-dark")
	cells := []model.HeatCell{
		{Day: 0, Intensity: 2, ValK: 20},
		{Day: 1, Intensity: 0},
		{Day: 2, Intensity: 4, ValK: 50},
	}
	out := Heatmap(cells, 10, 7, 1)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("rows = %d, want 2", len(lines))
	}
	// 7 cells of 2 columns plus 6 separators.
	if w := lipgloss.Width(lines[0]); w != 20 {
		t.Errorf("first row width = %d, want 20", w)
	}
	if !strings.Contains(lines[0], "[]") {
		t.Error("cursor on an unlogged day should render []")
	}
}

func TestBarChartFallsBackToSparkline(t *testing.T) {
	out := BarChart([]float64{1, 2, 3}, nil, theme.Active.Blue, 10, 10)
	if strings.Contains(out, "\n") {
		t.Fatalf("narrow chart should be a one-line sparkline, got %q", out)
	}
}

func TestBarChartFitsWidth(t *testing.T) {
	vals := make([]float64, 100)
	labels := make([]string, 100)
	for i := range vals {
		vals[i] = float64(i * 1000)
		labels[i] = strconv.Itoa(i + 1)
	}
	out := BarChart(vals, labels, theme.Active.Green, 40, 4)
	lines := strings.Split(out, "\n")
	if len(lines) != 6 {
		t.Fatalf("lines = %d, want 4 rows plus axis and labels", len(lines))
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w > 40 {
			t.Errorf("line %d width = %d, want <= 40", i, w)
		}
	}
	if !strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "1") {
		t.Errorf("first label missing: %q", lines[len(lines)-1])
	}
}

func TestBarChartCeilingLabel(t *testing.T) {
	out := BarChart([]float64{30000, 70000}, []string{"B1", "B2"}, theme.Active.Blue, 40, 8)
	first := strings.SplitN(out, "\n", 2)[0]
	if !strings.Contains(first, "100.0K") {
		t.Fatalf("top row %q should carry the 100.0K ceiling", first)
	}
	if !strings.Contains(out, "B1") || !strings.Contains(out, "B2") {
		t.Fatalf("block labels missing:\n%s", out)
	}
}

func TestChartCeiling(t *testing.T) {
	for _, tc := range []struct{ in, want float64 }{
		{0, 1},
		{7, 10},
		{1500, 2000},
		{40000, 50000},
		{100000, 100000},
	} {
		if got := chartCeiling(tc.in); got != tc.want {
			t.Errorf("chartCeiling(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
