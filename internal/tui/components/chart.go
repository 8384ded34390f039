package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/theirongolddev/strive/internal/cli"
	"github.com/theirongolddev/strive/internal/model"
	"github.com/theirongolddev/strive/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Series is one named path drawn by PathChart.
type Series struct {
	Name   string
	Values []float64
	Color  lipgloss.Color
}

// Sparkline renders a unicode sparkline from values, scaled to their peak.
func Sparkline(values []float64, color lipgloss.Color) string {
	return scaledSparkline(values, peakOf(values), color)
}

func peakOf(values []float64) float64 {
	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	return peak
}

func scaledSparkline(values []float64, peak float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	t := theme.Active

	blocks := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	if peak <= 0 {
		peak = 1
	}

	style := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var buf strings.Builder
	buf.Grow(len(values) * 4) // UTF-8 block chars are up to 3 bytes
	for _, v := range values {
		idx := min(len(blocks)-1, max(0, int(v/peak*float64(len(blocks)-1))))
		buf.WriteRune(blocks[idx])
	}

	return style.Render(buf.String())
}

// BarChart draws values as vertical bars height rows tall with the axis
// ceiling and zero on the left and labels underneath. When the bars do not
// fit in width they are sampled down. Charts smaller than 15x3 collapse to a
// sparkline.
func BarChart(values []float64, labels []string, color lipgloss.Color, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, color)
	}
	t := theme.Active
	if len(labels) != len(values) {
		labels = nil
	}

	ceiling := chartCeiling(peakOf(values))
	top := cli.FormatCompact(ceiling)
	axisW := len(top) + 1
	plotW := width - axisW - 1

	n := len(values)
	if fit := max(2, (plotW+1)/3); n > fit {
		sampled := make([]float64, fit)
		var sampledLabels []string
		if labels != nil {
			sampledLabels = make([]string, fit)
		}
		for i := range sampled {
			src := i * (n - 1) / (fit - 1)
			sampled[i] = values[src]
			if labels != nil {
				sampledLabels[i] = labels[src]
			}
		}
		values, labels, n = sampled, sampledLabels, fit
	}
	barW := min(6, max(2, (plotW+1)/n-1))
	axisLen := n*(barW+1) - 1

	eighths := []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)
	peakBand := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	body := lipgloss.NewStyle().Foreground(color).Background(t.Surface)

	var b strings.Builder
	for row := height; row >= 1; row-- {
		hi := ceiling * float64(row) / float64(height)
		lo := ceiling * float64(row-1) / float64(height)
		style := body
		if row == height {
			style = peakBand
		}

		label := ""
		if row == height {
			label = top
		}
		b.WriteString(axis.Render(fmt.Sprintf("%*s│", axisW, label)))
		for i, v := range values {
			if i > 0 {
				b.WriteString(blank.Render(" "))
			}
			switch {
			case v >= hi:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case v > lo:
				idx := min(8, max(1, int((v-lo)/(hi-lo)*8)))
				b.WriteString(style.Render(strings.Repeat(string(eighths[idx]), barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}
	b.WriteString(axis.Render(fmt.Sprintf("%*s└%s", axisW, "0", strings.Repeat("─", axisLen))))

	if labels != nil {
		buf := []byte(strings.Repeat(" ", axisLen))
		lastEnd := -1
		for i, lbl := range labels {
			pos := i * (barW + 1)
			end := pos + len(lbl)
			if pos <= lastEnd || end > axisLen {
				continue
			}
			copy(buf[pos:end], lbl)
			lastEnd = end
		}
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", axisW+1)))
		b.WriteString(axis.Render(strings.TrimRight(string(buf), " ")))
	}
	return b.String()
}

// chartCeiling rounds v up to 1, 2 or 5 times a power of ten.
func chartCeiling(v float64) float64 {
	if v <= 0 {
		return 1
	}
	base := math.Pow(10, math.Floor(math.Log10(v)))
	for _, m := range []float64{1, 2, 5} {
		if v <= m*base {
			return m * base
		}
	}
	return 10 * base
}

// PathChart stacks one sparkline per series, all scaled to the same peak so
// cumulative paths can be compared by eye. Each series is resampled to width.
func PathChart(series []Series, labelW, width int) string {
	t := theme.Active
	peak := 0.0
	for _, s := range series {
		peak = max(peak, peakOf(s.Values))
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	lines := make([]string, 0, len(series))
	for _, s := range series {
		if len(s.Values) == 0 {
			continue
		}
		line := labelStyle.Render(fmt.Sprintf("%-*s ", labelW, s.Name)) +
			scaledSparkline(Resample(s.Values, width), peak, s.Color)
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// Resample stretches or shrinks values to exactly n points by nearest index.
func Resample(values []float64, n int) []float64 {
	if n <= 0 || len(values) == 0 {
		return nil
	}
	if len(values) == 1 {
		out := make([]float64, n)
		for i := range out {
			out[i] = values[0]
		}
		return out
	}
	out := make([]float64, n)
	for i := range out {
		src := i * (len(values) - 1) / max(1, n-1)
		out[i] = values[src]
	}
	return out
}

// Heatmap renders logged days as colored cells, perRow per line, with the
// cursor day outlined. cursor < 0 disables the outline.
func Heatmap(cells []model.HeatCell, totalDays, perRow, cursor int) string {
	t := theme.Active
	if perRow <= 0 {
		perRow = 7
	}
	byDay := make(map[int]model.HeatCell, len(cells))
	for _, c := range cells {
		byDay[c.Day] = c
	}

	space := lipgloss.NewStyle().Background(t.Surface)
	var b strings.Builder
	for d := 0; d < totalDays; d++ {
		if d > 0 && d%perRow == 0 {
			b.WriteString("\n")
		} else if d > 0 {
			b.WriteString(space.Render(" "))
		}
		c := byDay[d]
		logged := c.ValK > 0
		glyph := "··"
		style := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
		if logged {
			glyph = "██"
			style = style.Foreground(t.HeatColor(c.Intensity))
		}
		if d == cursor {
			style = style.Background(t.AccentDim)
			if !logged {
				glyph = "[]"
				style = style.Foreground(t.AccentBright)
			}
		}
		b.WriteString(style.Render(glyph))
	}
	return b.String()
}
