// Package plot renders data as terminal-friendly charts and saves them as
// text files, the agent's equivalent of a plotting toolkit.
package plot

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/guptarohit/asciigraph"
)

type Series struct {
	Name   string
	Values []float64
}

// Line renders a single-series line chart with a caption.
func Line(values []float64, title string, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	return asciigraph.Plot(values,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(title),
	)
}

// seriesPalette is cycled across series. PlotMany requires one color per
// legend entry; legends without colors make asciigraph index past the end
// of its color slice.
var seriesPalette = []asciigraph.AnsiColor{
	asciigraph.Blue,
	asciigraph.Green,
	asciigraph.Red,
	asciigraph.Yellow,
	asciigraph.Cyan,
	asciigraph.Magenta,
}

// MultiLine renders several series on one chart with a legend.
func MultiLine(series []Series, title string, width, height int) string {
	if len(series) == 0 {
		return ""
	}
	data := make([][]float64, 0, len(series))
	legends := make([]string, 0, len(series))
	colors := make([]asciigraph.AnsiColor, 0, len(series))
	for i, s := range series {
		data = append(data, s.Values)
		legends = append(legends, s.Name)
		colors = append(colors, seriesPalette[i%len(seriesPalette)])
	}
	return asciigraph.PlotMany(data,
		asciigraph.Width(width),
		asciigraph.Height(height),
		asciigraph.Caption(title),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(legends...),
	)
}

// Bars renders a horizontal bar chart, one row per label, scaled to the
// largest value.
func Bars(labels []string, values []float64, title string, width int) string {
	if len(labels) == 0 || len(labels) != len(values) {
		return ""
	}
	if width <= 0 {
		width = 40
	}

	maxValue := 0.0
	labelWidth := 0
	for i, label := range labels {
		if values[i] > maxValue {
			maxValue = values[i]
		}
		if len(label) > labelWidth {
			labelWidth = len(label)
		}
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteString("\n")
	}
	for i, label := range labels {
		bar := 0
		if maxValue > 0 {
			bar = int(math.Round(values[i] / maxValue * float64(width)))
		}
		fmt.Fprintf(&b, "%-*s %s %.2f\n", labelWidth, label, strings.Repeat("█", bar), values[i])
	}
	return b.String()
}

// Breakdown renders labeled values as shares of their total, the text stand-in
// for a pie chart.
func Breakdown(labels []string, values []float64, title string, width int) string {
	if len(labels) == 0 || len(labels) != len(values) {
		return ""
	}
	if width <= 0 {
		width = 40
	}

	total := 0.0
	labelWidth := 0
	for i, label := range labels {
		total += values[i]
		if len(label) > labelWidth {
			labelWidth = len(label)
		}
	}
	if total <= 0 {
		return ""
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteString("\n")
	}
	for i, label := range labels {
		share := values[i] / total
		bar := int(math.Round(share * float64(width)))
		fmt.Fprintf(&b, "%-*s %s %.1f%%\n", labelWidth, label, strings.Repeat("█", bar), share*100)
	}
	return b.String()
}

// Save writes a rendered chart under dir as <filename>.txt and returns the
// absolute path.
func Save(dir, filename, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename+".txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}
