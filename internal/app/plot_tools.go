package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"hwagent/internal/hwinfo"
	"hwagent/internal/plot"
)

const (
	plotWidth  = 60
	plotHeight = 12
)

func init() {
	RegisterTool(ToolDefinition{
		Name:        "create_plot",
		Description: "Generate a plot/graph from data and save it to the plot directory",
		InputSchema: objectSchema(map[string]interface{}{
			"data":      stringProp("JSON string of data points, e.g. {\"x\": [1,2,3], \"y\": [4,5,6]} or {\"labels\": [...], \"values\": [...]} for bar/pie"),
			"title":     stringProp("Title of the plot"),
			"x_label":   stringProp("Label for X axis"),
			"y_label":   stringProp("Label for Y axis"),
			"plot_type": stringProp("One of: line, bar, scatter, pie"),
			"filename":  stringProp("Output filename (without extension)"),
		}, "data", "title", "filename"),
	}, executeCreatePlot)

	RegisterTool(ToolDefinition{
		Name:        "create_multi_series_plot",
		Description: "Generate a multi-series line plot from data",
		InputSchema: objectSchema(map[string]interface{}{
			"data":     stringProp("JSON with multiple series: {\"series1\": {\"x\": [], \"y\": []}, ...}"),
			"title":    stringProp("Title of the plot"),
			"x_label":  stringProp("Label for X axis"),
			"y_label":  stringProp("Label for Y axis"),
			"filename": stringProp("Output filename (without extension)"),
		}, "data", "title", "filename"),
	}, executeCreateMultiSeriesPlot)

	RegisterTool(ToolDefinition{
		Name:        "create_system_dashboard",
		Description: "Generate a system resource dashboard and save it to the plot directory",
		InputSchema: objectSchema(map[string]interface{}{
			"filename": stringProp("Output filename (without extension)"),
		}),
	}, executeCreateDashboard)
}

func executeCreatePlot(ctx context.Context, args json.RawMessage, tb *Toolbox) map[string]interface{} {
	var params struct {
		Data     string `json:"data"`
		Title    string `json:"title"`
		XLabel   string `json:"x_label"`
		YLabel   string `json:"y_label"`
		PlotType string `json:"plot_type"`
		Filename string `json:"filename"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return errorResult("invalid arguments: %v", err)
	}
	if params.Filename == "" {
		return errorResult("filename is required")
	}

	var data struct {
		X      []json.Number `json:"x"`
		Y      []float64     `json:"y"`
		Labels []string      `json:"labels"`
		Values []float64     `json:"values"`
	}
	if err := json.Unmarshal([]byte(params.Data), &data); err != nil {
		return errorResult("invalid JSON data: %v", err)
	}

	caption := params.Title
	if params.XLabel != "" || params.YLabel != "" {
		caption = fmt.Sprintf("%s (%s vs %s)", params.Title, params.YLabel, params.XLabel)
	}

	var rendered string
	switch params.PlotType {
	case "", "line", "scatter":
		rendered = plot.Line(data.Y, caption, plotWidth, plotHeight)
	case "bar":
		labels := data.Labels
		if len(labels) == 0 {
			for _, x := range data.X {
				labels = append(labels, x.String())
			}
		}
		values := data.Values
		if len(values) == 0 {
			values = data.Y
		}
		rendered = plot.Bars(labels, values, params.Title, plotWidth)
	case "pie":
		rendered = plot.Breakdown(data.Labels, data.Values, params.Title, plotWidth)
	default:
		return errorResult("unsupported plot type: %s", params.PlotType)
	}
	if rendered == "" {
		return errorResult("no plottable data provided")
	}

	if outcome := tb.Gate.Check(PermissionRequest{Kind: "write", Path: tb.Config.PlotDir, SessionID: tb.SessionID}); outcome != PermissionApproved {
		return errorResult("plot write was not approved (%s)", outcome)
	}

	path, err := plot.Save(tb.Config.PlotDir, params.Filename, rendered)
	if err != nil {
		return errorResult("%v", err)
	}
	return map[string]interface{}{
		"success":  true,
		"filepath": path,
		"message":  fmt.Sprintf("Plot saved to %s", path),
	}
}

func executeCreateMultiSeriesPlot(ctx context.Context, args json.RawMessage, tb *Toolbox) map[string]interface{} {
	var params struct {
		Data     string `json:"data"`
		Title    string `json:"title"`
		XLabel   string `json:"x_label"`
		YLabel   string `json:"y_label"`
		Filename string `json:"filename"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return errorResult("invalid arguments: %v", err)
	}
	if params.Filename == "" {
		return errorResult("filename is required")
	}

	var raw map[string]struct {
		Y []float64 `json:"y"`
	}
	if err := json.Unmarshal([]byte(params.Data), &raw); err != nil {
		return errorResult("invalid JSON data: %v", err)
	}

	series := make([]plot.Series, 0, len(raw))
	for name, values := range raw {
		series = append(series, plot.Series{Name: name, Values: values.Y})
	}
	// Map iteration order is random; keep the legend stable.
	for i := 1; i < len(series); i++ {
		for j := i; j > 0 && series[j].Name < series[j-1].Name; j-- {
			series[j], series[j-1] = series[j-1], series[j]
		}
	}

	rendered := plot.MultiLine(series, params.Title, plotWidth, plotHeight)
	if rendered == "" {
		return errorResult("no plottable data provided")
	}

	if outcome := tb.Gate.Check(PermissionRequest{Kind: "write", Path: tb.Config.PlotDir, SessionID: tb.SessionID}); outcome != PermissionApproved {
		return errorResult("plot write was not approved (%s)", outcome)
	}

	path, err := plot.Save(tb.Config.PlotDir, params.Filename, rendered)
	if err != nil {
		return errorResult("%v", err)
	}
	return map[string]interface{}{
		"success":  true,
		"filepath": path,
		"message":  fmt.Sprintf("Plot saved to %s", path),
	}
}

func executeCreateDashboard(ctx context.Context, args json.RawMessage, tb *Toolbox) map[string]interface{} {
	var params struct {
		Filename string `json:"filename"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return errorResult("invalid arguments: %v", err)
	}
	if params.Filename == "" {
		params.Filename = fmt.Sprintf("dashboard_%s", time.Now().Format("20060102_150405"))
	}

	rendered, err := renderDashboard()
	if err != nil {
		return errorResult("%v", err)
	}

	if outcome := tb.Gate.Check(PermissionRequest{Kind: "write", Path: tb.Config.PlotDir, SessionID: tb.SessionID}); outcome != PermissionApproved {
		return errorResult("dashboard write was not approved (%s)", outcome)
	}

	path, err := plot.Save(tb.Config.PlotDir, params.Filename, rendered)
	if err != nil {
		return errorResult("%v", err)
	}
	return map[string]interface{}{
		"success":  true,
		"filepath": path,
		"message":  fmt.Sprintf("Dashboard saved to %s", path),
	}
}

func renderDashboard() (string, error) {
	cpu, err := hwinfo.SampleCPU(time.Second)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "System Dashboard - %s\n\n", time.Now().Format(time.RFC1123))

	coreLabels := make([]string, 0, len(cpu.PerCorePercent))
	for i := range cpu.PerCorePercent {
		coreLabels = append(coreLabels, fmt.Sprintf("cpu%d", i))
	}
	b.WriteString(plot.Bars(coreLabels, cpu.PerCorePercent, fmt.Sprintf("CPU per core (overall %.1f%%)", cpu.OverallPercent), plotWidth))
	b.WriteString("\n")

	if mem, err := hwinfo.ReadMemoryStats(); err == nil {
		b.WriteString(plot.Breakdown(
			[]string{"used", "available"},
			[]float64{float64(mem.UsedBytes), float64(mem.AvailableBytes)},
			fmt.Sprintf("Memory (%.2f GB total)", float64(mem.TotalBytes)/(1<<30)),
			plotWidth,
		))
		b.WriteString("\n")
	}

	if disk, err := hwinfo.ReadDiskStats("/"); err == nil {
		b.WriteString(plot.Breakdown(
			[]string{"used", "free"},
			[]float64{float64(disk.UsedBytes), float64(disk.FreeBytes)},
			fmt.Sprintf("Disk / (%.2f GB total)", float64(disk.TotalBytes)/(1<<30)),
			plotWidth,
		))
		b.WriteString("\n")
	}

	if net, err := hwinfo.ReadNetworkStats(); err == nil {
		fmt.Fprintf(&b, "Network: %.2f MB sent, %.2f MB received, %d/%d errors in/out\n",
			float64(net.BytesSent)/(1<<20), float64(net.BytesRecv)/(1<<20), net.ErrorsIn, net.ErrorsOut)
	}

	return b.String(), nil
}
