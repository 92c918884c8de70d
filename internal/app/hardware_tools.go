package app

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"hwagent/internal/hwinfo"
)

func init() {
	RegisterTool(ToolDefinition{
		Name:        "get_cpu_stats",
		Description: "Get current CPU usage percentage and stats",
		InputSchema: objectSchema(map[string]interface{}{
			"interval": numberProp("Sampling interval in seconds"),
		}),
	}, executeCPUStats)

	RegisterTool(ToolDefinition{
		Name:        "get_memory_stats",
		Description: "Get memory usage statistics",
		InputSchema: objectSchema(map[string]interface{}{}),
	}, executeMemoryStats)

	RegisterTool(ToolDefinition{
		Name:        "get_disk_stats",
		Description: "Get disk usage for a specific path",
		InputSchema: objectSchema(map[string]interface{}{
			"path": stringProp("Path to check disk usage"),
		}),
	}, executeDiskStats)

	RegisterTool(ToolDefinition{
		Name:        "get_network_stats",
		Description: "Get network I/O statistics",
		InputSchema: objectSchema(map[string]interface{}{}),
	}, executeNetworkStats)

	RegisterTool(ToolDefinition{
		Name:        "get_top_processes",
		Description: "Get list of running processes with resource usage",
		InputSchema: objectSchema(map[string]interface{}{}),
	}, executeTopProcesses)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func toGB(bytes uint64) float64 {
	return round2(float64(bytes) / (1 << 30))
}

func toMB(bytes uint64) float64 {
	return round2(float64(bytes) / (1 << 20))
}

func executeCPUStats(ctx context.Context, args json.RawMessage, tb *Toolbox) map[string]interface{} {
	var params struct {
		Interval float64 `json:"interval"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return errorResult("invalid arguments: %v", err)
	}
	interval := time.Second
	if params.Interval > 0 {
		interval = time.Duration(params.Interval * float64(time.Second))
	}

	sample, err := hwinfo.SampleCPU(interval)
	if err != nil {
		return errorResult("%v", err)
	}
	result := map[string]interface{}{
		"overall_percent":  round2(sample.OverallPercent),
		"per_core_percent": sample.PerCorePercent,
		"core_count":       sample.CoreCount,
	}
	if mhz, ok := hwinfo.CPUFrequencyMHz(); ok {
		result["frequency_mhz"] = round2(mhz)
	}
	return result
}

func executeMemoryStats(ctx context.Context, args json.RawMessage, tb *Toolbox) map[string]interface{} {
	mem, err := hwinfo.ReadMemoryStats()
	if err != nil {
		return errorResult("%v", err)
	}
	return map[string]interface{}{
		"total_gb":          toGB(mem.TotalBytes),
		"available_gb":      toGB(mem.AvailableBytes),
		"used_gb":           toGB(mem.UsedBytes),
		"percent_used":      round2(mem.UsedPercent),
		"swap_total_gb":     toGB(mem.SwapTotalBytes),
		"swap_used_percent": round2(mem.SwapUsedPercent),
	}
}

func executeDiskStats(ctx context.Context, args json.RawMessage, tb *Toolbox) map[string]interface{} {
	var params struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return errorResult("invalid arguments: %v", err)
	}
	if params.Path == "" {
		params.Path = "/"
	}

	disk, err := hwinfo.ReadDiskStats(params.Path)
	if err != nil {
		return errorResult("%v", err)
	}
	return map[string]interface{}{
		"path":         disk.Path,
		"total_gb":     toGB(disk.TotalBytes),
		"used_gb":      toGB(disk.UsedBytes),
		"free_gb":      toGB(disk.FreeBytes),
		"percent_used": round2(disk.UsedPercent),
	}
}

func executeNetworkStats(ctx context.Context, args json.RawMessage, tb *Toolbox) map[string]interface{} {
	net, err := hwinfo.ReadNetworkStats()
	if err != nil {
		return errorResult("%v", err)
	}
	return map[string]interface{}{
		"bytes_sent_mb": toMB(net.BytesSent),
		"bytes_recv_mb": toMB(net.BytesRecv),
		"packets_sent":  net.PacketsSent,
		"packets_recv":  net.PacketsRecv,
		"errors_in":     net.ErrorsIn,
		"errors_out":    net.ErrorsOut,
	}
}

func executeTopProcesses(ctx context.Context, args json.RawMessage, tb *Toolbox) map[string]interface{} {
	procs, total, err := hwinfo.TopProcesses(time.Second, 10)
	if err != nil {
		return errorResult("%v", err)
	}
	top := make([]map[string]interface{}, 0, len(procs))
	for _, proc := range procs {
		top = append(top, map[string]interface{}{
			"pid":            proc.PID,
			"name":           proc.Name,
			"cpu_percent":    round2(proc.CPUPercent),
			"memory_percent": round2(proc.MemPercent),
		})
	}
	return map[string]interface{}{
		"top_by_cpu":      top,
		"total_processes": total,
	}
}
