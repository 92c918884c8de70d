//go:build linux

package hwinfo

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type MemoryStats struct {
	TotalBytes      uint64
	AvailableBytes  uint64
	UsedBytes       uint64
	UsedPercent     float64
	SwapTotalBytes  uint64
	SwapUsedPercent float64
}

// ReadMemoryStats parses /proc/meminfo. Used memory follows the
// MemTotal - MemAvailable definition, matching what free(1) reports.
func ReadMemoryStats() (MemoryStats, error) {
	return readMemoryStatsFrom("/proc/meminfo")
}

func readMemoryStatsFrom(path string) (MemoryStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return MemoryStats{}, err
	}
	defer file.Close()

	values := map[string]uint64{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		// Lines look like "MemTotal:       16316412 kB".
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		key := strings.TrimSuffix(fields[0], ":")
		kb, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		values[key] = kb * 1024
	}
	if err := scanner.Err(); err != nil {
		return MemoryStats{}, err
	}

	total, ok := values["MemTotal"]
	if !ok || total == 0 {
		return MemoryStats{}, fmt.Errorf("meminfo at %s is missing MemTotal", path)
	}
	available := values["MemAvailable"]
	if available > total {
		available = total
	}

	stats := MemoryStats{
		TotalBytes:     total,
		AvailableBytes: available,
		UsedBytes:      total - available,
		SwapTotalBytes: values["SwapTotal"],
	}
	stats.UsedPercent = float64(stats.UsedBytes) / float64(total) * 100
	if swapTotal := values["SwapTotal"]; swapTotal > 0 {
		swapUsed := swapTotal - values["SwapFree"]
		stats.SwapUsedPercent = float64(swapUsed) / float64(swapTotal) * 100
	}
	return stats, nil
}
