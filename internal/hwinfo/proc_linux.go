//go:build linux

package hwinfo

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

type ProcessInfo struct {
	PID        int
	Name       string
	CPUPercent float64
	MemPercent float64
}

// TopProcesses samples per-process CPU jiffies over interval and returns the
// top limit processes by CPU usage, plus the total process count. Processes
// that vanish mid-sample are skipped, the same way ps tolerates them.
func TopProcesses(interval time.Duration, limit int) ([]ProcessInfo, int, error) {
	if interval <= 0 {
		interval = time.Second
	}
	if limit <= 0 {
		limit = 10
	}

	before, err := snapshotProcJiffies()
	if err != nil {
		return nil, 0, err
	}
	totalBefore, err := readAllCPUStatsFrom("/proc/stat")
	if err != nil {
		return nil, 0, err
	}

	time.Sleep(interval)

	after, err := snapshotProcJiffies()
	if err != nil {
		return nil, 0, err
	}
	totalAfter, err := readAllCPUStatsFrom("/proc/stat")
	if err != nil {
		return nil, 0, err
	}

	mem, memErr := ReadMemoryStats()
	pageSize := uint64(os.Getpagesize())
	cores := len(totalAfter.perCore)
	if cores == 0 {
		cores = 1
	}

	var totalDelta uint64
	if totalBefore.total != nil && totalAfter.total != nil {
		totalDelta = (totalAfter.total.Busy + totalAfter.total.Idle) -
			(totalBefore.total.Busy + totalBefore.total.Idle)
	}

	infos := make([]ProcessInfo, 0, len(after))
	for pid, sample := range after {
		info := ProcessInfo{PID: pid, Name: sample.name}
		if prev, ok := before[pid]; ok && totalDelta > 0 && sample.jiffies >= prev.jiffies {
			// Scale by core count so a process saturating one core of an
			// N-core machine reads 100%, matching top(1).
			info.CPUPercent = float64(sample.jiffies-prev.jiffies) / float64(totalDelta) * float64(cores) * 100
		}
		if memErr == nil && mem.TotalBytes > 0 {
			info.MemPercent = float64(sample.rssPages*pageSize) / float64(mem.TotalBytes) * 100
		}
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].CPUPercent > infos[j].CPUPercent })
	total := len(infos)
	if len(infos) > limit {
		infos = infos[:limit]
	}
	return infos, total, nil
}

type procSample struct {
	name     string
	jiffies  uint64
	rssPages uint64
}

func snapshotProcJiffies() (map[int]procSample, error) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return nil, err
	}

	samples := make(map[int]procSample, len(entries))
	for _, entry := range entries {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		sample, ok := readProcStat(filepath.Join("/proc", entry.Name(), "stat"))
		if !ok {
			continue
		}
		samples[pid] = sample
	}
	return samples, nil
}

// readProcStat parses one /proc/[pid]/stat line. The comm field is wrapped
// in parentheses and may itself contain spaces or parens, so fields are
// counted from the last ')'.
func readProcStat(path string) (procSample, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return procSample{}, false
	}
	line := string(data)

	start := strings.Index(line, "(")
	end := strings.LastIndex(line, ")")
	if start < 0 || end < start {
		return procSample{}, false
	}

	fields := strings.Fields(line[end+1:])
	// After the comm field: 0=state ... 11=utime 12=stime ... 21=rss.
	if len(fields) < 22 {
		return procSample{}, false
	}
	utime, err1 := strconv.ParseUint(fields[11], 10, 64)
	stime, err2 := strconv.ParseUint(fields[12], 10, 64)
	rss, err3 := strconv.ParseUint(fields[21], 10, 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return procSample{}, false
	}

	return procSample{
		name:     line[start+1 : end],
		jiffies:  utime + stime,
		rssPages: rss,
	}, true
}
