//go:build linux

package hwinfo

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"
)

// CPUReading captures cumulative busy/idle jiffies from one /proc/stat cpu
// line, for delta computation between two samples:
//
//	cpu  user nice system idle iowait irq softirq steal guest guest_nice
//
// busy = user + nice + system + irq + softirq + steal
// idle = idle + iowait
//
// guest and guest_nice are already folded into user/nice by the kernel.
type CPUReading struct {
	Busy uint64
	Idle uint64
}

// CPUSample is the result of sampling CPU utilization over an interval.
type CPUSample struct {
	OverallPercent float64
	PerCorePercent []float64
	CoreCount      int
}

// SampleCPU takes two /proc/stat readings separated by interval and returns
// overall and per-core utilization percentages.
func SampleCPU(interval time.Duration) (CPUSample, error) {
	if interval <= 0 {
		interval = time.Second
	}
	before, err := readAllCPUStatsFrom("/proc/stat")
	if err != nil {
		return CPUSample{}, err
	}
	time.Sleep(interval)
	after, err := readAllCPUStatsFrom("/proc/stat")
	if err != nil {
		return CPUSample{}, err
	}

	sample := CPUSample{
		OverallPercent: CPUPercent(before.total, after.total),
		CoreCount:      len(after.perCore),
	}
	for i := range after.perCore {
		var prev *CPUReading
		if i < len(before.perCore) {
			prev = before.perCore[i]
		}
		sample.PerCorePercent = append(sample.PerCorePercent, CPUPercent(prev, after.perCore[i]))
	}
	return sample, nil
}

// CPUPercent computes utilization from two sequential readings. Returns 0 if
// either reading is missing or no time has passed.
func CPUPercent(previous, current *CPUReading) float64 {
	if previous == nil || current == nil {
		return 0
	}
	busyDelta := current.Busy - previous.Busy
	idleDelta := current.Idle - previous.Idle
	totalDelta := busyDelta + idleDelta
	if totalDelta == 0 {
		return 0
	}
	return float64(busyDelta) / float64(totalDelta) * 100
}

// CPUFrequencyMHz reads the current frequency of the first core from
// /proc/cpuinfo. The second return is false when the field is absent (some
// VMs and ARM kernels omit it).
func CPUFrequencyMHz() (float64, bool) {
	return cpuFrequencyFrom("/proc/cpuinfo")
}

type allCPUReadings struct {
	total   *CPUReading
	perCore []*CPUReading
}

func readAllCPUStatsFrom(path string) (allCPUReadings, error) {
	file, err := os.Open(path)
	if err != nil {
		return allCPUReadings{}, err
	}
	defer file.Close()

	var readings allCPUReadings
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 9 || !strings.HasPrefix(fields[0], "cpu") {
			continue
		}
		reading := parseCPUFields(fields[1:])
		if reading == nil {
			continue
		}
		if fields[0] == "cpu" {
			readings.total = reading
		} else {
			readings.perCore = append(readings.perCore, reading)
		}
	}
	return readings, scanner.Err()
}

func parseCPUFields(fields []string) *CPUReading {
	values := make([]uint64, len(fields))
	for i, f := range fields {
		parsed, err := strconv.ParseUint(f, 10, 64)
		if err != nil {
			return nil
		}
		values[i] = parsed
	}
	if len(values) < 8 {
		return nil
	}
	// 0=user 1=nice 2=system 3=idle 4=iowait 5=irq 6=softirq 7=steal
	return &CPUReading{
		Busy: values[0] + values[1] + values[2] + values[5] + values[6] + values[7],
		Idle: values[3] + values[4],
	}
}

func cpuFrequencyFrom(path string) (float64, bool) {
	file, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "cpu MHz") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		mhz, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			return 0, false
		}
		return mhz, true
	}
	return 0, false
}
