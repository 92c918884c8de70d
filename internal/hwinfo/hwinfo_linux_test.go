//go:build linux

package hwinfo

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadAllCPUStats(t *testing.T) {
	path := writeFixture(t, "stat", `cpu  100 0 50 800 50 0 0 0 0 0
cpu0 60 0 30 400 10 0 0 0 0 0
cpu1 40 0 20 400 40 0 0 0 0 0
intr 12345
ctxt 67890
`)
	readings, err := readAllCPUStatsFrom(path)
	if err != nil {
		t.Fatalf("readAllCPUStatsFrom failed: %v", err)
	}
	if readings.total == nil {
		t.Fatal("No aggregate cpu line parsed")
	}
	if readings.total.Busy != 150 || readings.total.Idle != 850 {
		t.Errorf("Aggregate busy/idle = %d/%d, want 150/850", readings.total.Busy, readings.total.Idle)
	}
	if len(readings.perCore) != 2 {
		t.Fatalf("Expected 2 cores, got %d", len(readings.perCore))
	}
	if readings.perCore[0].Busy != 90 || readings.perCore[0].Idle != 410 {
		t.Errorf("Core 0 busy/idle = %d/%d, want 90/410", readings.perCore[0].Busy, readings.perCore[0].Idle)
	}
}

func TestCPUPercent(t *testing.T) {
	before := &CPUReading{Busy: 100, Idle: 900}
	after := &CPUReading{Busy: 175, Idle: 925}
	// 75 busy over 100 total elapsed jiffies.
	if got := CPUPercent(before, after); math.Abs(got-75) > 0.001 {
		t.Errorf("CPUPercent = %f, want 75", got)
	}
	if got := CPUPercent(nil, after); got != 0 {
		t.Errorf("Missing previous reading should yield 0, got %f", got)
	}
	if got := CPUPercent(before, before); got != 0 {
		t.Errorf("Zero elapsed time should yield 0, got %f", got)
	}
}

func TestCPUFrequencyFrom(t *testing.T) {
	path := writeFixture(t, "cpuinfo", `processor	: 0
vendor_id	: GenuineIntel
model name	: Test CPU
cpu MHz		: 2400.123
cache size	: 8192 KB
`)
	mhz, ok := cpuFrequencyFrom(path)
	if !ok {
		t.Fatal("Frequency field not found")
	}
	if math.Abs(mhz-2400.123) > 0.001 {
		t.Errorf("Frequency = %f, want 2400.123", mhz)
	}

	noFreq := writeFixture(t, "cpuinfo-arm", "processor\t: 0\nBogoMIPS\t: 48.00\n")
	if _, ok := cpuFrequencyFrom(noFreq); ok {
		t.Error("Expected no frequency on a file without the field")
	}
}

func TestReadMemoryStats(t *testing.T) {
	path := writeFixture(t, "meminfo", `MemTotal:       16000000 kB
MemFree:         2000000 kB
MemAvailable:   12000000 kB
Buffers:          500000 kB
SwapTotal:       8000000 kB
SwapFree:        6000000 kB
`)
	stats, err := readMemoryStatsFrom(path)
	if err != nil {
		t.Fatalf("readMemoryStatsFrom failed: %v", err)
	}
	if stats.TotalBytes != 16000000*1024 {
		t.Errorf("TotalBytes = %d", stats.TotalBytes)
	}
	if stats.UsedBytes != 4000000*1024 {
		t.Errorf("UsedBytes = %d, want MemTotal-MemAvailable", stats.UsedBytes)
	}
	if math.Abs(stats.UsedPercent-25) > 0.001 {
		t.Errorf("UsedPercent = %f, want 25", stats.UsedPercent)
	}
	if math.Abs(stats.SwapUsedPercent-25) > 0.001 {
		t.Errorf("SwapUsedPercent = %f, want 25", stats.SwapUsedPercent)
	}
}

func TestReadMemoryStatsMissingTotal(t *testing.T) {
	path := writeFixture(t, "meminfo", "MemFree: 1000 kB\n")
	if _, err := readMemoryStatsFrom(path); err == nil {
		t.Fatal("Expected an error without MemTotal")
	}
}

func TestReadNetworkStats(t *testing.T) {
	path := writeFixture(t, "netdev", `Inter-|   Receive                                                |  Transmit
 face |bytes    packets errs drop fifo frame compressed multicast|bytes    packets errs drop fifo colls carrier compressed
    lo: 9999999    9999    9    0    0     0          0         0  9999999    9999    9    0    0     0       0          0
  eth0: 1000000    5000    2    0    0     0          0         0   500000    2500    1    0    0     0       0          0
 wlan0: 2000000   10000    0    0    0     0          0         0  1500000    7500    0    0    0     0       0          0
`)
	stats, err := readNetworkStatsFrom(path)
	if err != nil {
		t.Fatalf("readNetworkStatsFrom failed: %v", err)
	}
	if stats.BytesRecv != 3000000 {
		t.Errorf("BytesRecv = %d, want 3000000 (loopback excluded)", stats.BytesRecv)
	}
	if stats.BytesSent != 2000000 {
		t.Errorf("BytesSent = %d, want 2000000", stats.BytesSent)
	}
	if stats.PacketsRecv != 15000 || stats.PacketsSent != 10000 {
		t.Errorf("Packets = %d/%d, want 15000/10000", stats.PacketsRecv, stats.PacketsSent)
	}
	if stats.ErrorsIn != 2 || stats.ErrorsOut != 1 {
		t.Errorf("Errors = %d/%d, want 2/1", stats.ErrorsIn, stats.ErrorsOut)
	}
}

func TestReadDiskStats(t *testing.T) {
	stats, err := ReadDiskStats(t.TempDir())
	if err != nil {
		t.Fatalf("ReadDiskStats failed: %v", err)
	}
	if stats.TotalBytes == 0 {
		t.Error("TotalBytes is zero for a real filesystem")
	}
	if stats.UsedPercent < 0 || stats.UsedPercent > 100 {
		t.Errorf("UsedPercent out of range: %f", stats.UsedPercent)
	}
}

func TestReadProcStat(t *testing.T) {
	// Field layout and the parenthesized comm follow proc(5); the comm here
	// contains both a space and a ')' to exercise the last-paren scan.
	line := "1234 (web (worker)) S 1 1234 1234 0 -1 4194304 500 0 0 0 150 75 0 0 20 0 4 0 100000 10000000 2048 18446744073709551615 0 0 0 0 0 0 0 0 0 0 0 0 17 1 0 0 0 0 0"
	path := writeFixture(t, "stat-pid", line)

	sample, ok := readProcStat(path)
	if !ok {
		t.Fatal("readProcStat rejected a valid line")
	}
	if sample.name != "web (worker)" {
		t.Errorf("name = %q, want %q", sample.name, "web (worker)")
	}
	if sample.jiffies != 225 {
		t.Errorf("jiffies = %d, want utime+stime = 225", sample.jiffies)
	}
	if sample.rssPages != 2048 {
		t.Errorf("rssPages = %d, want 2048", sample.rssPages)
	}

	if _, ok := readProcStat(writeFixture(t, "stat-bad", "gibberish")); ok {
		t.Error("readProcStat accepted a malformed line")
	}
}

func TestTopProcessesLive(t *testing.T) {
	infos, total, err := TopProcesses(50*time.Millisecond, 5)
	if err != nil {
		t.Fatalf("TopProcesses failed: %v", err)
	}
	if total == 0 {
		t.Error("No processes counted")
	}
	if len(infos) > 5 {
		t.Errorf("Limit not applied: %d entries", len(infos))
	}
	for _, info := range infos {
		if info.PID <= 0 {
			t.Errorf("Bad pid in %+v", info)
		}
		if info.Name == "" {
			t.Errorf("Empty name for pid %d", info.PID)
		}
	}
}

func TestSampleCPULive(t *testing.T) {
	sample, err := SampleCPU(50 * time.Millisecond)
	if err != nil {
		t.Fatalf("SampleCPU failed: %v", err)
	}
	if sample.CoreCount == 0 {
		t.Error("No cores detected")
	}
	if sample.OverallPercent < 0 || sample.OverallPercent > 100 {
		t.Errorf("OverallPercent out of range: %f", sample.OverallPercent)
	}
	if len(sample.PerCorePercent) != sample.CoreCount {
		t.Errorf("Per-core slice has %d entries for %d cores", len(sample.PerCorePercent), sample.CoreCount)
	}
}
