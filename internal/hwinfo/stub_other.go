//go:build !linux

package hwinfo

import "time"

type CPUSample struct {
	OverallPercent float64
	PerCorePercent []float64
	CoreCount      int
}

type MemoryStats struct {
	TotalBytes      uint64
	AvailableBytes  uint64
	UsedBytes       uint64
	UsedPercent     float64
	SwapTotalBytes  uint64
	SwapUsedPercent float64
}

type DiskStats struct {
	Path        string
	TotalBytes  uint64
	UsedBytes   uint64
	FreeBytes   uint64
	UsedPercent float64
}

type NetworkStats struct {
	BytesRecv   uint64
	BytesSent   uint64
	PacketsRecv uint64
	PacketsSent uint64
	ErrorsIn    uint64
	ErrorsOut   uint64
}

type ProcessInfo struct {
	PID        int
	Name       string
	CPUPercent float64
	MemPercent float64
}

func SampleCPU(interval time.Duration) (CPUSample, error) { return CPUSample{}, ErrUnsupported }

func CPUFrequencyMHz() (float64, bool) { return 0, false }

func ReadMemoryStats() (MemoryStats, error) { return MemoryStats{}, ErrUnsupported }

func ReadDiskStats(path string) (DiskStats, error) { return DiskStats{}, ErrUnsupported }

func ReadNetworkStats() (NetworkStats, error) { return NetworkStats{}, ErrUnsupported }

func TopProcesses(interval time.Duration, limit int) ([]ProcessInfo, int, error) {
	return nil, 0, ErrUnsupported
}
