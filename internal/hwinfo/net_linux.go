//go:build linux

package hwinfo

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

type NetworkStats struct {
	BytesRecv   uint64
	BytesSent   uint64
	PacketsRecv uint64
	PacketsSent uint64
	ErrorsIn    uint64
	ErrorsOut   uint64
}

// ReadNetworkStats sums the per-interface counters from /proc/net/dev,
// excluding the loopback interface.
func ReadNetworkStats() (NetworkStats, error) {
	return readNetworkStatsFrom("/proc/net/dev")
}

func readNetworkStatsFrom(path string) (NetworkStats, error) {
	file, err := os.Open(path)
	if err != nil {
		return NetworkStats{}, err
	}
	defer file.Close()

	var stats NetworkStats
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		// Interface lines look like "  eth0: 12345 67 0 0 ...". The two
		// header lines have no colon-terminated interface name.
		colon := strings.Index(line, ":")
		if colon < 0 {
			continue
		}
		name := strings.TrimSpace(line[:colon])
		if name == "" || name == "lo" {
			continue
		}
		fields := strings.Fields(line[colon+1:])
		// rx: bytes packets errs drop fifo frame compressed multicast,
		// then tx: bytes packets errs drop fifo colls carrier compressed.
		if len(fields) < 11 {
			continue
		}
		stats.BytesRecv += parseCounter(fields[0])
		stats.PacketsRecv += parseCounter(fields[1])
		stats.ErrorsIn += parseCounter(fields[2])
		stats.BytesSent += parseCounter(fields[8])
		stats.PacketsSent += parseCounter(fields[9])
		stats.ErrorsOut += parseCounter(fields[10])
	}
	return stats, scanner.Err()
}

func parseCounter(field string) uint64 {
	value, _ := strconv.ParseUint(field, 10, 64)
	return value
}
