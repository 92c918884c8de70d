//go:build linux

package hwinfo

import "syscall"

type DiskStats struct {
	Path        string
	TotalBytes  uint64
	UsedBytes   uint64
	FreeBytes   uint64
	UsedPercent float64
}

// ReadDiskStats reports filesystem usage for the given path via statfs.
// Free space is what an unprivileged caller can use (Bavail), the same
// number df(1) shows.
func ReadDiskStats(path string) (DiskStats, error) {
	var fs syscall.Statfs_t
	if err := syscall.Statfs(path, &fs); err != nil {
		return DiskStats{}, err
	}

	block := uint64(fs.Bsize)
	total := fs.Blocks * block
	free := fs.Bavail * block
	used := (fs.Blocks - fs.Bfree) * block

	stats := DiskStats{
		Path:       path,
		TotalBytes: total,
		UsedBytes:  used,
		FreeBytes:  free,
	}
	if denominator := used + free; denominator > 0 {
		stats.UsedPercent = float64(used) / float64(denominator) * 100
	}
	return stats, nil
}
