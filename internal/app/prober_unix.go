//go:build !windows

package app

import "syscall"

// probeProcess sends the zero signal: no effect on the target, but the
// errno tells us whether the pid exists. EPERM means the process exists but
// is not ours; the registry still reports it as not-running for simplicity.
func probeProcess(pid int) bool {
	if pid <= 0 {
		return false
	}
	return syscall.Kill(pid, 0) == nil
}
