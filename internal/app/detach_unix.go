//go:build !windows

package app

import "syscall"

// detachedSysProcAttr puts the child in its own session so that it survives
// the agent exiting and never shares our controlling terminal.
func detachedSysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setsid: true}
}
