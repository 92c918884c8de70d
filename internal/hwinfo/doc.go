// Package hwinfo collects system resource metrics for the agent's
// monitoring tools: CPU utilization from /proc/stat deltas, memory from
// /proc/meminfo, disk usage via statfs, network counters from /proc/net/dev
// and per-process usage from /proc/[pid]. Linux only; other platforms get
// ErrUnsupported.
package hwinfo
