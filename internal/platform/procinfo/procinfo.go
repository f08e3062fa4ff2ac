// Package procinfo reports process and Go runtime facts for diagnostic endpoints.
package procinfo

import (
	"os"
	"runtime"
	"time"

	"github.com/prometheus/procfs"
)

// started is captured once when the binary loads.
var started = time.Now()

// StartTime returns the moment the process loaded this package.
func StartTime() time.Time {
	return started
}

// Uptime returns elapsed seconds between since and now. Negative spans clamp to zero.
func Uptime(since, now time.Time) float64 {
	d := now.Sub(since)
	if d < 0 {
		return 0
	}
	return d.Seconds()
}

// Memory is a snapshot of process memory in bytes.
type Memory struct {
	RSS       uint64 `json:"rss" doc:"Resident set size"`
	HeapTotal uint64 `json:"heapTotal" doc:"Bytes of heap memory obtained from the OS"`
	HeapUsed  uint64 `json:"heapUsed" doc:"Bytes of allocated heap objects"`
	External  uint64 `json:"external" doc:"Bytes obtained from the OS outside the heap (stacks, runtime metadata)"`
}

// ReadMemory takes a fresh memory snapshot. rss comes from /proc when it is
// mounted and falls back to the bytes the Go runtime obtained from the OS.
func ReadMemory() Memory {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m := memoryFromStats(&ms)
	if rss, ok := residentMemory(); ok {
		m.RSS = rss
	}
	return m
}

func residentMemory() (uint64, bool) {
	proc, err := procfs.Self()
	if err != nil {
		return 0, false
	}
	stat, err := proc.Stat()
	if err != nil {
		return 0, false
	}
	rss := stat.ResidentMemory()
	if rss <= 0 {
		return 0, false
	}
	return uint64(rss), true
}

func memoryFromStats(ms *runtime.MemStats) Memory {
	var external uint64
	if ms.Sys > ms.HeapSys {
		external = ms.Sys - ms.HeapSys
	}
	return Memory{
		RSS:       ms.Sys,
		HeapTotal: ms.HeapSys,
		HeapUsed:  ms.HeapAlloc,
		External:  external,
	}
}

// Runtime describes the running binary.
type Runtime struct {
	Version  string
	Platform string
	PID      int
}

// ReadRuntime returns the Go version, OS and pid of this process.
func ReadRuntime() Runtime {
	return Runtime{
		Version:  runtime.Version(),
		Platform: runtime.GOOS,
		PID:      os.Getpid(),
	}
}
