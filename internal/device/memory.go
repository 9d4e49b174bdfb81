package device

import "runtime"

// runtimeMemoryProbe reads allocated heap bytes from the Go runtime.
type runtimeMemoryProbe struct{}

// NewMemoryProbe returns a probe backed by runtime.MemStats.
func NewMemoryProbe() MemoryProbe {
	return &runtimeMemoryProbe{}
}

func (*runtimeMemoryProbe) ReadAllocated() (uint64, error) {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	return stats.HeapAlloc, nil
}
