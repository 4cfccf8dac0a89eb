// Package telemetry pkg/telemetry/memory.go
package telemetry

import (
	"runtime"

	"github.com/gamehaven/telemetry/pkg/models"
)

// ReadMemoryStats returns a snapshot of current process memory. Used bytes is
// live heap, total is memory obtained from the OS.
func ReadMemoryStats() models.MemoryStats {
	var ms runtime.MemStats

	runtime.ReadMemStats(&ms)

	stats := models.MemoryStats{
		UsedBytes:  ms.Alloc,
		TotalBytes: ms.Sys,
	}
	if stats.TotalBytes > 0 {
		stats.UsedPercent = float64(stats.UsedBytes) / float64(stats.TotalBytes) * 100
	}

	return stats
}

func memorySnapshot() *models.MemorySnapshot {
	var ms runtime.MemStats

	runtime.ReadMemStats(&ms)

	return &models.MemorySnapshot{
		HeapAllocBytes: ms.HeapAlloc,
		SysBytes:       ms.Sys,
		NumGC:          ms.NumGC,
	}
}
