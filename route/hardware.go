package route

import (
	"os"
	"runtime"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
)

// Default memory ceiling assumed when the environment provides no figure.
const defaultMemoryBytes uint64 = 8 << 30

// HardwareProfile describes the machine the router is deciding for. It is
// probed once per process and read-only afterwards; tests construct profiles
// directly instead of probing.
type HardwareProfile struct {
	LogicalCores int
	MemoryBytes  uint64
	HasGPU       bool
	AppleSilicon bool
}

var (
	probeOnce    sync.Once
	probedResult HardwareProfile
)

// Probe returns the process-wide hardware profile, running discovery on
// first use. Concurrent first callers are serialized by the once guard so
// discovery happens exactly once per process.
func Probe() HardwareProfile {
	probeOnce.Do(func() {
		probedResult = detectHardware()
		logrus.Debugf("hardware probe: cores=%d memory=%d gpu=%v apple=%v",
			probedResult.LogicalCores, probedResult.MemoryBytes, probedResult.HasGPU, probedResult.AppleSilicon)
	})
	return probedResult
}

// detectHardware performs the actual discovery pass. The memory ceiling and
// GPU presence honor QROUTE_MEMORY_BYTES / QROUTE_GPU overrides so deployments
// can pin them without code changes.
func detectHardware() HardwareProfile {
	hw := HardwareProfile{
		LogicalCores: runtime.NumCPU(),
		MemoryBytes:  defaultMemoryBytes,
		AppleSilicon: runtime.GOOS == "darwin" && runtime.GOARCH == "arm64",
	}
	if v := os.Getenv("QROUTE_MEMORY_BYTES"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil && parsed > 0 {
			hw.MemoryBytes = parsed
		} else {
			logrus.Warnf("ignoring invalid QROUTE_MEMORY_BYTES=%q", v)
		}
	}
	if v := os.Getenv("QROUTE_GPU"); v != "" {
		hw.HasGPU = v == "1" || v == "true"
	} else if _, err := os.Stat("/proc/driver/nvidia"); err == nil {
		hw.HasGPU = true
	}
	return hw
}
