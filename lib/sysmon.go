package lib

import (
	"os"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
	"github.com/sirupsen/logrus"
)

// ResourceUsage is a point-in-time sample of host load and the size of this
// process. Fields a sampler could not fill stay zero; recording never
// interrupts a run.
type ResourceUsage struct {
	CPUPercent     float64
	MemUsedPercent float64
	ProcRSS        uint64
}

// LogSystemInfo logs the host platform once at the start of a recorded run.
// The first CPU sample also primes the delta for later SnapshotUsage calls.
func LogSystemInfo() {
	fields := logrus.Fields{"function": "LogSystemInfo"}
	if info, err := host.Info(); err == nil {
		fields["platform"] = info.Platform
		fields["platform_version"] = info.PlatformVersion
		fields["kernel_arch"] = info.KernelArch
	}
	if n, err := cpu.Counts(true); err == nil {
		fields["logical_cpus"] = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		fields["total_ram_bytes"] = vm.Total
	}
	cpu.Percent(0, false)
	logrus.WithFields(fields).Info("Host system info")
}

// SnapshotUsage samples current host CPU and memory plus this process's
// resident size.
func SnapshotUsage() ResourceUsage {
	var u ResourceUsage
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		u.CPUPercent = pcts[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		u.MemUsedPercent = vm.UsedPercent
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mi, err := proc.MemoryInfo(); err == nil {
			u.ProcRSS = mi.RSS
		}
	}
	return u
}

// Log writes the snapshot through the structured logger, tagged with the
// run stage it was taken at.
func (u ResourceUsage) Log(stage string) {
	logrus.WithFields(logrus.Fields{
		"function":         "SnapshotUsage",
		"stage":            stage,
		"cpu_percent":      u.CPUPercent,
		"mem_used_percent": u.MemUsedPercent,
		"proc_rss_bytes":   u.ProcRSS,
	}).Info("Resource usage")
}
