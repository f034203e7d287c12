package device

import (
	"pictoria-renderer/internal/log"
)

// Backend identifies a compute backend.
type Backend string

// Supported compute backends.
const (
	CPU    Backend = "CPU"
	CUDA   Backend = "CUDA"
	OptiX  Backend = "OPTIX"
	HIP    Backend = "HIP"
	OneAPI Backend = "ONEAPI"
)

// DefaultPreference is the order backends are probed in.
var DefaultPreference = []Backend{CUDA, OptiX, HIP, OneAPI}

type Kind uint8

// Device kinds.
const (
	CPUDevice Kind = iota
	GPUDevice
)

func (k Kind) String() string {
	if k == CPUDevice {
		return "CPU"
	}
	return "GPU"
}

// Device is one compute device reported by a probe.
type Device struct {
	Name    string
	Kind    Kind
	Enabled bool
}

// Prober lists the devices a backend can use. Probes may return CPU devices.
type Prober interface {
	Probe(b Backend) ([]Device, error)
}

// Config is the selected compute configuration.
type Config struct {
	Backend Backend
	Devices []Device
}

// UsesGPU reports whether a GPU backend was selected.
func (c Config) UsesGPU() bool {
	return c.Backend != CPU && c.Backend != ""
}

var logger = log.New("device")

// Select probes backends in preference order and picks the first one that
// reports at least one non-CPU device; all of its devices are enabled.
// Probe errors are logged and treated as "no devices". If nothing is found
// the CPU configuration is returned.
func Select(p Prober, prefs []Backend) Config {
	for _, b := range prefs {
		devices, err := p.Probe(b)
		if err != nil {
			logger.Warningf("probing %s failed: %v", b, err)
			continue
		}
		if countGPUs(devices) == 0 {
			logger.Debugf("%s: no GPU devices", b)
			continue
		}

		enabled := make([]Device, len(devices))
		for i, d := range devices {
			d.Enabled = true
			enabled[i] = d
			logger.Infof("enabled device: %s (%s)", d.Name, d.Kind)
		}
		logger.Noticef("using GPU compute type: %s", b)
		return Config{Backend: b, Devices: enabled}
	}

	logger.Notice("no GPU found, falling back to CPU rendering")
	return Config{Backend: CPU}
}

func countGPUs(devices []Device) int {
	n := 0
	for _, d := range devices {
		if d.Kind != CPUDevice {
			n++
		}
	}
	return n
}
