package device

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const intelVendorID = "0x8086"

var drmCardRegex = regexp.MustCompile(`^card[0-9]+$`)

// SysfsProber discovers GPUs through the Linux proc and sysfs trees.
// Root is prepended to every path; leave it empty for the live system.
type SysfsProber struct {
	Root string
}

// Probe implements Prober. A missing driver tree means "no devices", not an
// error. Every result also lists the host CPU.
func (p SysfsProber) Probe(b Backend) ([]Device, error) {
	var (
		gpus []Device
		err  error
	)

	switch b {
	case CUDA, OptiX:
		gpus, err = p.nvidiaDevices()
	case HIP:
		gpus, err = p.kfdDevices()
	case OneAPI:
		gpus, err = p.intelDevices()
	case CPU:
	default:
		return nil, fmt.Errorf("device: unsupported backend %q", b)
	}
	if err != nil {
		return nil, fmt.Errorf("device: probe %s: %w", b, err)
	}

	return append(gpus, Device{Name: p.cpuName(), Kind: CPUDevice}), nil
}

func (p SysfsProber) path(elem ...string) string {
	return filepath.Join(append([]string{p.Root, "/"}, elem...)...)
}

func (p SysfsProber) nvidiaDevices() ([]Device, error) {
	entries, err := readDir(p.path("proc", "driver", "nvidia", "gpus"))
	if err != nil {
		return nil, err
	}

	var devices []Device
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := "NVIDIA GPU " + e.Name()
		if model := scanField(p.path("proc", "driver", "nvidia", "gpus", e.Name(), "information"), "Model:"); model != "" {
			name = model
		}
		devices = append(devices, Device{Name: name, Kind: GPUDevice})
	}
	return devices, nil
}

func (p SysfsProber) kfdDevices() ([]Device, error) {
	nodesDir := p.path("sys", "class", "kfd", "kfd", "topology", "nodes")
	entries, err := readDir(nodesDir)
	if err != nil {
		return nil, err
	}

	var devices []Device
	for _, e := range entries {
		// CPU nodes report gpu_id 0
		gpuID := readTrimmed(filepath.Join(nodesDir, e.Name(), "gpu_id"))
		if gpuID == "" || gpuID == "0" {
			continue
		}
		name := readTrimmed(filepath.Join(nodesDir, e.Name(), "name"))
		if name == "" {
			name = "AMD GPU " + gpuID
		}
		devices = append(devices, Device{Name: name, Kind: GPUDevice})
	}
	return devices, nil
}

func (p SysfsProber) intelDevices() ([]Device, error) {
	drmDir := p.path("sys", "class", "drm")
	entries, err := readDir(drmDir)
	if err != nil {
		return nil, err
	}

	var devices []Device
	for _, e := range entries {
		if !drmCardRegex.MatchString(e.Name()) {
			continue
		}
		if readTrimmed(filepath.Join(drmDir, e.Name(), "device", "vendor")) != intelVendorID {
			continue
		}
		devices = append(devices, Device{Name: "Intel GPU " + e.Name(), Kind: GPUDevice})
	}
	return devices, nil
}

func (p SysfsProber) cpuName() string {
	if model := scanField(p.path("proc", "cpuinfo"), "model name"); model != "" {
		return strings.TrimSpace(strings.TrimPrefix(model, ":"))
	}
	return "CPU"
}

// readDir returns no entries when the directory does not exist.
func readDir(path string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return entries, err
}

func readTrimmed(path string) string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// scanField returns the rest of the first line starting with prefix.
func scanField(path, prefix string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix))
		}
	}
	return ""
}
