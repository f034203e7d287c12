package device

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"pictoria-renderer/internal/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	devices map[Backend][]Device
	errs    map[Backend]error
	probed  []Backend
}

func (f *fakeProber) Probe(b Backend) ([]Device, error) {
	f.probed = append(f.probed, b)
	if err := f.errs[b]; err != nil {
		return nil, err
	}
	return f.devices[b], nil
}

func init() {
	log.SetSink(io.Discard)
}

var hostCPU = Device{Name: "host", Kind: CPUDevice}

func TestSelectFirstBackendWithGPU(t *testing.T) {
	p := &fakeProber{
		devices: map[Backend][]Device{
			CUDA:   {hostCPU},
			HIP:    {{Name: "gfx1030", Kind: GPUDevice}, hostCPU},
			OneAPI: {{Name: "arc", Kind: GPUDevice}},
		},
		errs: map[Backend]error{OptiX: errors.New("driver too old")},
	}

	cfg := Select(p, DefaultPreference)

	assert.Equal(t, HIP, cfg.Backend)
	assert.True(t, cfg.UsesGPU())
	// ONEAPI is never probed once HIP wins.
	assert.Equal(t, []Backend{CUDA, OptiX, HIP}, p.probed)

	// Every device of the backend is enabled, CPU included.
	require.Len(t, cfg.Devices, 2)
	for _, d := range cfg.Devices {
		assert.True(t, d.Enabled, d.Name)
	}
}

func TestSelectFallsBackToCPU(t *testing.T) {
	p := &fakeProber{
		devices: map[Backend][]Device{CUDA: {hostCPU}, HIP: {hostCPU}},
		errs:    map[Backend]error{OneAPI: errors.New("boom")},
	}

	cfg := Select(p, DefaultPreference)

	assert.Equal(t, CPU, cfg.Backend)
	assert.False(t, cfg.UsesGPU())
	assert.Empty(t, cfg.Devices)
	assert.Equal(t, DefaultPreference, p.probed)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestSysfsProber(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "proc", "cpuinfo"), "processor\t: 0\nmodel name\t: Test CPU 3000\n")

	// AMD: node 0 is the CPU, node 1 a GPU
	nodes := filepath.Join(root, "sys", "class", "kfd", "kfd", "topology", "nodes")
	writeFile(t, filepath.Join(nodes, "0", "gpu_id"), "0\n")
	writeFile(t, filepath.Join(nodes, "1", "gpu_id"), "4242\n")
	writeFile(t, filepath.Join(nodes, "1", "name"), "gfx1100\n")

	// Intel: card0 is Intel, card1 is another vendor, connectors are ignored
	drm := filepath.Join(root, "sys", "class", "drm")
	writeFile(t, filepath.Join(drm, "card0", "device", "vendor"), "0x8086\n")
	writeFile(t, filepath.Join(drm, "card1", "device", "vendor"), "0x1002\n")
	writeFile(t, filepath.Join(drm, "card0-DP-1", "device", "vendor"), "0x8086\n")

	p := SysfsProber{Root: root}

	devices, err := p.Probe(CUDA)
	require.NoError(t, err)
	assert.Equal(t, []Device{{Name: "Test CPU 3000", Kind: CPUDevice}}, devices)

	devices, err = p.Probe(HIP)
	require.NoError(t, err)
	assert.Equal(t, []Device{{Name: "gfx1100", Kind: GPUDevice}, {Name: "Test CPU 3000", Kind: CPUDevice}}, devices)

	devices, err = p.Probe(OneAPI)
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, "Intel GPU card0", devices[0].Name)

	_, err = p.Probe(Backend("METAL"))
	assert.Error(t, err)

	// Preference order: CUDA has nothing, so HIP wins.
	assert.Equal(t, HIP, Select(p, DefaultPreference).Backend)
}

func TestSysfsProberNvidia(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "proc", "driver", "nvidia", "gpus", "0000:01:00.0", "information"),
		"Model: \t\t NVIDIA GeForce RTX 4090\nIRQ:   \t\t 140\n")

	devices, err := SysfsProber{Root: root}.Probe(OptiX)
	require.NoError(t, err)
	require.Len(t, devices, 2)
	assert.Equal(t, Device{Name: "NVIDIA GeForce RTX 4090", Kind: GPUDevice}, devices[0])
	assert.Equal(t, "CPU", devices[1].Name)
}
