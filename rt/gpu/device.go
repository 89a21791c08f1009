package gpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// NewHeadlessDevice requests a device without a surface. The returned func
// releases the device, adapter and instance.
func NewHeadlessDevice() (*wgpu.Device, func(), error) {
	instance := wgpu.CreateInstance(nil)
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		instance.Release()
		return nil, nil, fmt.Errorf("requesting adapter: %w", err)
	}
	device, err := adapter.RequestDevice(nil)
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, nil, fmt.Errorf("requesting device: %w", err)
	}
	release := func() {
		device.Release()
		adapter.Release()
		instance.Release()
	}
	return device, release, nil
}
