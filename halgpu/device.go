package halgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/stroketess"
	"github.com/gogpu/stroketess/op"
)

// ErrNoHALDevice is returned when a device provider does not expose a
// HAL device and queue.
var ErrNoHALDevice = errors.New("halgpu: provider has no HAL device")

// ShaderCompiler turns WGSL into SPIR-V words.
type ShaderCompiler func(wgsl string) ([]uint32, error)

// Device wraps a HAL device and queue for stroke rendering.
type Device struct {
	device  hal.Device
	queue   hal.Queue
	format  gputypes.TextureFormat
	samples uint32
	compile ShaderCompiler
}

var (
	_ op.Caps           = (*Device)(nil)
	_ op.ProgramBuilder = (*Device)(nil)
)

// Option configures a Device.
type Option func(*Device)

// WithColorFormat sets the render target format. Default:
// TextureFormatBGRA8Unorm.
func WithColorFormat(f gputypes.TextureFormat) Option {
	return func(d *Device) { d.format = f }
}

// WithMSAASamples sets the sample count used by AAMSAA programs.
// Default: 4.
func WithMSAASamples(n uint32) Option {
	return func(d *Device) { d.samples = n }
}

// WithShaderCompiler replaces the naga WGSL compiler.
func WithShaderCompiler(c ShaderCompiler) Option {
	return func(d *Device) { d.compile = c }
}

// New wraps device and queue.
func New(device hal.Device, queue hal.Queue, opts ...Option) *Device {
	d := &Device{
		device:  device,
		queue:   queue,
		format:  gputypes.TextureFormatBGRA8Unorm,
		samples: 4,
		compile: CompileWGSL,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewFromProvider shares the device of an application provider. The
// provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue. The color format defaults to the provider's
// surface format.
func NewFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALDevice
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok {
		return nil, fmt.Errorf("%w: HalDevice is %T", ErrNoHALDevice, hp.HalDevice())
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok {
		return nil, fmt.Errorf("%w: HalQueue is %T", ErrNoHALDevice, hp.HalQueue())
	}
	d := New(device, queue, append([]Option{WithColorFormat(provider.SurfaceFormat())}, opts...)...)
	stroketess.Logger().Info("halgpu: using provider device", "format", d.format)
	return d, nil
}

// TessellationSupport reports false: WebGPU exposes no tessellation
// stage.
func (d *Device) TessellationSupport() bool { return false }

// ColorFormat returns the render target format.
func (d *Device) ColorFormat() gputypes.TextureFormat { return d.format }

// CompileWGSL compiles WGSL to SPIR-V with naga.
func CompileWGSL(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("halgpu: compile shader: %w", err)
	}
	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// createAndUploadBuffer creates a GPU buffer and queues a write of data.
func (d *Device) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	d.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}
