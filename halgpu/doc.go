// Package halgpu runs stroke ops on a wgpu HAL device.
//
// Device is both the op.Caps and the op.ProgramBuilder of a device:
//
//	dev, err := halgpu.NewFromProvider(provider)
//	ctx := op.NewContext(dev, dev, op.ContextOptionsFromConfig(cfg)...)
//
// FlushState stages vertex and indirect data on the CPU while ops
// prepare, uploads it with queue writes, and encodes draws into a render
// pass. WebGPU has neither a tessellation stage nor multi-draw indirect,
// so Caps reports no tessellation support and indirect batches are
// replayed as direct draws from the staged arguments.
package halgpu
