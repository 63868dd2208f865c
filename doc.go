// Package stroketess batches stroked vector paths into GPU draw calls.
//
// # Overview
//
// A stroke draw request becomes an op.StrokeOp that owns a list of
// (path, stroke, color) entries sharing one view matrix and
// antialiasing mode. Compatible ops are merged so many strokes render
// with a single draw. Each op then moves through three phases:
//
//   - pre-preparation picks a tessellation strategy (hardware
//     tessellation stage or indirect instanced expansion), decides which
//     per-instance dynamic attributes to enable and builds the programs;
//   - preparation fills the vertex and indirect-argument buffers;
//   - execution binds the programs and issues the draws, with a
//     stencil pass first when blending reads the destination.
//
// # Packages
//
// This package holds the value types shared by every stage: [Point],
// [Rect], [Matrix], [Path], [Stroke], [PMColor] and [AAType], plus the
// logger and YAML configuration.
//
//   - tessellate: the stroke list, patch encoding and the two
//     Tessellator strategies
//   - op: StrokeOp, programs, capability queries and the OpsTask driver
//   - recording: a CPU flush state that records every command
//   - halgpu: the backend for github.com/gogpu/wgpu/hal devices
//
// # Logging
//
// stroketess is silent by default. Call [SetLogger] with any
// *slog.Logger, or build one from configuration with [NewLogger].
package stroketess
