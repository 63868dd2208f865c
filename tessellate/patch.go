package tessellate

import (
	"encoding/binary"
	"math"
	"math/bits"

	"github.com/gogpu/stroketess"
)

// Patch layout, in bytes. A patch is the join control point followed by
// four cubic control points, then the optional dynamic attributes in
// flag order.
const (
	patchPointsSize   = 10 * 4 // prev + p0..p3
	dynamicStrokeSize = 2 * 4  // radius, join type
	packedColorSize   = 4
	wideColorSize     = 4 * 4
	segmentCountSize  = 4 // indirect instances only
)

// PatchStride returns the byte size of one hardware patch for flags.
func PatchStride(flags ShaderFlags) int {
	n := patchPointsSize
	if flags.Has(ShaderFlagDynamicStroke) {
		n += dynamicStrokeSize
	}
	if flags.Has(ShaderFlagDynamicColor) {
		if flags.Has(ShaderFlagWideColor) {
			n += wideColorSize
		} else {
			n += packedColorSize
		}
	}
	return n
}

// InstanceStride returns the byte size of one indirect instance for
// flags: a patch plus its segment count.
func InstanceStride(flags ShaderFlags) int {
	return PatchStride(flags) + segmentCountSize
}

// cubic is one stroke segment, lines and quadratics degree-elevated.
type cubic [4]stroketess.Point

// joinControl returns the last control point distinct from the end
// point, which sets the outgoing tangent.
func (c cubic) joinControl() stroketess.Point {
	switch {
	case c[2] != c[3]:
		return c[2]
	case c[1] != c[3]:
		return c[1]
	default:
		return c[0]
	}
}

func lineCubic(p0, p1 stroketess.Point) cubic {
	return cubic{p0, p0.Lerp(p1, 1.0/3), p0.Lerp(p1, 2.0/3), p1}
}

func quadCubic(p0, c, p1 stroketess.Point) cubic {
	return cubic{p0, p0.Lerp(c, 2.0/3), p1.Lerp(c, 2.0/3), p1}
}

// forEachPatch calls fn for every stroke segment of path with the point
// that defines the incoming join. Open contours start without a join
// (prev == p0); the first segment of a closed contour joins with its
// last segment. contour is reused scratch space and returned for reuse.
func forEachPatch(path *stroketess.Path, contour []cubic, fn func(prev stroketess.Point, c cubic)) []cubic {
	var start, cur stroketess.Point
	contour = contour[:0]

	flush := func(closed bool) {
		if len(contour) == 0 {
			return
		}
		prev := contour[0][0]
		if closed {
			prev = contour[len(contour)-1].joinControl()
		}
		for _, c := range contour {
			fn(prev, c)
			prev = c.joinControl()
		}
		contour = contour[:0]
	}

	for _, e := range path.Elements() {
		switch e := e.(type) {
		case stroketess.MoveTo:
			flush(false)
			start, cur = e.Point, e.Point
		case stroketess.LineTo:
			contour = append(contour, lineCubic(cur, e.Point))
			cur = e.Point
		case stroketess.QuadTo:
			contour = append(contour, quadCubic(cur, e.Control, e.Point))
			cur = e.Point
		case stroketess.CubicTo:
			contour = append(contour, cubic{cur, e.Control1, e.Control2, e.Point})
			cur = e.Point
		case stroketess.Close:
			if cur != start {
				contour = append(contour, lineCubic(cur, start))
			}
			flush(true)
			cur = start
		}
	}
	flush(false)
	return contour
}

// patchWriter appends patches to a mapped vertex region.
type patchWriter struct {
	data   []byte
	stride int
	flags  ShaderFlags
	count  int
}

func newPatchWriter(data []byte, stride int, flags ShaderFlags) patchWriter {
	return patchWriter{data: data, stride: stride, flags: flags}
}

// write encodes one patch and returns the remaining bytes of its slot
// for callers that append extra fields.
func (w *patchWriter) write(prev stroketess.Point, c cubic, s *PathStroke) []byte {
	le := binary.LittleEndian
	b := w.data[w.count*w.stride:][:w.stride]
	w.count++

	off := 0
	put := func(v float32) {
		le.PutUint32(b[off:], math.Float32bits(v))
		off += 4
	}
	put(float32(prev.X))
	put(float32(prev.Y))
	for _, p := range c {
		put(float32(p.X))
		put(float32(p.Y))
	}
	if w.flags.Has(ShaderFlagDynamicStroke) {
		put(float32(s.Stroke.Width / 2))
		put(s.Stroke.JoinType())
	}
	if w.flags.Has(ShaderFlagDynamicColor) {
		if w.flags.Has(ShaderFlagWideColor) {
			for _, v := range s.Color.Array() {
				put(v)
			}
		} else {
			le.PutUint32(b[off:], s.Color.PackRGBA8())
			off += 4
		}
	}
	return b[off:]
}

// Wang's formula parameters for the indirect strategy.
const (
	// MaxResolveLevel caps an instance at 2^MaxResolveLevel segments.
	MaxResolveLevel = 8
	// tolerance is the maximum device-space distance, in pixels, between
	// the curve and its polyline.
	tolerance = 0.25
)

// wangSegments returns the number of line segments that keep c within
// tolerance of its polyline, clamped to [1, 2^MaxResolveLevel].
func wangSegments(c cubic) int {
	d1x := c[0].X - 2*c[1].X + c[2].X
	d1y := c[0].Y - 2*c[1].Y + c[2].Y
	d2x := c[1].X - 2*c[2].X + c[3].X
	d2y := c[1].Y - 2*c[2].Y + c[3].Y
	maxD := math.Sqrt(math.Max(d1x*d1x+d1y*d1y, d2x*d2x+d2y*d2y))

	// n = sqrt(d(d-1)/8 * maxD / tolerance) with degree d = 3
	n := math.Ceil(math.Sqrt(0.75 * maxD / tolerance))
	switch {
	case !(n >= 1): // also NaN
		return 1
	case n > 1<<MaxResolveLevel:
		return 1 << MaxResolveLevel
	}
	return int(n)
}

// resolveLevel returns ceil(log2(segments)).
func resolveLevel(segments int) int {
	return bits.Len(uint(segments - 1))
}

// levelVertexCount is the triangle-strip vertex count of an instance
// at level: two vertices per polyline point.
func levelVertexCount(level int) uint32 {
	return (1<<level + 1) * 2
}

func (c cubic) transform(m stroketess.Matrix) cubic {
	for i := range c {
		c[i] = m.TransformPoint(c[i])
	}
	return c
}
