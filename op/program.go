package op

import (
	"fmt"
	"sync"

	"github.com/gogpu/stroketess"
	"github.com/gogpu/stroketess/internal/cache"
	"github.com/gogpu/stroketess/tessellate"
)

// StencilSettings selects the fixed-function stencil state of a
// program.
type StencilSettings uint8

const (
	// StencilUnused disables the stencil test.
	StencilUnused StencilSettings = iota
	// StencilMark writes non-zero stencil under the stroke and no color.
	StencilMark
	// StencilTestAndReset draws color where stencil is non-zero and
	// resets it to zero, so every pixel is blended exactly once.
	StencilTestAndReset
)

var stencilNames = [...]string{
	StencilUnused:       "Unused",
	StencilMark:         "Mark",
	StencilTestAndReset: "TestAndReset",
}

// String returns the stencil settings name.
func (s StencilSettings) String() string {
	if int(s) < len(stencilNames) {
		return stencilNames[s]
	}
	return "Unknown"
}

// ProgramKey identifies a compiled stroke program.
type ProgramKey struct {
	Mode       tessellate.Mode
	Flags      tessellate.ShaderFlags
	AA         stroketess.AAType
	Stencil    StencilSettings
	Blend      BlendMode
	Processors string
}

// String formats the key for logs.
func (k ProgramKey) String() string {
	return fmt.Sprintf("%v/%v/%v/%v/%s", k.Mode, k.Flags, k.AA, k.Stencil, k.Processors)
}

// PipelineInfo is the state shared by an op's fill and stencil
// programs. It owns the processor set moved out of the op.
type PipelineInfo struct {
	Processors *ProcessorSet
	AA         stroketess.AAType
}

// Pipeline is a backend pipeline object.
type Pipeline interface {
	Release()
}

// ProgramBuilder compiles pipelines for a backend. BuildPipeline may be
// called from several goroutines at once.
type ProgramBuilder interface {
	BuildPipeline(key ProgramKey, info *PipelineInfo) (Pipeline, error)
}

// Program is a pipeline bound during execution.
type Program struct {
	Key      ProgramKey
	Pipeline Pipeline
	Info     *PipelineInfo
}

// ProgramCache memoizes pipelines by key. Failed builds are not cached.
// Pipelines evicted by the size limit may still be referenced by ops in
// flight, so they are retired and released by ReleaseRetired once the
// GPU work that used them has completed.
//
// ProgramCache is safe for concurrent use.
type ProgramCache struct {
	builder   ProgramBuilder
	pipelines *cache.Cache[ProgramKey, Pipeline]

	mu      sync.Mutex
	retired []Pipeline
}

// NewProgramCache returns a cache holding at most size pipelines. A size
// of 0 means unlimited.
func NewProgramCache(builder ProgramBuilder, size int) *ProgramCache {
	pc := &ProgramCache{
		builder:   builder,
		pipelines: cache.New[ProgramKey, Pipeline](size),
	}
	pc.pipelines.OnEvict(func(_ ProgramKey, p Pipeline) {
		pc.mu.Lock()
		pc.retired = append(pc.retired, p)
		pc.mu.Unlock()
	})
	return pc
}

// Get returns the program for key, building its pipeline on first use.
func (pc *ProgramCache) Get(key ProgramKey, info *PipelineInfo) (*Program, error) {
	p, err := pc.pipelines.GetOrTryCreate(key, func() (Pipeline, error) {
		stroketess.Logger().Debug("op: building stroke program", "key", key)
		return pc.builder.BuildPipeline(key, info)
	})
	if err != nil {
		return nil, fmt.Errorf("op: build program %v: %w", key, err)
	}
	return &Program{Key: key, Pipeline: p, Info: info}, nil
}

// ReleaseRetired releases pipelines evicted since the last call. It must
// not run while a pass that may reference them is still being encoded or
// executed.
func (pc *ProgramCache) ReleaseRetired() {
	pc.mu.Lock()
	retired := pc.retired
	pc.retired = nil
	pc.mu.Unlock()
	for _, p := range retired {
		p.Release()
	}
}

// Release drops and releases every pipeline.
func (pc *ProgramCache) Release() {
	pc.pipelines.Clear()
	pc.ReleaseRetired()
}

// CacheStats reports program cache effectiveness.
type CacheStats struct {
	Programs  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// Stats returns a snapshot of the cache counters.
func (pc *ProgramCache) Stats() CacheStats {
	s := pc.pipelines.Stats()
	return CacheStats{Programs: s.Len, Hits: s.Hits, Misses: s.Misses, Evictions: s.Evictions}
}
