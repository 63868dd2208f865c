package op

import (
	"context"
	"fmt"

	"github.com/gogpu/stroketess"
	"github.com/gogpu/stroketess/internal/assert"
	"github.com/gogpu/stroketess/internal/parallel"
	"github.com/gogpu/stroketess/tessellate"
)

// OpsTask records the stroke ops of one render pass, merges compatible
// ops and drives them through the three phases in record order.
//
// Record, Flush and Abort run on the render thread. PrePrepare fans out
// to a worker pool and returns once every op is done.
type OpsTask struct {
	arena    *tessellate.Arena
	ops      []*StrokeOp
	pool     *parallel.Pool
	lookback int
}

type opsTaskOptions struct {
	workers  int
	lookback int
}

// OpsTaskOption configures NewOpsTask.
type OpsTaskOption func(*opsTaskOptions)

// WithWorkers sets the pre-preparation pool size. 0 means GOMAXPROCS.
func WithWorkers(n int) OpsTaskOption {
	return func(o *opsTaskOptions) { o.workers = n }
}

// WithMaxCombineLookback sets how many recorded ops a new op is offered
// to, newest first. 0 disables combining.
func WithMaxCombineLookback(n int) OpsTaskOption {
	return func(o *opsTaskOptions) { o.lookback = n }
}

// OpsTaskOptionsFromConfig translates cfg into task options.
func OpsTaskOptionsFromConfig(cfg stroketess.Config) []OpsTaskOption {
	return []OpsTaskOption{
		WithWorkers(cfg.Tessellation.Workers),
		WithMaxCombineLookback(cfg.Tessellation.MaxCombineLookback),
	}
}

// NewOpsTask returns an empty task. Close releases its workers.
func NewOpsTask(opts ...OpsTaskOption) *OpsTask {
	o := opsTaskOptions{lookback: stroketess.DefaultMaxCombineLookback}
	for _, opt := range opts {
		opt(&o)
	}
	return &OpsTask{
		arena:    tessellate.NewArena(),
		pool:     parallel.NewPool(o.workers),
		lookback: o.lookback,
	}
}

// Arena returns the arena backing the task's stroke lists.
func (t *OpsTask) Arena() *tessellate.Arena { return t.arena }

// NewStrokeOp creates and finalizes an op allocating from the task's
// arena. It is not recorded.
func (t *OpsTask) NewStrokeOp(aa stroketess.AAType, viewMatrix stroketess.Matrix,
	path *stroketess.Path, stroke stroketess.Stroke, color stroketess.PMColor, processors *ProcessorSet) *StrokeOp {
	op := NewStrokeOp(t.arena, aa, viewMatrix, path, stroke, color, processors)
	op.Finalize()
	return op
}

// Ops returns the recorded ops in order.
func (t *OpsTask) Ops() []*StrokeOp { return t.ops }

// Record adds a finalized op. The op is first offered to earlier ops,
// newest first; the scan stops at the first op whose bounds overlap,
// since merging past it would change draw order. It reports whether the
// op was merged away.
func (t *OpsTask) Record(op *StrokeOp) bool {
	assert.That(op.State() == StateCreated, "record op in state %v", op.State())
	assert.That(op.Finalized(), "record of an op that was not finalized")
	stop := max(len(t.ops)-t.lookback, 0)
	for i := len(t.ops) - 1; i >= stop; i-- {
		cand := t.ops[i]
		if cand.State() != StateCreated {
			break
		}
		if cand.CombineIfPossible(op) == CombineMerged {
			return true
		}
		if cand.Bounds().Intersects(op.Bounds()) {
			break
		}
	}
	t.ops = append(t.ops, op)
	return false
}

// PrePrepare pre-prepares every recorded op on the worker pool.
func (t *OpsTask) PrePrepare(ctx context.Context, c *Context) error {
	ops := t.ops
	return t.pool.Run(ctx, len(ops), func(i int) {
		if ops[i].State() == StateCreated {
			ops[i].PrePrepare(c)
		}
	})
}

// Flush prepares every op, uploads staged buffers when fs is an
// Uploader, then executes every op, all in record order. The task is
// empty afterwards. On error the remaining ops are discarded.
//
// Pipelines evicted from c's program cache during this frame are still
// bound in the open pass. The owner releases them with
// c.Programs().ReleaseRetired once the submitted work has completed.
func (t *OpsTask) Flush(ctx context.Context, c *Context, fs FlushState) error {
	defer t.reset()
	for _, op := range t.ops {
		if err := ctx.Err(); err != nil {
			t.discardAll()
			return err
		}
		op.Prepare(c, fs)
	}
	if u, ok := fs.(Uploader); ok {
		if err := u.Upload(); err != nil {
			t.discardAll()
			return fmt.Errorf("op: upload stroke buffers: %w", err)
		}
	}
	for _, op := range t.ops {
		op.Execute(fs)
	}
	stroketess.Logger().Debug("op: flushed stroke ops", "ops", len(t.ops))
	return nil
}

// Abort discards every recorded op without drawing.
func (t *OpsTask) Abort() {
	t.discardAll()
	clear(t.ops)
	t.ops = t.ops[:0]
	t.arena.Reset()
}

func (t *OpsTask) discardAll() {
	for _, op := range t.ops {
		if s := op.State(); s != StateExecuted && s != StateDiscarded {
			op.Discard()
		}
	}
}

func (t *OpsTask) reset() {
	clear(t.ops)
	t.ops = t.ops[:0]
	t.arena.Reset()
}

// Close stops the worker pool.
func (t *OpsTask) Close() { t.pool.Close() }
