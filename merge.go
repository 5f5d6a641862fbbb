package transition

import (
	"log/slog"

	"github.com/vkngwrapper/core/v3/core1_0"
)

// Barriers is the content of a Transition handed over by Drain.
type Barriers struct {
	SrcStageMask core1_0.PipelineStageFlags
	DstStageMask core1_0.PipelineStageFlags

	MemorySrcAccess core1_0.AccessFlags
	MemoryDstAccess core1_0.AccessFlags

	BufferBarriers []core1_0.BufferMemoryBarrier
	ImageBarriers  []core1_0.ImageMemoryBarrier
}

// Drain transfers the accumulated masks and barrier lists out of t and
// leaves t empty. The returned lists are no longer referenced by t.
func (t *Transition) Drain() Barriers {
	b := Barriers{
		SrcStageMask:    t.srcStageMask,
		DstStageMask:    t.dstStageMask,
		MemorySrcAccess: t.memorySrcAccess,
		MemoryDstAccess: t.memoryDstAccess,
		BufferBarriers:  t.bufferBarriers,
		ImageBarriers:   t.imageBarriers,
	}

	t.bufferBarriers = nil
	t.imageBarriers = nil
	t.Reset()
	return b
}

// Absorb folds b into t. Stage and access masks are OR'ed together and the
// barrier lists of b are copied after those of t, so b stays independent of t
// and may be absorbed again.
func (t *Transition) Absorb(b Barriers) {
	t.absorb(b, false)
}

// absorb is Absorb that takes over the barrier lists of b when t has none of
// its own and owned is set. Only lists nothing else references may be owned.
func (t *Transition) absorb(b Barriers, owned bool) {
	t.srcStageMask |= b.SrcStageMask
	t.dstStageMask |= b.DstStageMask
	t.memorySrcAccess |= b.MemorySrcAccess
	t.memoryDstAccess |= b.MemoryDstAccess

	if owned && len(t.bufferBarriers) == 0 {
		t.bufferBarriers = b.BufferBarriers
	} else {
		t.bufferBarriers = append(t.bufferBarriers, b.BufferBarriers...)
	}

	if owned && len(t.imageBarriers) == 0 {
		t.imageBarriers = b.ImageBarriers
	} else {
		t.imageBarriers = append(t.imageBarriers, b.ImageBarriers...)
	}
}

// Merge moves everything accumulated in other into t, so that both are
// satisfied by a single barrier. other is drained: it is empty afterwards and
// must be rebuilt before it is used again.
//
// The merged barrier is at least as strict as each of its inputs.
func (t *Transition) Merge(other *Transition) {
	if other == nil || other == t {
		return
	}
	t.absorb(other.Drain(), true)

	Logger().Debug("Transition::Merge",
		slog.Int("BufferBarriers", len(t.bufferBarriers)),
		slog.Int("ImageBarriers", len(t.imageBarriers)))
}

// MergeAll merges every Transition in ts, in order, into a new Transition and
// returns it. All of ts are drained. nil entries are skipped.
func MergeAll(ts ...*Transition) *Transition {
	merged := New()
	for _, t := range ts {
		merged.Merge(t)
	}
	return merged
}
