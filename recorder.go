package transition

import (
	"log/slog"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
)

// Recorder records pipeline barriers into a command buffer.
// core1_0.CoreDeviceDriver implements it.
type Recorder interface {
	CmdPipelineBarrier(commandBuffer core1_0.CommandBuffer, srcStageMask, dstStageMask core1_0.PipelineStageFlags, dependencies core1_0.DependencyFlags, memoryBarriers []core1_0.MemoryBarrier, bufferMemoryBarriers []core1_0.BufferMemoryBarrier, imageMemoryBarriers []core1_0.ImageMemoryBarrier) error
}

// Flush builds t and, if it has anything to synchronize, records it into
// commandBuffer as one pipeline barrier and resets t. It reports whether a
// barrier was recorded. On error t is left built but not reset.
func Flush(rec Recorder, commandBuffer core1_0.CommandBuffer, t *Transition) (bool, error) {
	if !t.Build() {
		return false, nil
	}

	err := rec.CmdPipelineBarrier(commandBuffer, t.srcStageMask, t.dstStageMask, 0,
		t.memoryBarriers, t.bufferBarriers, t.imageBarriers)
	if err != nil {
		return false, errors.Wrap(err, "record pipeline barrier")
	}

	Logger().Debug("Transition::Flush",
		slog.Int("MemoryBarriers", len(t.memoryBarriers)),
		slog.Int("BufferBarriers", len(t.bufferBarriers)),
		slog.Int("ImageBarriers", len(t.imageBarriers)))

	t.Reset()
	return true, nil
}
