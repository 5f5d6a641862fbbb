package transition

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/transition/layout"
)

type barrierCall struct {
	srcStageMask, dstStageMask core1_0.PipelineStageFlags
	dependencies               core1_0.DependencyFlags
	memory                     []core1_0.MemoryBarrier
	buffers                    []core1_0.BufferMemoryBarrier
	images                     []core1_0.ImageMemoryBarrier
}

type fakeRecorder struct {
	calls []barrierCall
	err   error
}

func (r *fakeRecorder) CmdPipelineBarrier(commandBuffer core1_0.CommandBuffer, srcStageMask, dstStageMask core1_0.PipelineStageFlags, dependencies core1_0.DependencyFlags, memoryBarriers []core1_0.MemoryBarrier, bufferMemoryBarriers []core1_0.BufferMemoryBarrier, imageMemoryBarriers []core1_0.ImageMemoryBarrier) error {
	if r.err != nil {
		return r.err
	}
	// Copy, the transition reuses its lists after a reset.
	r.calls = append(r.calls, barrierCall{
		srcStageMask: srcStageMask,
		dstStageMask: dstStageMask,
		dependencies: dependencies,
		memory:       append([]core1_0.MemoryBarrier(nil), memoryBarriers...),
		buffers:      append([]core1_0.BufferMemoryBarrier(nil), bufferMemoryBarriers...),
		images:       append([]core1_0.ImageMemoryBarrier(nil), imageMemoryBarriers...),
	})
	return nil
}

func TestFlushEmpty(t *testing.T) {
	rec := &fakeRecorder{}
	recorded, err := Flush(rec, core1_0.CommandBuffer{}, New())
	if err != nil || recorded {
		t.Errorf("Flush(empty):\nhave (%t, %v)\nwant (false, nil)", recorded, err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("Flush(empty) calls:\nhave %d\nwant 0", len(rec.calls))
	}
}

func TestFlush(t *testing.T) {
	tr := MustImage(layout.Undefined, layout.TransferDst, core1_0.Image{}, colorRange)
	tr.Merge(MustImage(layout.ComputeShaderWrite, layout.ComputeShaderWrite, core1_0.Image{}, colorRange))
	src, dst := tr.SrcStageMask(), tr.DstStageMask()

	rec := &fakeRecorder{}
	recorded, err := Flush(rec, core1_0.CommandBuffer{}, tr)
	if err != nil || !recorded {
		t.Fatalf("Flush:\nhave (%t, %v)\nwant (true, nil)", recorded, err)
	}
	if len(rec.calls) != 1 {
		t.Fatalf("Flush calls:\nhave %d\nwant 1", len(rec.calls))
	}

	c := rec.calls[0]
	if c.srcStageMask != src || c.dstStageMask != dst {
		t.Errorf("stages:\nhave (%d, %d)\nwant (%d, %d)", c.srcStageMask, c.dstStageMask, src, dst)
	}
	if c.dependencies != 0 {
		t.Errorf("dependencies:\nhave %d\nwant 0", c.dependencies)
	}
	if len(c.memory) != 1 || len(c.buffers) != 0 || len(c.images) != 1 {
		t.Fatalf("barriers:\nhave %d memory, %d buffer, %d image\nwant 1, 0, 1", len(c.memory), len(c.buffers), len(c.images))
	}
	compute := layout.Lookup(layout.ComputeShaderWrite)
	if c.memory[0].SrcAccessMask != compute.SrcAccessMask || c.memory[0].DstAccessMask != compute.DstAccessMask {
		t.Errorf("memory barrier:\nhave (%d, %d)\nwant (%d, %d)",
			c.memory[0].SrcAccessMask, c.memory[0].DstAccessMask, compute.SrcAccessMask, compute.DstAccessMask)
	}
	if c.images[0].NewLayout != core1_0.ImageLayoutTransferDstOptimal {
		t.Errorf("image barrier NewLayout:\nhave %s\nwant %s", c.images[0].NewLayout, core1_0.ImageLayoutTransferDstOptimal)
	}

	checkEmpty(t, tr)

	recorded, err = Flush(rec, core1_0.CommandBuffer{}, tr)
	if err != nil || recorded || len(rec.calls) != 1 {
		t.Errorf("second Flush:\nhave (%t, %v) with %d calls\nwant (false, nil) with 1 call", recorded, err, len(rec.calls))
	}
}

func TestFlushError(t *testing.T) {
	cause := errors.New("device lost")
	rec := &fakeRecorder{err: cause}

	tr := NewBuffer(core1_0.Buffer{}, core1_0.PipelineStageTransfer, core1_0.PipelineStageVertexInput,
		core1_0.AccessTransferWrite, core1_0.AccessVertexAttributeRead)
	recorded, err := Flush(rec, core1_0.CommandBuffer{}, tr)
	if recorded {
		t.Error("Flush: have true on error")
	}
	if !errors.Is(err, cause) {
		t.Errorf("Flush error:\nhave %v\nwant %v", err, cause)
	}
	if tr.IsEmpty() || len(tr.BufferBarriers()) != 1 {
		t.Error("Flush: transition reset after a failed record")
	}

	rec.err = nil
	if recorded, err = Flush(rec, core1_0.CommandBuffer{}, tr); err != nil || !recorded {
		t.Errorf("retried Flush:\nhave (%t, %v)\nwant (true, nil)", recorded, err)
	}
}
