// Package transition computes the pipeline barriers needed to move images and
// buffers between usage states on the GPU timeline.
//
// A Transition accumulates the stage masks and barrier descriptors of one or
// more hazards. Independent Transitions headed for the same pipeline point can
// be merged so that a single vkCmdPipelineBarrier is recorded for all of them:
//
//	toRead, err := transition.NewImage(layout.ColorAttachment, layout.FragmentShaderReadOnly, image, colorRange)
//	if err != nil {
//		return err
//	}
//	vertices := transition.NewBuffer(buffer,
//		core1_0.PipelineStageTransfer, core1_0.PipelineStageVertexInput,
//		core1_0.AccessTransferWrite, core1_0.AccessVertexAttributeRead)
//	toRead.Merge(vertices)
//	_, err = transition.Flush(deviceDriver, commandBuffer, toRead)
//
// A Transition is not safe for concurrent use. Build one per goroutine and
// merge them afterwards.
package transition

import (
	"log/slog"

	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/transition/layout"
)

// WholeSize selects the remainder of a buffer, the wrapper converts it to
// VK_WHOLE_SIZE.
const WholeSize = -1

// QueueFamilyIgnored leaves queue family ownership unchanged.
const QueueFamilyIgnored = -1

// Transition is an in-progress synchronization request.
// The zero value is an empty Transition ready for use.
type Transition struct {
	srcStageMask core1_0.PipelineStageFlags
	dstStageMask core1_0.PipelineStageFlags

	memorySrcAccess core1_0.AccessFlags
	memoryDstAccess core1_0.AccessFlags

	memoryBarriers []core1_0.MemoryBarrier
	bufferBarriers []core1_0.BufferMemoryBarrier
	imageBarriers  []core1_0.ImageMemoryBarrier
}

// New returns an empty Transition.
func New() *Transition {
	return &Transition{}
}

// NewImage returns the Transition needed before image, currently used in
// oldLayout, can be used in newLayout.
//
// When both layouts are the same no layout change happens and only a global
// memory barrier is accumulated. That is only meaningful for layouts that
// write to the image, whether their kind is Write or ReadWrite (an attachment
// that shaders also read): read after read is not a hazard, so asking for it
// is reported as ErrInvalidTransition.
//
// subresourceRange is recorded as given, it is never split.
func NewImage(oldLayout, newLayout layout.ImageLayout, image core1_0.Image, subresourceRange core1_0.ImageSubresourceRange) (*Transition, error) {
	if !oldLayout.Valid() || !newLayout.Valid() {
		return nil, invalidTransitionf("transition between invalid image layouts %s -> %s", oldLayout, newLayout)
	}

	t := New()
	if oldLayout == newLayout {
		entry := layout.Lookup(oldLayout)
		if !entry.Kind.Writes() {
			return nil, invalidTransitionf("same-layout transition of %s layout %s is a read after read and needs no barrier", entry.Kind, oldLayout)
		}

		t.AddMemoryBarrier(entry.SrcStageMask, entry.DstStageMask, entry.SrcAccessMask, entry.DstAccessMask)
		Logger().Debug("Transition::NewImage", slog.String("Layout", oldLayout.String()), slog.Bool("MemoryOnly", true))
		return t, nil
	}

	from := layout.Lookup(oldLayout)
	to := layout.Lookup(newLayout)
	t.addImageBarrier(from.SrcStageMask, to.DstStageMask, core1_0.ImageMemoryBarrier{
		SrcAccessMask:       from.SrcAccessMask,
		DstAccessMask:       to.DstAccessMask,
		OldLayout:           from.Layout,
		NewLayout:           to.Layout,
		SrcQueueFamilyIndex: QueueFamilyIgnored,
		DstQueueFamilyIndex: QueueFamilyIgnored,
		Image:               image,
		SubresourceRange:    subresourceRange,
	})

	Logger().Debug("Transition::NewImage", slog.String("OldLayout", oldLayout.String()), slog.String("NewLayout", newLayout.String()))
	return t, nil
}

// MustImage is like NewImage but panics if the request is invalid.
func MustImage(oldLayout, newLayout layout.ImageLayout, image core1_0.Image, subresourceRange core1_0.ImageSubresourceRange) *Transition {
	t, err := NewImage(oldLayout, newLayout, image, subresourceRange)
	if err != nil {
		panic(err)
	}
	return t
}

// NewBuffer returns the Transition covering the whole of buffer between the
// given source and destination scopes. Buffers have no layout, so the stage
// and access masks are taken as given.
func NewBuffer(buffer core1_0.Buffer, srcStageMask, dstStageMask core1_0.PipelineStageFlags, srcAccess, dstAccess core1_0.AccessFlags) *Transition {
	t := New()
	t.addBufferBarrier(srcStageMask, dstStageMask, core1_0.BufferMemoryBarrier{
		SrcAccessMask:       srcAccess,
		DstAccessMask:       dstAccess,
		SrcQueueFamilyIndex: QueueFamilyIgnored,
		DstQueueFamilyIndex: QueueFamilyIgnored,
		Buffer:              buffer,
		Offset:              0,
		Size:                WholeSize,
	})

	Logger().Debug("Transition::NewBuffer", slog.Int("SrcStageMask", int(srcStageMask)), slog.Int("DstStageMask", int(dstStageMask)))
	return t
}

// NewBufferRange is like NewBuffer but only covers size bytes of buffer
// starting at offset. size may be WholeSize.
func NewBufferRange(buffer core1_0.Buffer, offset, size int, srcStageMask, dstStageMask core1_0.PipelineStageFlags, srcAccess, dstAccess core1_0.AccessFlags) (*Transition, error) {
	if offset < 0 {
		return nil, malformedBarrierf("buffer barrier offset %d is negative", offset)
	}
	if size <= 0 && size != WholeSize {
		return nil, malformedBarrierf("buffer barrier size %d is neither positive nor WholeSize", size)
	}

	t := New()
	t.addBufferBarrier(srcStageMask, dstStageMask, core1_0.BufferMemoryBarrier{
		SrcAccessMask:       srcAccess,
		DstAccessMask:       dstAccess,
		SrcQueueFamilyIndex: QueueFamilyIgnored,
		DstQueueFamilyIndex: QueueFamilyIgnored,
		Buffer:              buffer,
		Offset:              offset,
		Size:                size,
	})
	return t, nil
}

// AddMemoryBarrier folds a global memory dependency into t.
func (t *Transition) AddMemoryBarrier(srcStageMask, dstStageMask core1_0.PipelineStageFlags, srcAccess, dstAccess core1_0.AccessFlags) {
	t.srcStageMask |= srcStageMask
	t.dstStageMask |= dstStageMask
	t.memorySrcAccess |= srcAccess
	t.memoryDstAccess |= dstAccess
}

// AddImageBarrier appends barrier to t and folds in its stage masks.
// Barriers carrying a Next chain are rejected with ErrMalformedBarrier.
func (t *Transition) AddImageBarrier(srcStageMask, dstStageMask core1_0.PipelineStageFlags, barrier core1_0.ImageMemoryBarrier) error {
	if barrier.Next != nil {
		return malformedBarrierf("image barrier %s -> %s carries extension structures", barrier.OldLayout, barrier.NewLayout)
	}
	t.addImageBarrier(srcStageMask, dstStageMask, barrier)
	return nil
}

// AddBufferBarrier appends barrier to t and folds in its stage masks.
// Barriers carrying a Next chain are rejected with ErrMalformedBarrier.
func (t *Transition) AddBufferBarrier(srcStageMask, dstStageMask core1_0.PipelineStageFlags, barrier core1_0.BufferMemoryBarrier) error {
	if barrier.Next != nil {
		return malformedBarrierf("buffer barrier at offset %d carries extension structures", barrier.Offset)
	}
	t.addBufferBarrier(srcStageMask, dstStageMask, barrier)
	return nil
}

func (t *Transition) addImageBarrier(srcStageMask, dstStageMask core1_0.PipelineStageFlags, barrier core1_0.ImageMemoryBarrier) {
	t.srcStageMask |= srcStageMask
	t.dstStageMask |= dstStageMask
	t.imageBarriers = append(t.imageBarriers, barrier)
}

func (t *Transition) addBufferBarrier(srcStageMask, dstStageMask core1_0.PipelineStageFlags, barrier core1_0.BufferMemoryBarrier) {
	t.srcStageMask |= srcStageMask
	t.dstStageMask |= dstStageMask
	t.bufferBarriers = append(t.bufferBarriers, barrier)
}

// IsEmpty reports whether t has nothing to synchronize: no buffer barriers,
// no image barriers and no destination memory access.
func (t *Transition) IsEmpty() bool {
	return len(t.bufferBarriers) == 0 && len(t.imageBarriers) == 0 && t.memoryDstAccess == 0
}

// Build prepares t for recording and reports whether there is anything to
// record. An empty Transition is left untouched and Build returns false.
//
// The global memory barrier is only materialized when destination memory
// access has been accumulated, and there is never more than one of them no
// matter how many times Build is called.
func (t *Transition) Build() bool {
	if t.IsEmpty() {
		return false
	}

	if t.memoryDstAccess != 0 {
		t.memoryBarriers = append(t.memoryBarriers[:0], core1_0.MemoryBarrier{
			SrcAccessMask: t.memorySrcAccess,
			DstAccessMask: t.memoryDstAccess,
		})
	}
	return true
}

// Reset returns t to the empty state, keeping the capacity of its lists.
// It must be called, or t discarded, once the barriers have been recorded.
func (t *Transition) Reset() {
	t.srcStageMask = 0
	t.dstStageMask = 0
	t.memorySrcAccess = 0
	t.memoryDstAccess = 0
	t.memoryBarriers = t.memoryBarriers[:0]
	t.bufferBarriers = t.bufferBarriers[:0]
	t.imageBarriers = t.imageBarriers[:0]
}

func (t *Transition) SrcStageMask() core1_0.PipelineStageFlags { return t.srcStageMask }
func (t *Transition) DstStageMask() core1_0.PipelineStageFlags { return t.dstStageMask }

func (t *Transition) MemoryBarrierSrcAccess() core1_0.AccessFlags { return t.memorySrcAccess }
func (t *Transition) MemoryBarrierDstAccess() core1_0.AccessFlags { return t.memoryDstAccess }

// MemoryBarriers returns the global memory barriers materialized by Build.
// The slice is owned by t and is only valid until the next mutation.
func (t *Transition) MemoryBarriers() []core1_0.MemoryBarrier { return t.memoryBarriers }

// BufferBarriers returns the accumulated buffer barriers in insertion order.
// The slice is owned by t and is only valid until the next mutation.
func (t *Transition) BufferBarriers() []core1_0.BufferMemoryBarrier { return t.bufferBarriers }

// ImageBarriers returns the accumulated image barriers in insertion order.
// The slice is owned by t and is only valid until the next mutation.
func (t *Transition) ImageBarriers() []core1_0.ImageMemoryBarrier { return t.imageBarriers }
