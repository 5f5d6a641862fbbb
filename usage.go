package transition

import (
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/transition/rhi"
)

// NewBufferUsage returns the Transition covering the whole of buffer between
// two renderer-level uses of it. Only the writes of src are made available.
func NewBufferUsage(buffer core1_0.Buffer, src, dst rhi.BufferUse) *Transition {
	srcStages, srcAccess := src.SrcScope()
	dstStages, dstAccess := dst.Scope()
	return NewBuffer(buffer, srcStages, dstStages, srcAccess, dstAccess)
}

// NewImageUsage is NewImage between the layouts that src and dst need.
func NewImageUsage(image core1_0.Image, subresourceRange core1_0.ImageSubresourceRange, src, dst rhi.ImageUse) (*Transition, error) {
	return NewImage(src.Layout(), dst.Layout(), image, subresourceRange)
}
