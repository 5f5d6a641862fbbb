// Package layout holds the image layout states a resource can be in and the
// static table describing the pipeline stages and memory accesses each of
// them implies when used as the source or destination of a barrier.
package layout

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
)

// ImageLayout is the usage state an image is in at a point of the GPU timeline.
type ImageLayout uint8

const (
	Undefined ImageLayout = iota

	// Framebuffer attachment layouts come first so they fit in fewer bits when
	// packed into attachment descriptions.
	ColorAttachment
	ColorAttachmentAndFragmentShaderRead
	ColorAttachmentAndAllShadersRead
	DSAttachmentWriteAndFragmentShaderRead
	DSAttachmentWriteAndAllShadersRead
	DSAttachmentReadAndFragmentShaderRead
	DSAttachmentReadAndAllShadersRead
	DepthStencilAttachmentReadOnly
	DepthStencilAttachment
	DepthStencilResolveAttachment
	Present
	SharedPresent

	ExternalPreInitialized
	ExternalShadersReadOnly
	ExternalShadersWrite
	TransferSrc
	TransferDst
	VertexShaderReadOnly
	VertexShaderWrite
	// PreFragment covers the vertex, tessellation and geometry stages.
	PreFragmentShadersReadOnly
	PreFragmentShadersWrite
	FragmentShaderReadOnly
	FragmentShaderWrite
	ComputeShaderReadOnly
	ComputeShaderWrite
	AllGraphicsShadersReadOnly
	AllGraphicsShadersWrite

	// Count is the number of layouts. It is not a valid layout itself.
	Count
)

// Invalid is the sentinel that no table entry exists for.
const Invalid = Count

// MaxAttachmentLayout is the last layout that can be used by a framebuffer
// attachment.
const MaxAttachmentLayout = SharedPresent

// AttachmentLayoutBits is the number of bits needed to store any attachment layout.
const AttachmentLayoutBits = 4

// Valid reports whether l names an entry of the table.
func (l ImageLayout) Valid() bool {
	return l < Count
}

// IsAttachment reports whether l can be used by a framebuffer attachment.
func (l ImageLayout) IsAttachment() bool {
	return l != Undefined && l <= MaxAttachmentLayout
}

func (l ImageLayout) String() string {
	if !l.Valid() {
		return fmt.Sprintf("ImageLayout(%d)", uint8(l))
	}
	return table[l].Name
}

// AccessKind tells whether a layout reads, writes or does both to the image.
type AccessKind uint8

const (
	Read AccessKind = iota + 1
	Write
	ReadWrite
)

// Writes reports whether a layout of this kind writes to the image, which is
// what makes two consecutive uses of the same layout a hazard.
func (k AccessKind) Writes() bool {
	return k == Write || k == ReadWrite
}

func (k AccessKind) String() string {
	switch k {
	case Read:
		return "Read"
	case Write:
		return "Write"
	case ReadWrite:
		return "ReadWrite"
	}
	return fmt.Sprintf("AccessKind(%d)", uint8(k))
}

// Entry is the synchronization metadata of one ImageLayout.
type Entry struct {
	Name string
	// Layout is the Vulkan image layout the state maps to.
	Layout core1_0.ImageLayout

	// DstStageMask and DstAccessMask are used when transitioning into the layout.
	DstStageMask  core1_0.PipelineStageFlags
	DstAccessMask core1_0.AccessFlags

	// SrcStageMask and SrcAccessMask are used when transitioning out of the layout.
	SrcStageMask  core1_0.PipelineStageFlags
	SrcAccessMask core1_0.AccessFlags

	Kind AccessKind
}

// IsShaderReadOnly reports whether the entry maps to the shader read-only
// optimal Vulkan layout.
func (e Entry) IsShaderReadOnly() bool {
	return e.Layout == core1_0.ImageLayoutShaderReadOnlyOptimal
}

// Lookup returns the table entry for l. It panics if l is not a valid layout:
// a lookup of the sentinel is a programming error in the caller.
func Lookup(l ImageLayout) Entry {
	if !l.Valid() {
		panic(errors.AssertionFailedf("layout: lookup of invalid image layout %d", uint8(l)))
	}
	return table[l]
}

// All returns every valid layout in enumeration order.
func All() []ImageLayout {
	layouts := make([]ImageLayout, 0, Count)
	for l := Undefined; l < Count; l++ {
		layouts = append(layouts, l)
	}
	return layouts
}
