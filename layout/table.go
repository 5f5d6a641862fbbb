package layout

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"
)

// VK_IMAGE_LAYOUT_SHARED_PRESENT_KHR
const imageLayoutSharedPresent core1_0.ImageLayout = 1000111000

const (
	allFragmentTestStages = core1_0.PipelineStageEarlyFragmentTests |
		core1_0.PipelineStageLateFragmentTests

	preFragmentShaderStages = core1_0.PipelineStageVertexShader |
		core1_0.PipelineStageTessellationControlShader |
		core1_0.PipelineStageTessellationEvaluationShader |
		core1_0.PipelineStageGeometryShader

	allShaderStages = preFragmentShaderStages |
		core1_0.PipelineStageFragmentShader |
		core1_0.PipelineStageComputeShader
)

var table = [Count]Entry{
	Undefined: {
		Name:   "Undefined",
		Layout: core1_0.ImageLayoutUndefined,
		// Nothing waits on an undefined image and its contents are discarded.
		DstStageMask: core1_0.PipelineStageBottomOfPipe,
		SrcStageMask: core1_0.PipelineStageTopOfPipe,
		Kind:         Read,
	},
	ColorAttachment: {
		Name:          "ColorAttachment",
		Layout:        core1_0.ImageLayoutColorAttachmentOptimal,
		DstStageMask:  core1_0.PipelineStageColorAttachmentOutput,
		DstAccessMask: core1_0.AccessColorAttachmentRead | core1_0.AccessColorAttachmentWrite,
		SrcStageMask:  core1_0.PipelineStageColorAttachmentOutput,
		SrcAccessMask: core1_0.AccessColorAttachmentWrite,
		Kind:          Write,
	},
	ColorAttachmentAndFragmentShaderRead: {
		Name:          "ColorAttachmentAndFragmentShaderRead",
		Layout:        core1_0.ImageLayoutGeneral,
		DstStageMask:  core1_0.PipelineStageColorAttachmentOutput | core1_0.PipelineStageFragmentShader,
		DstAccessMask: core1_0.AccessColorAttachmentRead | core1_0.AccessColorAttachmentWrite | core1_0.AccessShaderRead,
		SrcStageMask:  core1_0.PipelineStageColorAttachmentOutput | core1_0.PipelineStageFragmentShader,
		SrcAccessMask: core1_0.AccessColorAttachmentWrite,
		Kind:          ReadWrite,
	},
	ColorAttachmentAndAllShadersRead: {
		Name:          "ColorAttachmentAndAllShadersRead",
		Layout:        core1_0.ImageLayoutGeneral,
		DstStageMask:  core1_0.PipelineStageColorAttachmentOutput | allShaderStages,
		DstAccessMask: core1_0.AccessColorAttachmentRead | core1_0.AccessColorAttachmentWrite | core1_0.AccessShaderRead,
		SrcStageMask:  core1_0.PipelineStageColorAttachmentOutput | allShaderStages,
		SrcAccessMask: core1_0.AccessColorAttachmentWrite,
		Kind:          ReadWrite,
	},
	DSAttachmentWriteAndFragmentShaderRead: {
		Name:          "DSAttachmentWriteAndFragmentShaderRead",
		Layout:        core1_0.ImageLayoutGeneral,
		DstStageMask:  allFragmentTestStages | core1_0.PipelineStageFragmentShader,
		DstAccessMask: core1_0.AccessDepthStencilAttachmentRead | core1_0.AccessDepthStencilAttachmentWrite | core1_0.AccessShaderRead,
		SrcStageMask:  allFragmentTestStages | core1_0.PipelineStageFragmentShader,
		SrcAccessMask: core1_0.AccessDepthStencilAttachmentWrite,
		Kind:          ReadWrite,
	},
	DSAttachmentWriteAndAllShadersRead: {
		Name:          "DSAttachmentWriteAndAllShadersRead",
		Layout:        core1_0.ImageLayoutGeneral,
		DstStageMask:  allFragmentTestStages | allShaderStages,
		DstAccessMask: core1_0.AccessDepthStencilAttachmentRead | core1_0.AccessDepthStencilAttachmentWrite | core1_0.AccessShaderRead,
		SrcStageMask:  allFragmentTestStages | allShaderStages,
		SrcAccessMask: core1_0.AccessDepthStencilAttachmentWrite,
		Kind:          ReadWrite,
	},
	DSAttachmentReadAndFragmentShaderRead: {
		Name:          "DSAttachmentReadAndFragmentShaderRead",
		Layout:        core1_0.ImageLayoutDepthStencilReadOnlyOptimal,
		DstStageMask:  allFragmentTestStages | core1_0.PipelineStageFragmentShader,
		DstAccessMask: core1_0.AccessDepthStencilAttachmentRead | core1_0.AccessShaderRead,
		SrcStageMask:  allFragmentTestStages | core1_0.PipelineStageFragmentShader,
		Kind:          Read,
	},
	DSAttachmentReadAndAllShadersRead: {
		Name:          "DSAttachmentReadAndAllShadersRead",
		Layout:        core1_0.ImageLayoutDepthStencilReadOnlyOptimal,
		DstStageMask:  allFragmentTestStages | allShaderStages,
		DstAccessMask: core1_0.AccessDepthStencilAttachmentRead | core1_0.AccessShaderRead,
		SrcStageMask:  allFragmentTestStages | allShaderStages,
		Kind:          Read,
	},
	DepthStencilAttachmentReadOnly: {
		Name:          "DepthStencilAttachmentReadOnly",
		Layout:        core1_0.ImageLayoutDepthStencilReadOnlyOptimal,
		DstStageMask:  allFragmentTestStages,
		DstAccessMask: core1_0.AccessDepthStencilAttachmentRead,
		SrcStageMask:  allFragmentTestStages,
		Kind:          Read,
	},
	DepthStencilAttachment: {
		Name:          "DepthStencilAttachment",
		Layout:        core1_0.ImageLayoutDepthStencilAttachmentOptimal,
		DstStageMask:  allFragmentTestStages,
		DstAccessMask: core1_0.AccessDepthStencilAttachmentRead | core1_0.AccessDepthStencilAttachmentWrite,
		SrcStageMask:  allFragmentTestStages,
		SrcAccessMask: core1_0.AccessDepthStencilAttachmentWrite,
		Kind:          Write,
	},
	DepthStencilResolveAttachment: {
		Name:   "DepthStencilResolveAttachment",
		Layout: core1_0.ImageLayoutDepthStencilAttachmentOptimal,
		// Resolve happens in the color attachment output stage even for
		// depth/stencil, and that stage only supports color attachment access.
		DstStageMask:  core1_0.PipelineStageColorAttachmentOutput,
		DstAccessMask: core1_0.AccessColorAttachmentRead | core1_0.AccessColorAttachmentWrite,
		SrcStageMask:  core1_0.PipelineStageColorAttachmentOutput,
		SrcAccessMask: core1_0.AccessColorAttachmentWrite,
		Kind:          Write,
	},
	Present: {
		Name:   "Present",
		Layout: khr_swapchain.ImageLayoutPresentSrc,
		// vkQueuePresentKHR performs the memory barriers it needs, so no access
		// masks are required in either direction.
		DstStageMask: core1_0.PipelineStageBottomOfPipe,
		SrcStageMask: core1_0.PipelineStageTopOfPipe,
		Kind:         Read,
	},
	SharedPresent: {
		Name:          "SharedPresent",
		Layout:        imageLayoutSharedPresent,
		DstStageMask:  core1_0.PipelineStageBottomOfPipe,
		DstAccessMask: core1_0.AccessMemoryRead | core1_0.AccessMemoryWrite,
		SrcStageMask:  core1_0.PipelineStageBottomOfPipe,
		SrcAccessMask: core1_0.AccessMemoryWrite,
		Kind:          Write,
	},
	ExternalPreInitialized: {
		Name:   "ExternalPreInitialized",
		Layout: core1_0.ImageLayoutPreInitialized,
		// Images are never transitioned into the preinitialized layout.
		DstStageMask:  core1_0.PipelineStageHost | core1_0.PipelineStageAllCommands,
		SrcStageMask:  core1_0.PipelineStageHost | core1_0.PipelineStageAllCommands,
		SrcAccessMask: core1_0.AccessHostWrite | core1_0.AccessMemoryWrite,
		Kind:          Read,
	},
	ExternalShadersReadOnly: {
		Name:          "ExternalShadersReadOnly",
		Layout:        core1_0.ImageLayoutShaderReadOnlyOptimal,
		DstStageMask:  core1_0.PipelineStageTopOfPipe | core1_0.PipelineStageAllCommands,
		DstAccessMask: core1_0.AccessShaderRead,
		SrcStageMask:  core1_0.PipelineStageAllCommands,
		Kind:          Read,
	},
	ExternalShadersWrite: {
		Name:          "ExternalShadersWrite",
		Layout:        core1_0.ImageLayoutGeneral,
		DstStageMask:  core1_0.PipelineStageTopOfPipe | core1_0.PipelineStageAllCommands,
		DstAccessMask: core1_0.AccessShaderRead | core1_0.AccessShaderWrite,
		SrcStageMask:  core1_0.PipelineStageAllCommands,
		SrcAccessMask: core1_0.AccessShaderWrite,
		Kind:          Write,
	},
	TransferSrc: {
		Name:          "TransferSrc",
		Layout:        core1_0.ImageLayoutTransferSrcOptimal,
		DstStageMask:  core1_0.PipelineStageTransfer,
		DstAccessMask: core1_0.AccessTransferRead,
		SrcStageMask:  core1_0.PipelineStageTransfer,
		Kind:          Read,
	},
	TransferDst: {
		Name:          "TransferDst",
		Layout:        core1_0.ImageLayoutTransferDstOptimal,
		DstStageMask:  core1_0.PipelineStageTransfer,
		DstAccessMask: core1_0.AccessTransferWrite,
		SrcStageMask:  core1_0.PipelineStageTransfer,
		SrcAccessMask: core1_0.AccessTransferWrite,
		Kind:          Write,
	},
	VertexShaderReadOnly: {
		Name:          "VertexShaderReadOnly",
		Layout:        core1_0.ImageLayoutShaderReadOnlyOptimal,
		DstStageMask:  core1_0.PipelineStageVertexShader,
		DstAccessMask: core1_0.AccessShaderRead,
		SrcStageMask:  core1_0.PipelineStageVertexShader,
		Kind:          Read,
	},
	VertexShaderWrite: {
		Name:          "VertexShaderWrite",
		Layout:        core1_0.ImageLayoutGeneral,
		DstStageMask:  core1_0.PipelineStageVertexShader,
		DstAccessMask: core1_0.AccessShaderRead | core1_0.AccessShaderWrite,
		SrcStageMask:  core1_0.PipelineStageVertexShader,
		SrcAccessMask: core1_0.AccessShaderWrite,
		Kind:          Write,
	},
	PreFragmentShadersReadOnly: {
		Name:          "PreFragmentShadersReadOnly",
		Layout:        core1_0.ImageLayoutShaderReadOnlyOptimal,
		DstStageMask:  preFragmentShaderStages,
		DstAccessMask: core1_0.AccessShaderRead,
		SrcStageMask:  preFragmentShaderStages,
		Kind:          Read,
	},
	PreFragmentShadersWrite: {
		Name:          "PreFragmentShadersWrite",
		Layout:        core1_0.ImageLayoutGeneral,
		DstStageMask:  preFragmentShaderStages,
		DstAccessMask: core1_0.AccessShaderRead | core1_0.AccessShaderWrite,
		SrcStageMask:  preFragmentShaderStages,
		SrcAccessMask: core1_0.AccessShaderWrite,
		Kind:          Write,
	},
	FragmentShaderReadOnly: {
		Name:          "FragmentShaderReadOnly",
		Layout:        core1_0.ImageLayoutShaderReadOnlyOptimal,
		DstStageMask:  core1_0.PipelineStageFragmentShader,
		DstAccessMask: core1_0.AccessShaderRead,
		SrcStageMask:  core1_0.PipelineStageFragmentShader,
		Kind:          Read,
	},
	FragmentShaderWrite: {
		Name:          "FragmentShaderWrite",
		Layout:        core1_0.ImageLayoutGeneral,
		DstStageMask:  core1_0.PipelineStageFragmentShader,
		DstAccessMask: core1_0.AccessShaderRead | core1_0.AccessShaderWrite,
		SrcStageMask:  core1_0.PipelineStageFragmentShader,
		SrcAccessMask: core1_0.AccessShaderWrite,
		Kind:          Write,
	},
	ComputeShaderReadOnly: {
		Name:          "ComputeShaderReadOnly",
		Layout:        core1_0.ImageLayoutShaderReadOnlyOptimal,
		DstStageMask:  core1_0.PipelineStageComputeShader,
		DstAccessMask: core1_0.AccessShaderRead,
		SrcStageMask:  core1_0.PipelineStageComputeShader,
		Kind:          Read,
	},
	ComputeShaderWrite: {
		Name:          "ComputeShaderWrite",
		Layout:        core1_0.ImageLayoutGeneral,
		DstStageMask:  core1_0.PipelineStageComputeShader,
		DstAccessMask: core1_0.AccessShaderRead | core1_0.AccessShaderWrite,
		SrcStageMask:  core1_0.PipelineStageComputeShader,
		SrcAccessMask: core1_0.AccessShaderWrite,
		Kind:          Write,
	},
	AllGraphicsShadersReadOnly: {
		Name:          "AllGraphicsShadersReadOnly",
		Layout:        core1_0.ImageLayoutShaderReadOnlyOptimal,
		DstStageMask:  allShaderStages,
		DstAccessMask: core1_0.AccessShaderRead,
		SrcStageMask:  allShaderStages,
		Kind:          Read,
	},
	AllGraphicsShadersWrite: {
		Name:          "AllGraphicsShadersWrite",
		Layout:        core1_0.ImageLayoutGeneral,
		DstStageMask:  allShaderStages,
		DstAccessMask: core1_0.AccessShaderRead | core1_0.AccessShaderWrite,
		SrcStageMask:  allShaderStages,
		SrcAccessMask: core1_0.AccessShaderWrite,
		Kind:          Write,
	},
}

func init() {
	if err := checkTable(); err != nil {
		panic(err)
	}
}

// checkTable verifies that every layout has been given an entry, that every
// access bit is supported by the stage mask it is paired with, and that the
// attachment layouts still fit in AttachmentLayoutBits.
func checkTable() error {
	for l := Undefined; l < Count; l++ {
		e := table[l]
		if e.Name == "" || e.Kind == 0 {
			return errors.AssertionFailedf("layout: missing table entry for image layout %d", uint8(l))
		}
		if e.SrcStageMask == 0 || e.DstStageMask == 0 {
			return errors.AssertionFailedf("layout: table entry %s has an empty stage mask", e.Name)
		}
		if e.Kind.Writes() && e.SrcAccessMask == 0 {
			return errors.AssertionFailedf("layout: writable table entry %s has no source access", e.Name)
		}
		if bad := UnsupportedAccess(e.SrcStageMask, e.SrcAccessMask); bad != 0 {
			return errors.AssertionFailedf("layout: table entry %s: source access %v is not supported by stages %v",
				e.Name, bad, e.SrcStageMask)
		}
		if bad := UnsupportedAccess(e.DstStageMask, e.DstAccessMask); bad != 0 {
			return errors.AssertionFailedf("layout: table entry %s: destination access %v is not supported by stages %v",
				e.Name, bad, e.DstStageMask)
		}
	}
	if uint(MaxAttachmentLayout) >= 1<<AttachmentLayoutBits {
		return errors.AssertionFailedf("layout: attachment layouts do not fit in %d bits", AttachmentLayoutBits)
	}
	return nil
}
