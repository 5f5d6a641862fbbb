package rhi

import (
	"github.com/vkngwrapper/transition/layout"
)

// ImageUsage is the set of ways an image is bound.
type ImageUsage uint32

const (
	ImageTransferSrc            ImageUsage = 0x00000001
	ImageTransferDst            ImageUsage = 0x00000002
	ImageSampled                ImageUsage = 0x00000004
	ImageStorage                ImageUsage = 0x00000008
	ImageColorAttachment        ImageUsage = 0x00000010
	ImageDepthStencilAttachment ImageUsage = 0x00000020
	ImageTransientAttachment    ImageUsage = 0x00000040
	ImageInputAttachment        ImageUsage = 0x00000080
	ImageShadingRateImage       ImageUsage = 0x00000100
	ImageFragmentDensityMap     ImageUsage = 0x00000200
)

const stagePreFragment = StageVertex | StageTessellationControl | StageTessellationEvaluation | StageGeometry

// ImageUse is one use of an image.
type ImageUse struct {
	Usage  ImageUsage
	Stages ShaderStage
	Access MemoryAccess
}

func (u ImageUse) writes() bool {
	return u.Access&(AccessWrite|AccessGeneral) != 0
}

// Layout returns the layout the image has to be in for u.
//
// Attachment usages take precedence over transfer usages, which take
// precedence over shader usages. A sampled or storage use seen by both compute
// and graphics stages, by ray tracing stages or by no stage at all gets an
// External shader layout.
// An empty use is Undefined.
func (u ImageUse) Layout() layout.ImageLayout {
	sampled := u.Usage&(ImageSampled|ImageInputAttachment) != 0

	switch {
	case u.Usage&ImageColorAttachment != 0:
		if !sampled || u.Stages == 0 {
			return layout.ColorAttachment
		}
		if u.Stages == StageFragment {
			return layout.ColorAttachmentAndFragmentShaderRead
		}
		return layout.ColorAttachmentAndAllShadersRead

	case u.Usage&ImageDepthStencilAttachment != 0:
		fragmentOnly := u.Stages == StageFragment
		if u.writes() {
			switch {
			case !sampled || u.Stages == 0:
				return layout.DepthStencilAttachment
			case fragmentOnly:
				return layout.DSAttachmentWriteAndFragmentShaderRead
			default:
				return layout.DSAttachmentWriteAndAllShadersRead
			}
		}
		switch {
		case !sampled || u.Stages == 0:
			return layout.DepthStencilAttachmentReadOnly
		case fragmentOnly:
			return layout.DSAttachmentReadAndFragmentShaderRead
		default:
			return layout.DSAttachmentReadAndAllShadersRead
		}

	case u.Usage&ImageTransferDst != 0 && (u.writes() || u.Usage&ImageTransferSrc == 0):
		return layout.TransferDst

	case u.Usage&ImageTransferSrc != 0:
		return layout.TransferSrc

	case u.Usage&ImageStorage != 0 && u.writes():
		return shaderLayout(u.Stages, true)

	case u.Usage&(ImageStorage|ImageSampled|ImageInputAttachment) != 0:
		return shaderLayout(u.Stages, false)
	}

	return layout.Undefined
}

func shaderLayout(stages ShaderStage, write bool) layout.ImageLayout {
	pick := func(readOnly, writable layout.ImageLayout) layout.ImageLayout {
		if write {
			return writable
		}
		return readOnly
	}

	graphics := stages & (stagePreFragment | StageFragment)
	compute := stages & StageCompute

	switch {
	case stages == 0 || stages&stageRayTracing != 0 || (graphics != 0 && compute != 0):
		return pick(layout.ExternalShadersReadOnly, layout.ExternalShadersWrite)
	case compute != 0:
		return pick(layout.ComputeShaderReadOnly, layout.ComputeShaderWrite)
	case graphics == StageVertex:
		return pick(layout.VertexShaderReadOnly, layout.VertexShaderWrite)
	case graphics == StageFragment:
		return pick(layout.FragmentShaderReadOnly, layout.FragmentShaderWrite)
	case graphics&StageFragment == 0:
		return pick(layout.PreFragmentShadersReadOnly, layout.PreFragmentShadersWrite)
	}
	return pick(layout.AllGraphicsShadersReadOnly, layout.AllGraphicsShadersWrite)
}
