package layout

import "github.com/vkngwrapper/core/v3/core1_0"

// VK_PIPELINE_STAGE_RAY_TRACING_SHADER_BIT_KHR
const pipelineStageRayTracingShader core1_0.PipelineStageFlags = 0x00200000

const allGraphicsStages = core1_0.PipelineStageDrawIndirect |
	core1_0.PipelineStageVertexInput |
	preFragmentShaderStages |
	core1_0.PipelineStageFragmentShader |
	allFragmentTestStages |
	core1_0.PipelineStageColorAttachmentOutput

// accessStages lists the pipeline stages able to perform each access type.
// Memory read and write are supported by every stage and are not listed.
var accessStages = []struct {
	access core1_0.AccessFlags
	stages core1_0.PipelineStageFlags
}{
	{core1_0.AccessIndirectCommandRead, core1_0.PipelineStageDrawIndirect},
	{core1_0.AccessIndexRead, core1_0.PipelineStageVertexInput},
	{core1_0.AccessVertexAttributeRead, core1_0.PipelineStageVertexInput},
	{core1_0.AccessUniformRead, allShaderStages | pipelineStageRayTracingShader},
	{core1_0.AccessInputAttachmentRead, core1_0.PipelineStageFragmentShader},
	{core1_0.AccessShaderRead, allShaderStages | pipelineStageRayTracingShader},
	{core1_0.AccessShaderWrite, allShaderStages | pipelineStageRayTracingShader},
	{core1_0.AccessColorAttachmentRead, core1_0.PipelineStageColorAttachmentOutput},
	{core1_0.AccessColorAttachmentWrite, core1_0.PipelineStageColorAttachmentOutput},
	{core1_0.AccessDepthStencilAttachmentRead, allFragmentTestStages},
	{core1_0.AccessDepthStencilAttachmentWrite, allFragmentTestStages},
	{core1_0.AccessTransferRead, core1_0.PipelineStageTransfer},
	{core1_0.AccessTransferWrite, core1_0.PipelineStageTransfer},
	{core1_0.AccessHostRead, core1_0.PipelineStageHost},
	{core1_0.AccessHostWrite, core1_0.PipelineStageHost},
}

// UnsupportedAccess returns the bits of access that no stage in stages can
// perform. A barrier whose access mask has such bits is rejected by the
// validation layers.
func UnsupportedAccess(stages core1_0.PipelineStageFlags, access core1_0.AccessFlags) core1_0.AccessFlags {
	if stages&core1_0.PipelineStageAllCommands != 0 {
		return 0
	}
	if stages&core1_0.PipelineStageAllGraphics != 0 {
		stages |= allGraphicsStages
	}

	var unsupported core1_0.AccessFlags
	for _, as := range accessStages {
		if access&as.access != 0 && stages&as.stages == 0 {
			unsupported |= as.access
		}
	}
	return unsupported
}
