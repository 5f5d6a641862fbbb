// Package rhi describes how resources are used by the renderer independently
// of the graphics API, and converts those uses to Vulkan synchronization scopes.
package rhi

import (
	"github.com/vkngwrapper/core/v3/core1_0"
)

// BufferUsage is the set of ways a buffer is bound.
type BufferUsage uint32

const (
	BufferTransferSrc                         BufferUsage = 0x00000001
	BufferTransferDst                         BufferUsage = 0x00000002
	BufferUniformTexelBuffer                  BufferUsage = 0x00000004
	BufferStorageTexelBuffer                  BufferUsage = 0x00000008
	BufferUniformBuffer                       BufferUsage = 0x00000010
	BufferStorageBuffer                       BufferUsage = 0x00000020
	BufferIndexBuffer                         BufferUsage = 0x00000040
	BufferVertexBuffer                        BufferUsage = 0x00000080
	BufferIndirectBuffer                      BufferUsage = 0x00000100
	BufferConditionalRendering                BufferUsage = 0x00000200
	BufferShaderBindingTable                  BufferUsage = 0x00000400
	BufferTransformFeedbackBuffer             BufferUsage = 0x00000800
	BufferTransformFeedbackCounterBuffer      BufferUsage = 0x00001000
	BufferShaderDeviceAddress                 BufferUsage = 0x00020000
	BufferAccelerationStructureBuildInputRead BufferUsage = 0x00080000
	BufferAccelerationStructureStorage        BufferUsage = 0x00100000
)

// ShaderStage is the set of shader stages a resource is visible to.
type ShaderStage uint16

const (
	StageVertex                 ShaderStage = 1
	StageGeometry               ShaderStage = 2
	StageTessellationControl    ShaderStage = 4
	StageTessellationEvaluation ShaderStage = 8
	StageFragment               ShaderStage = 16
	StageCompute                ShaderStage = 32
	StageRayGen                 ShaderStage = 64
	StageRayMiss                ShaderStage = 128
	StageClosestHit             ShaderStage = 256

	stageRayTracing = StageRayGen | StageRayMiss | StageClosestHit
)

// MemoryAccess tells how a resource is accessed.
type MemoryAccess uint32

const (
	AccessRead     MemoryAccess = 1
	AccessWrite    MemoryAccess = 2
	AccessIndirect MemoryAccess = 4
	AccessGeneral  MemoryAccess = 8
)

// VK_PIPELINE_STAGE_RAY_TRACING_SHADER_BIT_KHR
const pipelineStageRayTracingShader core1_0.PipelineStageFlags = 0x00200000

const writeAccessMask = core1_0.AccessShaderWrite |
	core1_0.AccessColorAttachmentWrite |
	core1_0.AccessDepthStencilAttachmentWrite |
	core1_0.AccessTransferWrite |
	core1_0.AccessHostWrite |
	core1_0.AccessMemoryWrite

// PipelineStages returns the Vulkan pipeline stages that run the shader stages in s.
func (s ShaderStage) PipelineStages() core1_0.PipelineStageFlags {
	var stages core1_0.PipelineStageFlags
	if s&StageVertex != 0 {
		stages |= core1_0.PipelineStageVertexShader
	}
	if s&StageGeometry != 0 {
		stages |= core1_0.PipelineStageGeometryShader
	}
	if s&StageTessellationControl != 0 {
		stages |= core1_0.PipelineStageTessellationControlShader
	}
	if s&StageTessellationEvaluation != 0 {
		stages |= core1_0.PipelineStageTessellationEvaluationShader
	}
	if s&StageFragment != 0 {
		stages |= core1_0.PipelineStageFragmentShader
	}
	if s&StageCompute != 0 {
		stages |= core1_0.PipelineStageComputeShader
	}
	if s&stageRayTracing != 0 {
		stages |= pipelineStageRayTracingShader
	}
	return stages
}

// BufferUse is one use of a buffer: how it is bound, which shader stages
// see it and whether they read or write it.
type BufferUse struct {
	Usage  BufferUsage
	Stages ShaderStage
	Access MemoryAccess
}

// Scope returns the pipeline stages and memory accesses of u as the
// destination of a barrier. A use that touches no stage waits on
// BottomOfPipe, so nothing is blocked.
func (u BufferUse) Scope() (core1_0.PipelineStageFlags, core1_0.AccessFlags) {
	stages, access := u.scope()
	if stages == 0 {
		stages = core1_0.PipelineStageBottomOfPipe
	}
	return stages, access
}

// SrcScope is Scope for the source side of a barrier, restricted to write
// accesses. A use that touches no stage, such as the first use of a buffer,
// waits on TopOfPipe.
func (u BufferUse) SrcScope() (core1_0.PipelineStageFlags, core1_0.AccessFlags) {
	stages, access := u.scope()
	if stages == 0 {
		stages = core1_0.PipelineStageTopOfPipe
	}
	return stages, access & writeAccessMask
}

func (u BufferUse) scope() (core1_0.PipelineStageFlags, core1_0.AccessFlags) {
	var stages core1_0.PipelineStageFlags
	var access core1_0.AccessFlags

	if u.Access&AccessGeneral != 0 {
		return core1_0.PipelineStageAllCommands, core1_0.AccessMemoryRead | core1_0.AccessMemoryWrite
	}

	shaderStages := u.Stages.PipelineStages()
	if shaderStages == 0 {
		shaderStages = core1_0.PipelineStageAllCommands
	}
	reads := u.Access&AccessRead != 0 || u.Access == 0
	writes := u.Access&AccessWrite != 0

	if u.Usage&BufferTransferSrc != 0 {
		stages |= core1_0.PipelineStageTransfer
		access |= core1_0.AccessTransferRead
	}
	if u.Usage&BufferTransferDst != 0 {
		stages |= core1_0.PipelineStageTransfer
		access |= core1_0.AccessTransferWrite
	}
	if u.Usage&(BufferUniformBuffer|BufferUniformTexelBuffer) != 0 {
		stages |= shaderStages
		if u.Usage&BufferUniformBuffer != 0 {
			access |= core1_0.AccessUniformRead
		}
		if u.Usage&BufferUniformTexelBuffer != 0 {
			access |= core1_0.AccessShaderRead
		}
	}
	if u.Usage&(BufferStorageBuffer|BufferStorageTexelBuffer) != 0 {
		stages |= shaderStages
		if reads {
			access |= core1_0.AccessShaderRead
		}
		if writes {
			access |= core1_0.AccessShaderWrite
		}
	}
	if u.Usage&BufferIndexBuffer != 0 {
		stages |= core1_0.PipelineStageVertexInput
		access |= core1_0.AccessIndexRead
	}
	if u.Usage&BufferVertexBuffer != 0 {
		stages |= core1_0.PipelineStageVertexInput
		access |= core1_0.AccessVertexAttributeRead
	}
	if u.Usage&BufferIndirectBuffer != 0 || u.Access&AccessIndirect != 0 {
		stages |= core1_0.PipelineStageDrawIndirect
		access |= core1_0.AccessIndirectCommandRead
	}

	// Extension usages are synchronized conservatively.
	extended := BufferConditionalRendering | BufferShaderBindingTable | BufferTransformFeedbackBuffer |
		BufferTransformFeedbackCounterBuffer | BufferShaderDeviceAddress |
		BufferAccelerationStructureBuildInputRead | BufferAccelerationStructureStorage
	if u.Usage&extended != 0 {
		stages |= core1_0.PipelineStageAllCommands
		if reads {
			access |= core1_0.AccessMemoryRead
		}
		if writes {
			access |= core1_0.AccessMemoryWrite
		}
	}

	return stages, access
}
