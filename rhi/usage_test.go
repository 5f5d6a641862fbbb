package rhi

import (
	"testing"

	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/transition/layout"
)

func TestPipelineStages(t *testing.T) {
	cases := []struct {
		s    ShaderStage
		want core1_0.PipelineStageFlags
	}{
		{0, 0},
		{StageVertex, core1_0.PipelineStageVertexShader},
		{StageFragment | StageCompute, core1_0.PipelineStageFragmentShader | core1_0.PipelineStageComputeShader},
		{StageTessellationControl | StageTessellationEvaluation,
			core1_0.PipelineStageTessellationControlShader | core1_0.PipelineStageTessellationEvaluationShader},
		{StageGeometry, core1_0.PipelineStageGeometryShader},
		{StageRayGen | StageClosestHit, pipelineStageRayTracingShader},
	}
	for _, c := range cases {
		if have := c.s.PipelineStages(); have != c.want {
			t.Errorf("ShaderStage(%d).PipelineStages():\nhave %d\nwant %d", c.s, have, c.want)
		}
	}
}

func TestScope(t *testing.T) {
	cases := []struct {
		name   string
		use    BufferUse
		stages core1_0.PipelineStageFlags
		access core1_0.AccessFlags
	}{
		{
			name:   "General",
			use:    BufferUse{Usage: BufferVertexBuffer, Access: AccessGeneral | AccessRead},
			stages: core1_0.PipelineStageAllCommands,
			access: core1_0.AccessMemoryRead | core1_0.AccessMemoryWrite,
		},
		{
			name:   "TransferBoth",
			use:    BufferUse{Usage: BufferTransferSrc | BufferTransferDst},
			stages: core1_0.PipelineStageTransfer,
			access: core1_0.AccessTransferRead | core1_0.AccessTransferWrite,
		},
		{
			name:   "UniformNoStages",
			use:    BufferUse{Usage: BufferUniformBuffer},
			stages: core1_0.PipelineStageAllCommands,
			access: core1_0.AccessUniformRead,
		},
		{
			name:   "UniformTexel",
			use:    BufferUse{Usage: BufferUniformTexelBuffer, Stages: StageFragment},
			stages: core1_0.PipelineStageFragmentShader,
			access: core1_0.AccessShaderRead,
		},
		{
			name:   "StorageReadWrite",
			use:    BufferUse{Usage: BufferStorageBuffer, Stages: StageCompute, Access: AccessRead | AccessWrite},
			stages: core1_0.PipelineStageComputeShader,
			access: core1_0.AccessShaderRead | core1_0.AccessShaderWrite,
		},
		{
			name:   "StorageWriteOnly",
			use:    BufferUse{Usage: BufferStorageTexelBuffer, Stages: StageVertex, Access: AccessWrite},
			stages: core1_0.PipelineStageVertexShader,
			access: core1_0.AccessShaderWrite,
		},
		{
			name:   "IndexVertex",
			use:    BufferUse{Usage: BufferIndexBuffer | BufferVertexBuffer},
			stages: core1_0.PipelineStageVertexInput,
			access: core1_0.AccessIndexRead | core1_0.AccessVertexAttributeRead,
		},
		{
			name:   "Indirect",
			use:    BufferUse{Usage: BufferIndirectBuffer},
			stages: core1_0.PipelineStageDrawIndirect,
			access: core1_0.AccessIndirectCommandRead,
		},
		{
			name:   "IndirectAccess",
			use:    BufferUse{Usage: BufferStorageBuffer, Stages: StageCompute, Access: AccessIndirect},
			stages: core1_0.PipelineStageComputeShader | core1_0.PipelineStageDrawIndirect,
			access: core1_0.AccessIndirectCommandRead,
		},
		{
			name:   "Extension",
			use:    BufferUse{Usage: BufferShaderDeviceAddress, Access: AccessRead | AccessWrite},
			stages: core1_0.PipelineStageAllCommands,
			access: core1_0.AccessMemoryRead | core1_0.AccessMemoryWrite,
		},
		{
			name:   "Unused",
			use:    BufferUse{},
			stages: core1_0.PipelineStageBottomOfPipe,
		},
		{
			name:   "AccessWithoutUsage",
			use:    BufferUse{Access: AccessRead},
			stages: core1_0.PipelineStageBottomOfPipe,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			stages, access := c.use.Scope()
			if stages != c.stages || access != c.access {
				t.Errorf("Scope():\nhave (%d, %d)\nwant (%d, %d)", stages, access, c.stages, c.access)
			}
		})
	}
}

func TestSrcScope(t *testing.T) {
	use := BufferUse{Usage: BufferTransferSrc | BufferTransferDst | BufferVertexBuffer}
	stages, access := use.SrcScope()
	if stages != core1_0.PipelineStageTransfer|core1_0.PipelineStageVertexInput {
		t.Errorf("SrcScope() stages:\nhave %d\nwant %d", stages, core1_0.PipelineStageTransfer|core1_0.PipelineStageVertexInput)
	}
	if access != core1_0.AccessTransferWrite {
		t.Errorf("SrcScope() access:\nhave %d\nwant %d", access, core1_0.AccessTransferWrite)
	}

	use = BufferUse{Usage: BufferUniformBuffer, Stages: StageFragment}
	if _, access = use.SrcScope(); access != 0 {
		t.Errorf("SrcScope() of a read-only use:\nhave %d\nwant 0", access)
	}

	stages, access = BufferUse{}.SrcScope()
	if stages != core1_0.PipelineStageTopOfPipe || access != 0 {
		t.Errorf("SrcScope() of an unused buffer:\nhave (%d, %d)\nwant (%d, 0)", stages, access, core1_0.PipelineStageTopOfPipe)
	}
}

func TestScopeNeverEmpty(t *testing.T) {
	uses := []BufferUse{
		{},
		{Access: AccessWrite},
		{Stages: StageFragment},
		{Usage: BufferVertexBuffer},
		{Usage: BufferStorageBuffer, Stages: StageCompute, Access: AccessWrite},
		{Usage: BufferShaderBindingTable, Access: AccessGeneral},
	}
	for _, use := range uses {
		if stages, _ := use.Scope(); stages == 0 {
			t.Errorf("%+v.Scope(): have no stages, want at least one", use)
		}
		if stages, _ := use.SrcScope(); stages == 0 {
			t.Errorf("%+v.SrcScope(): have no stages, want at least one", use)
		}
	}
}

func TestScopeAccessSupportedByStages(t *testing.T) {
	uses := []BufferUse{
		{Usage: BufferTransferSrc | BufferTransferDst},
		{Usage: BufferUniformBuffer | BufferUniformTexelBuffer},
		{Usage: BufferStorageBuffer, Stages: StageRayGen | StageClosestHit, Access: AccessRead | AccessWrite},
		{Usage: BufferIndexBuffer | BufferVertexBuffer},
		{Usage: BufferStorageBuffer, Stages: StageCompute, Access: AccessIndirect},
		{Usage: BufferAccelerationStructureStorage, Access: AccessWrite},
	}
	for _, use := range uses {
		stages, access := use.Scope()
		if bad := layout.UnsupportedAccess(stages, access); bad != 0 {
			t.Errorf("%+v.Scope():\nhave access %v unsupported by stages %v\nwant every access bit supported", use, bad, stages)
		}
	}
}
