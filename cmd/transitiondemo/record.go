package main

import (
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/loov/hrtime"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/transition"
	"github.com/vkngwrapper/transition/layout"
	"github.com/vkngwrapper/transition/rhi"
	"golang.org/x/sync/errgroup"
)

const textureSize = 64

var triangle = []float32{
	0.0, -0.5, 1.0, 0.0, 0.0,
	0.5, 0.5, 0.0, 1.0, 0.0,
	-0.5, 0.5, 0.0, 0.0, 1.0,
}

var textureRange = core1_0.ImageSubresourceRange{
	AspectMask:     core1_0.ImageAspectColor,
	BaseMipLevel:   0,
	LevelCount:     1,
	BaseArrayLayer: 0,
	LayerCount:     1,
}

var (
	vertexUpload = rhi.BufferUse{Usage: rhi.BufferTransferDst, Access: rhi.AccessWrite}
	vertexFetch  = rhi.BufferUse{Usage: rhi.BufferVertexBuffer, Access: rhi.AccessRead}

	textureUpload = rhi.ImageUse{Usage: rhi.ImageTransferDst, Access: rhi.AccessWrite}
	textureSample = rhi.ImageUse{Usage: rhi.ImageSampled, Stages: rhi.StageFragment, Access: rhi.AccessRead}
)

// checkerboard returns size*size RGBA8 pixels in squares of cell pixels.
func checkerboard(size, cell int) []byte {
	pixels := make([]byte, 0, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := byte(0x20)
			if (x/cell+y/cell)%2 == 0 {
				c = 0xe0
			}
			pixels = append(pixels, c, c, c, 0xff)
		}
	}
	return pixels
}

type transitionBuilder func() (*transition.Transition, error)

// buildMerged runs every builder on its own goroutine and merges the results,
// in builder order, into one Transition.
func buildMerged(builders ...transitionBuilder) (*transition.Transition, error) {
	parts := make([]*transition.Transition, len(builders))

	var group errgroup.Group
	for i, build := range builders {
		idx, build := i, build
		group.Go(func() error {
			t, err := build()
			if err != nil {
				return err
			}
			parts[idx] = t
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return transition.MergeAll(parts...), nil
}

// recordUpload records the whole upload in a single command buffer and
// waits for it to execute.
func (app *TransitionDemo) recordUpload() error {
	passID := uuid.New()
	logger := app.logger.With(slog.String("pass", passID.String()))
	transition.SetLogger(logger)
	defer transition.SetLogger(app.logger)

	start := hrtime.Now()
	var recorded time.Duration

	err := app.submitOnce(func(cmd core1_0.CommandBuffer) error {
		if err := app.recordCopies(cmd); err != nil {
			return err
		}
		recorded = hrtime.Since(start)
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("upload complete",
		slog.Duration("record", recorded),
		slog.Duration("total", hrtime.Since(start)))
	return nil
}

// recordCopies records:
//
//	host writes -> staging reads, texture Undefined -> TransferDst
//	copy vertices, copy texture
//	texture TransferDst -> TransferDst (second copy overwrites a corner)
//	copy texture corner
//	vertices -> vertex input, texture TransferDst -> FragmentShaderReadOnly
func (app *TransitionDemo) recordCopies(cmd core1_0.CommandBuffer) error {
	prepare, err := buildMerged(
		func() (*transition.Transition, error) {
			return transition.NewBuffer(app.vertexStaging,
				core1_0.PipelineStageHost, core1_0.PipelineStageTransfer,
				core1_0.AccessHostWrite, core1_0.AccessTransferRead), nil
		},
		func() (*transition.Transition, error) {
			return transition.NewBuffer(app.pixelStaging,
				core1_0.PipelineStageHost, core1_0.PipelineStageTransfer,
				core1_0.AccessHostWrite, core1_0.AccessTransferRead), nil
		},
		func() (*transition.Transition, error) {
			return transition.NewImageUsage(app.textureImage, textureRange, rhi.ImageUse{}, textureUpload)
		},
	)
	if err != nil {
		return err
	}
	if err = app.flush(cmd, prepare, "prepare"); err != nil {
		return err
	}

	err = app.deviceDriver.CmdCopyBuffer(cmd, app.vertexStaging, app.vertexBuffer,
		core1_0.BufferCopy{
			SrcOffset: 0,
			DstOffset: 0,
			Size:      len(triangle) * 4,
		},
	)
	if err != nil {
		return err
	}

	err = app.copyPixels(cmd, textureSize)
	if err != nil {
		return err
	}

	overwrite, err := transition.NewImage(layout.TransferDst, layout.TransferDst, app.textureImage, textureRange)
	if err != nil {
		return err
	}
	if err = app.flush(cmd, overwrite, "overwrite"); err != nil {
		return err
	}

	err = app.copyPixels(cmd, textureSize/2)
	if err != nil {
		return err
	}

	release, err := buildMerged(
		func() (*transition.Transition, error) {
			return transition.NewBufferUsage(app.vertexBuffer, vertexUpload, vertexFetch), nil
		},
		func() (*transition.Transition, error) {
			return transition.NewImageUsage(app.textureImage, textureRange, textureUpload, textureSample)
		},
	)
	if err != nil {
		return err
	}
	return app.flush(cmd, release, "release")
}

func (app *TransitionDemo) flush(cmd core1_0.CommandBuffer, t *transition.Transition, step string) error {
	images, buffers := len(t.ImageBarriers()), len(t.BufferBarriers())
	srcStages, dstStages := t.SrcStageMask(), t.DstStageMask()

	recorded, err := transition.Flush(app.deviceDriver, cmd, t)
	if err != nil {
		return errors.Wrapf(err, "flush %s", step)
	}
	if !recorded {
		return errors.AssertionFailedf("%s: nothing to synchronize", step)
	}

	transition.Logger().Info("barrier recorded",
		slog.String("step", step),
		slog.Any("srcStages", srcStages),
		slog.Any("dstStages", dstStages),
		slog.Int("images", images),
		slog.Int("buffers", buffers))
	return nil
}

// copyPixels copies the top-left extent x extent square of the staging pixels
// into the texture.
func (app *TransitionDemo) copyPixels(cmd core1_0.CommandBuffer, extent int) error {
	return app.deviceDriver.CmdCopyBufferToImage(cmd, app.pixelStaging, app.textureImage, core1_0.ImageLayoutTransferDstOptimal,
		core1_0.BufferImageCopy{
			BufferOffset:      0,
			BufferRowLength:   textureSize,
			BufferImageHeight: textureSize,

			ImageSubresource: core1_0.ImageSubresourceLayers{
				AspectMask:     core1_0.ImageAspectColor,
				MipLevel:       0,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
			ImageOffset: core1_0.Offset3D{X: 0, Y: 0, Z: 0},
			ImageExtent: core1_0.Extent3D{Width: extent, Height: extent, Depth: 1},
		},
	)
}

// submitOnce records fn into a one-time command buffer, submits it and waits
// for the queue to go idle. The command buffer is freed on every path.
func (app *TransitionDemo) submitOnce(fn func(cmd core1_0.CommandBuffer) error) error {
	cmd, err := app.beginSingleTimeCommands()
	if err != nil {
		return err
	}
	defer app.deviceDriver.FreeCommandBuffers(cmd)

	if err = fn(cmd); err != nil {
		return err
	}
	return app.endSingleTimeCommands(cmd)
}

func (app *TransitionDemo) beginSingleTimeCommands() (core1_0.CommandBuffer, error) {
	buffers, _, err := app.deviceDriver.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        app.commandPool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	})
	if err != nil {
		return core1_0.CommandBuffer{}, errors.Wrap(err, "allocate command buffer")
	}

	buffer := buffers[0]
	_, err = app.deviceDriver.BeginCommandBuffer(buffer, core1_0.CommandBufferBeginInfo{
		Flags: core1_0.CommandBufferUsageOneTimeSubmit,
	})
	if err != nil {
		app.deviceDriver.FreeCommandBuffers(buffer)
		return core1_0.CommandBuffer{}, errors.Wrap(err, "begin command buffer")
	}
	return buffer, nil
}

func (app *TransitionDemo) endSingleTimeCommands(buffer core1_0.CommandBuffer) error {
	_, err := app.deviceDriver.EndCommandBuffer(buffer)
	if err != nil {
		return err
	}

	_, err = app.deviceDriver.QueueSubmit(app.graphicsQueue, nil,
		core1_0.SubmitInfo{
			CommandBuffers: []core1_0.CommandBuffer{buffer},
		},
	)
	if err != nil {
		return err
	}

	_, err = app.deviceDriver.QueueWaitIdle(app.graphicsQueue)
	return err
}
