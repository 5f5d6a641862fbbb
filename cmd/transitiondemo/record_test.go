package main

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
)

// commandDevice counts the command buffer lifecycle calls submitOnce makes.
// Every other driver method panics.
type commandDevice struct {
	core1_0.CoreDeviceDriver

	beginErr  error
	submitErr error

	allocated, freed, ended, submitted int
}

func (d *commandDevice) AllocateCommandBuffers(o core1_0.CommandBufferAllocateInfo) ([]core1_0.CommandBuffer, common.VkResult, error) {
	d.allocated += o.CommandBufferCount
	return make([]core1_0.CommandBuffer, o.CommandBufferCount), core1_0.VKSuccess, nil
}

func (d *commandDevice) BeginCommandBuffer(core1_0.CommandBuffer, core1_0.CommandBufferBeginInfo) (common.VkResult, error) {
	return core1_0.VKSuccess, d.beginErr
}

func (d *commandDevice) EndCommandBuffer(core1_0.CommandBuffer) (common.VkResult, error) {
	d.ended++
	return core1_0.VKSuccess, nil
}

func (d *commandDevice) QueueSubmit(core1_0.Queue, *core1_0.Fence, ...core1_0.SubmitInfo) (common.VkResult, error) {
	if d.submitErr != nil {
		return core1_0.VKSuccess, d.submitErr
	}
	d.submitted++
	return core1_0.VKSuccess, nil
}

func (d *commandDevice) QueueWaitIdle(core1_0.Queue) (common.VkResult, error) {
	return core1_0.VKSuccess, nil
}

func (d *commandDevice) FreeCommandBuffers(buffers ...core1_0.CommandBuffer) {
	d.freed += len(buffers)
}

func TestSubmitOnce(t *testing.T) {
	errRecord := errors.New("record failed")
	errBegin := errors.New("begin failed")
	errSubmit := errors.New("submit failed")

	cases := []struct {
		name      string
		device    *commandDevice
		recordErr error
		wantErr   error
		ended     int
		submitted int
	}{
		{name: "Success", device: &commandDevice{}, ended: 1, submitted: 1},
		{name: "RecordError", device: &commandDevice{}, recordErr: errRecord, wantErr: errRecord},
		{name: "BeginError", device: &commandDevice{beginErr: errBegin}, wantErr: errBegin},
		{name: "SubmitError", device: &commandDevice{submitErr: errSubmit}, wantErr: errSubmit, ended: 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			app := &TransitionDemo{deviceDriver: c.device}
			recorded := 0

			err := app.submitOnce(func(core1_0.CommandBuffer) error {
				recorded++
				return c.recordErr
			})
			if c.wantErr == nil && err != nil {
				t.Fatalf("submitOnce:\nhave %v\nwant nil", err)
			}
			if c.wantErr != nil && !errors.Is(err, c.wantErr) {
				t.Fatalf("submitOnce:\nhave %v\nwant %v", err, c.wantErr)
			}
			if c.device.freed != c.device.allocated || c.device.allocated != 1 {
				t.Errorf("command buffers:\nhave %d allocated, %d freed\nwant 1 allocated, 1 freed",
					c.device.allocated, c.device.freed)
			}
			if c.device.ended != c.ended || c.device.submitted != c.submitted {
				t.Errorf("end/submit:\nhave (%d, %d)\nwant (%d, %d)", c.device.ended, c.device.submitted, c.ended, c.submitted)
			}
			if c.device.beginErr != nil && recorded != 0 {
				t.Errorf("recorded into a command buffer that failed to begin")
			}
		})
	}
}
