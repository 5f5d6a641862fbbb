package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/transition"
	"github.com/vkngwrapper/transition/layout"
)

func TestProcessCommandLineArgs(t *testing.T) {
	opts, err := ProcessCommandLineArgs(nil)
	if err != nil || opts != (Options{}) {
		t.Errorf("no args:\nhave (%+v, %v)\nwant zero options", opts, err)
	}

	opts, err = ProcessCommandLineArgs([]string{"--validation", "--dump-table"})
	if err != nil || !opts.Validation || !opts.DumpTable {
		t.Errorf("all flags:\nhave (%+v, %v)", opts, err)
	}

	for _, help := range []string{"--help", "-h"} {
		if _, err = ProcessCommandLineArgs([]string{help}); !errors.Is(err, errHelp) {
			t.Errorf("%s:\nhave %v\nwant errHelp", help, err)
		}
	}

	if _, err = ProcessCommandLineArgs([]string{"--save-images"}); err == nil || errors.Is(err, errHelp) {
		t.Errorf("unknown flag:\nhave %v\nwant an unrecognized option error", err)
	}
}

func TestDumpTable(t *testing.T) {
	var buf bytes.Buffer
	if err := dumpTable(&buf); err != nil {
		t.Fatalf("dumpTable:\nhave %v\nwant nil", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != int(layout.Count)+1 {
		t.Fatalf("dumpTable lines:\nhave %d\nwant %d", len(lines), int(layout.Count)+1)
	}
	for i, l := range layout.All() {
		if !strings.HasPrefix(lines[i+1], l.String()) {
			t.Errorf("line %d:\nhave %q\nwant prefix %q", i+1, lines[i+1], l.String())
		}
	}
}

func TestBuildMerged(t *testing.T) {
	rng := core1_0.ImageSubresourceRange{AspectMask: core1_0.ImageAspectColor, LevelCount: 1, LayerCount: 1}

	merged, err := buildMerged(
		func() (*transition.Transition, error) {
			return transition.NewImageUsage(core1_0.Image{}, rng, textureUpload, textureSample)
		},
		func() (*transition.Transition, error) {
			return transition.NewBufferUsage(core1_0.Buffer{}, vertexUpload, vertexFetch), nil
		},
	)
	if err != nil {
		t.Fatalf("buildMerged:\nhave %v\nwant nil", err)
	}
	if len(merged.ImageBarriers()) != 1 || len(merged.BufferBarriers()) != 1 {
		t.Errorf("buildMerged:\nhave %d image, %d buffer\nwant 1 image, 1 buffer",
			len(merged.ImageBarriers()), len(merged.BufferBarriers()))
	}
	want := core1_0.PipelineStageFragmentShader | core1_0.PipelineStageVertexInput
	if merged.DstStageMask() != want {
		t.Errorf("DstStageMask():\nhave %d\nwant %d", merged.DstStageMask(), want)
	}

	_, err = buildMerged(
		func() (*transition.Transition, error) {
			return transition.NewImageUsage(core1_0.Image{}, rng, textureSample, textureSample)
		},
	)
	if !errors.Is(err, transition.ErrInvalidTransition) {
		t.Errorf("buildMerged(read, read):\nhave %v\nwant ErrInvalidTransition", err)
	}
}

func TestCheckerboard(t *testing.T) {
	pixels := checkerboard(4, 2)
	if len(pixels) != 4*4*4 {
		t.Fatalf("len:\nhave %d\nwant %d", len(pixels), 4*4*4)
	}
	if pixels[0] != 0xe0 || pixels[2*4] != 0x20 {
		t.Errorf("cells: have %#x %#x, want 0xe0 0x20", pixels[0], pixels[2*4])
	}
}
