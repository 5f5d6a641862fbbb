// Command transitiondemo uploads a vertex buffer and a texture on a headless
// Vulkan device, synchronizing every step with merged transitions.
package main

import (
	"log"
	"log/slog"
	"os"
	"runtime"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/transition"
)

func main() {
	runtime.LockOSThread()

	opts, err := ProcessCommandLineArgs(os.Args[1:])
	if errors.Is(err, errHelp) {
		printUsage(os.Stdout)
		return
	} else if err != nil {
		printUsage(os.Stderr)
		log.Fatalf("%+v\n", err)
	}

	if opts.DumpTable {
		if err := dumpTable(os.Stdout); err != nil {
			log.Fatalf("%+v\n", err)
		}
		return
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	transition.SetLogger(logger)

	app := &TransitionDemo{
		enableValidation: opts.Validation,
		logger:           logger,
	}

	err = app.Run()
	if err != nil {
		log.Fatalf("%+v\n", err)
	}
}
