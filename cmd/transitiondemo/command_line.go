package main

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
)

var errHelp = errors.New("help requested")

type Options struct {
	DumpTable  bool
	Validation bool
}

func ProcessCommandLineArgs(args []string) (Options, error) {
	var opts Options

	for _, arg := range args {
		if arg == "--dump-table" {
			opts.DumpTable = true
		} else if arg == "--validation" {
			opts.Validation = true
		} else if arg == "--help" || arg == "-h" {
			return opts, errHelp
		} else {
			return opts, errors.Newf("unrecognized option: %s", arg)
		}
	}

	return opts, nil
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "\nOptions")
	fmt.Fprintln(w, "\t--dump-table")
	fmt.Fprintln(w, "\t\tPrint the image layout table and exit without opening a device")
	fmt.Fprintln(w, "\t--validation")
	fmt.Fprintln(w, "\t\tEnable VK_LAYER_KHRONOS_validation and log its messages")
}
