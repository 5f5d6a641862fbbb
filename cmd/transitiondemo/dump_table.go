package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/vkngwrapper/transition/layout"
)

func dumpTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LAYOUT\tVULKAN\tKIND\tSRC STAGES\tSRC ACCESS\tDST STAGES\tDST ACCESS")

	for _, l := range layout.All() {
		e := layout.Lookup(l)
		fmt.Fprintf(tw, "%s\t%v\t%s\t%v\t%v\t%v\t%v\n",
			e.Name, e.Layout, e.Kind,
			e.SrcStageMask, e.SrcAccessMask,
			e.DstStageMask, e.DstAccessMask)
	}

	return tw.Flush()
}
