package main

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

/* assembleParallel assembles source the same way assemble does, but
   fans pipeline stages 3-7 (block rearrangement through packing) out
   across sections, one errgroup goroutine per section, joining results
   back in original section order. The result is byte-identical to
   assemble's sequential output: every goroutine computes on its own
   Section and writes only to its own slot, so ordering never depends
   on goroutine scheduling. */
func assembleParallel(ctx context.Context, source string) (string, error) {
	frames, err := lexSource(source)
	if err != nil {
		return "", err
	}

	sections := splitSections(frames)
	rendered := make([]string, len(sections))

	g, _ := errgroup.WithContext(ctx)
	for idx, sec := range sections {
		idx, sec := idx, sec
		g.Go(func() error {
			rearrangeBlocks(sec)
			materializeLiterals(sec)
			if err := resolveSection(sec); err != nil {
				return err
			}
			recs, err := translateSection(sec, idx == 0)
			if err != nil {
				return err
			}
			rendered[idx] = packSection(recs)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}

	return strings.Join(rendered, "\n"), nil
}
