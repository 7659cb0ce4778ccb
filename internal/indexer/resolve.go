package indexer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/inheritdoc/internal/assembler"
	"github.com/dshills/inheritdoc/pkg/types"
)

// ResolveAll expands every element with a bounded worker pool. Elements are
// independent: each task only reads the model and writes its own slot, so
// docs[i] belongs to elements[i]. Cancellation is checked between elements.
func ResolveAll(ctx context.Context, elements []*types.Element, x *assembler.Expander, workers int) ([]*assembler.ElementDoc, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	docs := make([]*assembler.ElementDoc, len(elements))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, e := range elements {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			docs[i] = x.Expand(e)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// A cancellation observed only by the loop leaves no failed task
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}
