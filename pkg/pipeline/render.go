package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/rcd/pkg/graph"
	rcdio "github.com/matzehuels/rcd/pkg/io"
	"github.com/matzehuels/rcd/pkg/render"
)

// Render encodes g in the requested formats. No caching.
func Render(ctx context.Context, g *graph.Graph, opts Options) (map[string][]byte, error) {
	names := opts.VarNames()
	dotOpts := render.Options{Names: names}
	if opts.Truth != nil {
		dotOpts.Truth = opts.Truth.Skeleton()
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string
	for _, format := range opts.Formats {
		var raw []byte
		var err error

		switch format {
		case FormatJSON:
			raw, err = rcdio.MarshalSkeleton(g, names)
		case FormatDOT:
			if dot == "" {
				dot = render.SkeletonDOT(g, dotOpts)
			}
			raw = []byte(dot)
		case FormatSVG:
			if dot == "" {
				dot = render.SkeletonDOT(g, dotOpts)
			}
			raw, err = render.RenderSVG(ctx, dot)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = raw
	}
	return artifacts, nil
}
