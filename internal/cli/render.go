package cli

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/rcd/pkg/errors"
	rcdio "github.com/matzehuels/rcd/pkg/io"
	"github.com/matzehuels/rcd/pkg/pipeline"
	"github.com/matzehuels/rcd/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	formats string
	output  string
	truth   string
}

// renderCommand creates the render command, which draws a skeleton or DAG
// document as DOT or SVG.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{}

	cmd := &cobra.Command{
		Use:   "render <graph.json>",
		Short: "Render a skeleton or DAG file to DOT or SVG",
		Long: `Render a skeleton (output of learn) or a DAG (output of generate).

With --truth, skeleton edges absent from the true DAG are drawn red and
missed edges are drawn dashed.`,
		Example: `  rcd render data.skeleton.json
  rcd render data.skeleton.json --truth graph.json -f dot,svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.formats, "format", "f", "svg", "output formats: dot, svg (comma-separated)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path without extension")
	cmd.Flags().StringVar(&opts.truth, "truth", "", "true DAG (JSON) to compare a skeleton against")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	doc, err := rcdio.ImportDocument(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidGraph, err, "read %s", input)
	}
	formats := parseFormats(opts.formats)
	for _, f := range formats {
		if f != pipeline.FormatDOT && f != pipeline.FormatSVG {
			return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: dot, svg)", f)
		}
	}
	if len(formats) == 0 {
		formats = []string{pipeline.FormatSVG}
	}

	ropts := render.Options{Names: doc.Names}
	if opts.truth != "" {
		truth, _, err := pipeline.LoadTruth(opts.truth)
		if err != nil {
			return err
		}
		if truth.NodeCount() != doc.N() {
			return errors.New(errors.ErrCodeInvalidGraph, "truth has %d variables, %s has %d", truth.NodeCount(), input, doc.N())
		}
		ropts.Truth = truth.Skeleton()
	}

	var dot string
	if doc.DAG != nil {
		dot = render.DAGDOT(doc.DAG, ropts)
	} else {
		dot = render.SkeletonDOT(doc.Skeleton, ropts)
	}

	artifacts := make(map[string][]byte, len(formats))
	for _, f := range formats {
		switch f {
		case pipeline.FormatDOT:
			artifacts[f] = []byte(dot)
		case pipeline.FormatSVG:
			svg, err := render.RenderSVG(ctx, dot)
			if err != nil {
				return err
			}
			artifacts[f] = svg
		}
	}

	base := opts.output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}
	paths, err := writeArtifacts(base, artifacts)
	if err != nil {
		return err
	}

	c.out.success("Rendered %s with %d variables", doc.Kind, doc.N())
	for _, p := range paths {
		c.out.file(p)
	}
	return nil
}
