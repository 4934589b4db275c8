// Command svdagc is the reference CLI front-end for the svdag engine,
// matching the original C++ tool's contract: <input_mesh_path>
// <output_svdag_path> <depth>, exit 0 on success, 1 on any failure, with
// progress on stdout and diagnostics on stderr (spec.md §6.3).
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/zzenonn/svdag"
	"github.com/zzenonn/svdag/objscene"
)

func main() {
	logger := golog.NewLogger("svdagc")

	app := &cli.App{
		Name:      "svdagc",
		Usage:     "voxelize a triangle mesh into a Sparse Voxel DAG",
		ArgsUsage: "<input_mesh_path> <output_svdag_path> <depth>",
		Action: func(c *cli.Context) error {
			return run(c.Context, logger, c.Args().Slice())
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Errorw("svdagc failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger golog.Logger, args []string) error {
	if len(args) != 3 {
		return errors.Errorf("usage: svdagc <input_mesh_path> <output_svdag_path> <depth>")
	}
	inputPath, outputPath, depthArg := args[0], args[1], args[2]

	depth, err := strconv.Atoi(depthArg)
	if err != nil {
		return errors.Wrapf(err, "invalid depth %q", depthArg)
	}

	logger.Infof("loading mesh from %s", inputPath)
	scene, err := objscene.Load(inputPath)
	if err != nil {
		return err
	}

	min, max := scene.Bounds()
	center := min.Add(max).Mul(0.5)
	halfEdge := 0.0
	for _, d := range []float64{max.X - min.X, max.Y - min.Y, max.Z - min.Z} {
		if d/2 > halfEdge {
			halfEdge = d / 2
		}
	}
	if halfEdge == 0 {
		return errors.Errorf("mesh has a degenerate (zero-size) bounding box")
	}
	cube := svdag.Cube{Center: center, HalfEdge: halfEdge}

	start := time.Now()
	lastReport := time.Now()
	progress := func(completed uint64) {
		if time.Since(lastReport) > 500*time.Millisecond {
			fmt.Fprintf(os.Stdout, "voxelized %d leaves...\n", completed)
			lastReport = time.Now()
		}
	}

	pool, err := svdag.BuildTriangles(ctx, depth, cube, scene, progress)
	if err != nil {
		return err
	}
	pool = svdag.Compress(pool)
	logger.Infof("built %d-node DAG in %s", pool.Size(), time.Since(start))

	if err := pool.Save(outputPath); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "wrote %s (%d nodes)\n", outputPath, pool.Size())
	return nil
}
