package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ironsheep/page-autocrop/internal/autocrop"
	"github.com/ironsheep/page-autocrop/internal/batch"
	"github.com/ironsheep/page-autocrop/internal/log"
	"github.com/ironsheep/page-autocrop/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log.SetLevel(os.Getenv(log.EnvLevel))

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("page-autocrop %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp(os.Stdout)
			return
		case "crop":
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			code := runCrop(ctx, os.Args[2:], os.Stdout, os.Stderr)
			stop()
			os.Exit(code)
		}
	}

	log.Debugf("page-autocrop %s (built %s, commit %s)", Version, BuildTime, GitCommit)

	srv := server.New()
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "page-autocrop - remove uniform borders from page images")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  page-autocrop                       Serve MCP over stdin/stdout")
	fmt.Fprintln(w, "  page-autocrop crop [flags] paths... Crop image files and directories")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --version, -v    Print version information")
	fmt.Fprintln(w, "  --help, -h       Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintf(w, "  %s=debug    Log level (debug, info, warn, error)\n", log.EnvLevel)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'page-autocrop crop -h' for the crop flags.")
}

// runCrop implements the crop subcommand and returns the process exit code:
// 0 on success, 1 if any file failed, 2 on usage errors.
func runCrop(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("crop", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg := autocrop.DefaultConfig()
	var (
		outputDir string
		overwrite bool
		workers   int
	)
	fs.StringVar(&outputDir, "output-dir", "", "Output directory for cropped images")
	fs.BoolVar(&overwrite, "overwrite", false, "Write cropped images next to the originals, replacing them where the name matches")
	fs.IntVar(&workers, "workers", 0, "Number of concurrent workers (default: number of CPUs)")
	fs.IntVar(&cfg.ScanSteps, "scan-steps", cfg.ScanSteps, "Sample positions per edge")
	fs.IntVar(&cfg.PixelCount, "pixel-count", cfg.PixelCount, "Pixels sampled inward at each position")
	fs.Float64Var(&cfg.FilledRatioLimit, "filled-ratio", cfg.FilledRatioLimit, "Fraction of a line that must differ from the background")
	fs.Float64Var(&cfg.SimilarityThreshold, "similarity", cfg.SimilarityThreshold, "Colour similarity threshold in [0,1]")
	fs.IntVar(&cfg.Margin, "margin", cfg.Margin, "Pixels kept around the content")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: page-autocrop crop [flags] image_files_or_dirs...")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	paths := fs.Args()
	if len(paths) == 0 {
		fs.Usage()
		return 2
	}
	if outputDir == "" && !overwrite {
		fmt.Fprintln(stderr, "one of -output-dir or -overwrite is required")
		return 2
	}
	if outputDir != "" && overwrite {
		fmt.Fprintln(stderr, "-output-dir and -overwrite are mutually exclusive")
		return 2
	}

	runner, err := batch.NewRunner(cfg, workers)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	runner.Overwrite = overwrite

	jobs, err := batch.PlanPaths(paths, outputDir)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	tracker, err := runner.Run(ctx, jobs)
	if err != nil && tracker == nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	for _, j := range tracker.Jobs() {
		switch j.Status {
		case batch.Complete:
			w, h := j.Result.OutputSize()
			note := "cropped"
			if !j.Result.Cropped {
				note = "unchanged"
			}
			fmt.Fprintf(stdout, "%s -> %s (%dx%d, %s)\n", j.Input, j.Output, w, h, note)
		case batch.Failed:
			fmt.Fprintf(stderr, "%s: %s\n", j.Input, j.Error)
		case batch.Skipped:
			fmt.Fprintf(stderr, "%s: skipped\n", j.Input)
		}
	}

	p := tracker.Progress()
	if err != nil || p.Failed > 0 || p.Skipped > 0 {
		return 1
	}
	return 0
}
