package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/roadlab/lanescan/internal/capture"
	"github.com/roadlab/lanescan/internal/config"
	"github.com/roadlab/lanescan/internal/logger"
	"github.com/roadlab/lanescan/internal/runner"
	"github.com/roadlab/lanescan/internal/sink"
	"github.com/roadlab/lanescan/internal/vision"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var defaults = vision.DefaultConfig()

var (
	flagInput    = flag.String("input", "", "image file or frame directory to process")
	flagWatch    = flag.Bool("watch", false, "follow -input directory for new frames")
	flagProfile  = flag.String("profile", config.ProfileReal, "camera profile: "+strings.Join(config.Profiles(), ", "))
	flagView     = flag.String("view", vision.ViewOverlay, "stage to show: "+strings.Join(vision.ViewNames(), ", "))
	flagSink     = flag.String("sink", "ansi", "output: ansi, http, files, discard")
	flagAddr     = flag.String("addr", ":8089", "listen address for the http sink")
	flagOut      = flag.String("out", "frames", "directory for the files sink")
	flagMaxWidth = flag.Int("max-width", 0, "downscale frames wider than this, 0 keeps original size")

	flagBlur      = flag.Int("blur", defaults.BlurKernel, "gaussian kernel size, odd")
	flagEdgeLow   = flag.Int("edge-low", defaults.EdgeLow, "weak edge threshold")
	flagEdgeHigh  = flag.Int("edge-high", defaults.EdgeHigh, "strong edge threshold")
	flagThreshold = flag.Int("hough-threshold", defaults.Hough.Threshold, "votes needed to accept a line")
	flagMinLen    = flag.Int("min-line-length", defaults.Hough.MinLineLength, "discard segments shorter than this")
	flagMaxGap    = flag.Int("max-line-gap", defaults.Hough.MaxLineGap, "bridge edge gaps up to this many pixels")
	flagRho       = flag.Float64("rho", defaults.Hough.RhoRes, "distance resolution in pixels")
	flagThetaDeg  = flag.Float64("theta-deg", 1, "angle resolution in degrees")

	flagColor         = flag.String("line-color", config.DefaultLineColorHex, "stroke color as #rrggbb")
	flagSegThickness  = flag.Int("segment-thickness", defaults.SegmentStyle.Thickness, "segment stroke width")
	flagLaneThickness = flag.Int("lane-thickness", defaults.LaneStyle.Thickness, "lane stroke width")

	flagLogLevel = flag.String("log-level", "", "trace, debug, info, warn or error (default $LANESCAN_LOG_LEVEL or info)")
)

func main() {
	// Handle --version and --help before flag parsing
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("lanescan %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			usage()
			return
		}
	}

	flag.Usage = usage
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}
	flag.Parse()

	level := *flagLogLevel
	if level == "" {
		level = os.Getenv("LANESCAN_LOG_LEVEL")
	}
	if level == "" {
		level = "info"
	}
	if err := logger.SetLevel(level); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	log := logger.Entry(ctx)
	log.WithField("version", Version).Debug("starting")

	cfg, err := buildConfig()
	if err != nil {
		log.WithError(err).Fatal("configure pipeline")
	}
	pipe, err := vision.NewPipeline(cfg)
	if err != nil {
		log.WithError(err).Fatal("configure pipeline")
	}

	src, err := openSource()
	if err != nil {
		log.WithError(err).Fatal("open frame source")
	}
	defer src.Close()

	snk, httpSink, err := openSink()
	if err != nil {
		log.WithError(err).Fatal("open frame sink")
	}
	defer snk.Close()

	g, ctx := errgroup.WithContext(ctx)
	if httpSink != nil {
		log.WithField("addr", *flagAddr).Info("frame stream listening")
		g.Go(func() error {
			return httpSink.Serve(ctx)
		})
	}

	run := &runner.Runner{Source: src, Pipeline: pipe, Sink: snk, View: *flagView}
	g.Go(func() error {
		// The stream ending also stops the http server and key scanner.
		defer cancel()
		return run.Run(ctx)
	})

	go scanKeys(ctx, cancel)

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("lanescan")
	}
}

// buildConfig resolves the profile and applies flag overrides on top.
func buildConfig() (vision.Config, error) {
	cfg, err := config.ForProfile(*flagProfile)
	if err != nil {
		return vision.Config{}, err
	}

	cfg.BlurKernel = *flagBlur
	cfg.EdgeLow = *flagEdgeLow
	cfg.EdgeHigh = *flagEdgeHigh
	cfg.Hough.Threshold = *flagThreshold
	cfg.Hough.MinLineLength = *flagMinLen
	cfg.Hough.MaxLineGap = *flagMaxGap
	cfg.Hough.RhoRes = *flagRho
	cfg.Hough.ThetaRes = *flagThetaDeg * math.Pi / 180

	c, err := config.ParseHexColor(*flagColor)
	if err != nil {
		return vision.Config{}, err
	}
	cfg.SegmentStyle = vision.LineStyle{Color: c, Thickness: *flagSegThickness}
	cfg.LaneStyle = vision.LineStyle{Color: c, Thickness: *flagLaneThickness}
	return cfg, nil
}

func openSource() (capture.Source, error) {
	if *flagInput == "" {
		return nil, errors.New("-input is required, see -help")
	}
	info, err := os.Stat(*flagInput)
	if err != nil {
		return nil, errors.Wrap(err, "stat input")
	}
	switch {
	case info.IsDir() && *flagWatch:
		return capture.OpenWatcher(*flagInput, *flagMaxWidth)
	case info.IsDir():
		return capture.OpenDir(*flagInput, *flagMaxWidth)
	case *flagWatch:
		return nil, errors.Errorf("-watch needs a directory, %s is a file", *flagInput)
	default:
		return capture.OpenFile(*flagInput, *flagMaxWidth)
	}
}

// openSink builds the selected sink. The http sink is returned a second
// time so main can start its server loop.
func openSink() (sink.Sink, *sink.HTTP, error) {
	switch *flagSink {
	case "ansi":
		return sink.NewANSI(), nil, nil
	case "http":
		h := sink.NewHTTP(*flagAddr)
		return h, h, nil
	case "files":
		f, err := sink.NewFiles(*flagOut)
		if err != nil {
			return nil, nil, err
		}
		return f, nil, nil
	case "discard":
		return sink.Discard{}, nil, nil
	default:
		return nil, nil, errors.Errorf("unknown sink %q (choose from ansi, http, files, discard)", *flagSink)
	}
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintln(out, "lanescan - lane detection for dashcam footage")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Usage: lanescan -input <file|directory> [options]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Options:")
	flag.PrintDefaults()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Environment variables:")
	fmt.Fprintln(out, "  LANESCAN_LOG_LEVEL=debug    Enable debug logging")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Keys:")
	fmt.Fprintln(out, "  q    quit")
	fmt.Fprintln(out, "  ?    list keys")
}
