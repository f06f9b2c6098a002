package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"time"

	"github.com/arxplans/planscan/pkg/config"
	"github.com/arxplans/planscan/pkg/geometric"
	"github.com/arxplans/planscan/pkg/marker"
	"github.com/arxplans/planscan/pkg/ocrprefilter"
	"github.com/arxplans/planscan/pkg/pipeline"
	"go.uber.org/zap"
)

const version = "0.1.0"

// CLI flags
var (
	configPath = flag.String("config", "", "Path to YAML configuration file (required)")
	imagePath  = flag.String("image", "", "Path to a single rendered page image (required)")
	outputDir  = flag.String("output", ".", "Output directory for the result JSON")
	format     = flag.String("format", "json", "Result format: json")
	sheetsFlag = flag.String("valid-sheets", "", "Comma-separated list of valid sheet identifiers")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
	versionF   = flag.Bool("version", false, "Print version and exit")
	help       = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("plancli version %s\n", version)
		os.Exit(0)
	}
	if *help {
		printHelp()
		os.Exit(0)
	}

	if *configPath == "" || *imagePath == "" {
		fmt.Fprintln(os.Stderr, "Error: -config and -image flags are required")
		printUsage()
		os.Exit(1)
	}

	validFormats := map[string]bool{"json": true}
	if !validFormats[*format] {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q, must be: json\n", *format)
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	if *verbose {
		fmt.Printf("Loading configuration from %s\n", *configPath)
	}
	cfg, err := config.LoadYAML(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := zap.NewNop()
	if *verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
	}
	defer logger.Sync() //nolint:errcheck

	if *verbose {
		fmt.Printf("Loading image from %s\n", *imagePath)
	}
	page, err := loadImage(*imagePath)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}

	pc := marker.NewProjectContext(splitNonEmpty(*sheetsFlag), nil)

	ocrEngine := newOCREngine()

	p := &pipeline.Pipeline{
		OCREngine:         ocrEngine,
		LLMClient:         nil, // one-shot local runs do not call the LLM by default
		TileSize:          cfg.TileSizePx,
		TileOverlap:       cfg.TileOverlap,
		Stage2BatchSize:   cfg.Stage2BatchSize,
		Stage2Concurrency: cfg.Stage2Concurrency,
		Logger:            logger,
	}

	start := time.Now()
	if *verbose {
		fmt.Println("Running detection pipeline...")
	}

	b := page.Bounds()
	result, err := p.Run(ctx, page, float64(b.Dy()), pc, geometric.Config{DPI: 150})
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}

	elapsed := time.Since(start)
	if *verbose {
		fmt.Printf("Completed in %v: %d stage1 candidates, %d stage2 validated\n",
			elapsed, result.Stage1Candidates, result.Stage2Validated)
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	return writeResult(result, *outputDir, *format)
}

func loadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

func newOCREngine() ocrprefilter.Engine {
	return ocrprefilter.NewSerializedEngine(ocrprefilter.NewTesseractEngine())
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

func writeResult(result pipeline.Result, outputDir, format string) error {
	switch format {
	case "json":
		filename := outputDir + "/markers.json"
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
		fmt.Printf("Wrote %s\n", filename)
		return nil
	default:
		return fmt.Errorf("unsupported format %q for plancli output", format)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage: plancli -config <config.yaml> -image <page.png> [options]")
	fmt.Fprintln(os.Stderr, "\nRun 'plancli -help' for detailed help")
}

func printHelp() {
	fmt.Printf("plancli version %s\n\n", version)
	fmt.Println("A command-line tool for detecting callout markers in a single rendered drawing page.")
	fmt.Println("\nUsage:")
	fmt.Println("  plancli -config <config.yaml> -image <page.png> [options]")
	fmt.Println("\nRequired Flags:")
	fmt.Println("  -config string")
	fmt.Println("        Path to YAML configuration file")
	fmt.Println("  -image string")
	fmt.Println("        Path to a single rendered page image")
	fmt.Println("\nOptional Flags:")
	fmt.Println("  -output string")
	fmt.Println("        Output directory for the result JSON (default: current directory)")
	fmt.Println("  -format string")
	fmt.Println("        Result format: json (default: json)")
	fmt.Println("  -valid-sheets string")
	fmt.Println("        Comma-separated list of valid sheet identifiers")
	fmt.Println("  -verbose")
	fmt.Println("        Enable verbose output")
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
}
