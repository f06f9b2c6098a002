package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the process-wide pipeline configuration from spec.md §6, plus
// the ambient process settings (listen address, external rasterizer) the
// spec's endpoint table doesn't name but any deployed facade needs.
type Config struct {
	OpenRouterAPIKey       string  `yaml:"openRouterAPIKey"`
	OpenRouterModel        string  `yaml:"openRouterModel"`
	TileSizePx             int     `yaml:"tileSizePx"`
	TileOverlap            float64 `yaml:"tileOverlap"`
	Stage2BatchSize        int     `yaml:"stage2BatchSize"`
	OCRConfidenceThreshold float64 `yaml:"ocrConfidenceThreshold"`
	Stage2Concurrency      int     `yaml:"stage2Concurrency"`
	ListenAddr             string  `yaml:"listenAddr"`
	RendererCommand        string  `yaml:"rendererCommand"`
	RenderDPI              int     `yaml:"renderDPI"`
}

// Default returns the defaults named in spec.md §6.
func Default() Config {
	return Config{
		OpenRouterModel:        "google/gemini-2.5-flash",
		TileSizePx:             2048,
		TileOverlap:            0.2,
		Stage2BatchSize:        10,
		OCRConfidenceThreshold: 0.7,
		Stage2Concurrency:      4,
		ListenAddr:             ":8080",
		RenderDPI:              150,
	}
}

// LoadEnv loads configuration from the environment, falling back to
// Default() for any variable that is unset. This is the path used by
// cmd/planserver (the HTTP facade), which is configured process-wide per
// spec.md §6 rather than per-request.
func LoadEnv() (Config, error) {
	cfg := Default()

	if v, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
		cfg.OpenRouterAPIKey = v
	}
	if v, ok := os.LookupEnv("OPENROUTER_MODEL"); ok && v != "" {
		cfg.OpenRouterModel = v
	}
	if v, ok := os.LookupEnv("TILE_SIZE_PX"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("parsing TILE_SIZE_PX: %w", err)
		}
		cfg.TileSizePx = n
	}
	if v, ok := os.LookupEnv("TILE_OVERLAP"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("parsing TILE_OVERLAP: %w", err)
		}
		cfg.TileOverlap = f
	}
	if v, ok := os.LookupEnv("STAGE2_BATCH_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("parsing STAGE2_BATCH_SIZE: %w", err)
		}
		cfg.Stage2BatchSize = n
	}
	if v, ok := os.LookupEnv("OCR_CONFIDENCE_THRESHOLD"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return cfg, fmt.Errorf("parsing OCR_CONFIDENCE_THRESHOLD: %w", err)
		}
		cfg.OCRConfidenceThreshold = f
	}
	if v, ok := os.LookupEnv("STAGE2_CONCURRENCY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("parsing STAGE2_CONCURRENCY: %w", err)
		}
		cfg.Stage2Concurrency = n
	}
	if v, ok := os.LookupEnv("LISTEN_ADDR"); ok && v != "" {
		cfg.ListenAddr = v
	}
	if v, ok := os.LookupEnv("RENDERER_COMMAND"); ok {
		cfg.RendererCommand = v
	}
	if v, ok := os.LookupEnv("RENDER_DPI"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("parsing RENDER_DPI: %w", err)
		}
		cfg.RenderDPI = n
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// LoadYAML reads and validates a YAML configuration file, the path used by
// cmd/plancli for one-shot local runs.
func LoadYAML(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks all configuration constraints, returning the first
// failure found.
func (c Config) Validate() error {
	if c.TileSizePx < 256 {
		return fmt.Errorf("tileSizePx must be >= 256, got %d", c.TileSizePx)
	}
	if c.TileOverlap < 0 || c.TileOverlap >= 1 {
		return fmt.Errorf("tileOverlap must be in [0,1), got %f", c.TileOverlap)
	}
	if c.Stage2BatchSize < 1 {
		return fmt.Errorf("stage2BatchSize must be >= 1, got %d", c.Stage2BatchSize)
	}
	if c.OCRConfidenceThreshold < 0 || c.OCRConfidenceThreshold > 1 {
		return fmt.Errorf("ocrConfidenceThreshold must be in [0,1], got %f", c.OCRConfidenceThreshold)
	}
	if c.Stage2Concurrency < 1 {
		return fmt.Errorf("stage2Concurrency must be >= 1, got %d", c.Stage2Concurrency)
	}
	return nil
}
