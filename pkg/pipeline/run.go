package pipeline

import (
	"context"
	"image"
	"runtime"
	"sync"

	"github.com/arxplans/planscan/pkg/aggregator"
	"github.com/arxplans/planscan/pkg/geometric"
	"github.com/arxplans/planscan/pkg/llmvalidate"
	"github.com/arxplans/planscan/pkg/marker"
	"github.com/arxplans/planscan/pkg/ocrprefilter"
	"github.com/arxplans/planscan/pkg/pipelineerr"
	"github.com/arxplans/planscan/pkg/tiling"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result is the full output of one page run, matching the
// POST /api/detect-markers response contract (spec.md §6).
type Result struct {
	Markers          []marker.Marker
	Stage1Candidates int
	Stage2Validated  int
}

// Pipeline holds the process-wide collaborators shared across requests
// (spec.md §5 "Shared resources"): the LLM client and OCR engine are
// process-wide and safe (or made safe) for concurrent use; the detector is
// built fresh per request since its config (DPI, strict filtering) varies
// per page.
type Pipeline struct {
	OCREngine         ocrprefilter.Engine // nil skips Stage 1.5 entirely
	LLMClient         *llmvalidate.Client
	TileSize          int
	TileOverlap       float64
	Stage2BatchSize   int
	Stage2Concurrency int
	OCROptions        func(marker.ProjectContext) ocrprefilter.Options
	Logger            *zap.Logger
}

// Run executes one full page request: tile, detect, prefilter, batch,
// validate, aggregate (spec.md §5 "Scheduling model"). Use this when the
// caller holds a single rendered page image (e.g. cmd/plancli).
func (p *Pipeline) Run(ctx context.Context, page image.Image, pageHeight float64, pc marker.ProjectContext, detectorCfg geometric.Config) (Result, error) {
	tiles, err := tilesFor(page, p.TileSize, p.TileOverlap)
	if err != nil {
		return Result{}, err
	}
	return p.RunTiles(ctx, tiles, pageHeight, pc, detectorCfg)
}

// RunTiles executes the same stages as Run but starts from an
// already-produced tile set. internal/api's /api/detect-markers endpoint
// receives tiles pre-cut by the caller (spec.md §6), so it calls this
// directly rather than re-tiling a page.
func (p *Pipeline) RunTiles(ctx context.Context, tiles []marker.Tile, pageHeight float64, pc marker.ProjectContext, detectorCfg geometric.Config) (Result, error) {
	offsets := make(map[string]aggregator.TileOffset, len(tiles))
	for i, t := range tiles {
		offsets[t.ID] = aggregator.TileOffset{TileID: t.ID, OffsetX: float64(t.OffsetX), OffsetY: float64(t.OffsetY), Order: i}
	}

	candidates, err := p.detectAll(ctx, tiles, detectorCfg)
	if err != nil {
		return Result{}, err
	}

	classifications, err := p.prefilterAll(ctx, tiles, candidates, pc)
	if err != nil {
		return Result{}, err
	}

	directMarkers, toValidate := splitByVerdict(classifications)

	stage2Markers, err := p.validateAll(ctx, tiles, toValidate, pc)
	if err != nil {
		return Result{}, err
	}

	markers := append(directMarkers, stage2Markers...)
	final := aggregator.Aggregate(markers, offsets, pageHeight)

	return Result{
		Markers:          final,
		Stage1Candidates: len(candidates),
		Stage2Validated:  len(stage2Markers),
	}, nil
}

func tilesFor(page image.Image, size int, overlap float64) ([]marker.Tile, error) {
	tiles, err := tiling.Produce(page, size, overlap)
	if err != nil {
		return nil, pipelineerr.Input("pipeline: tiling failed: %v", err)
	}
	return tiles, nil
}

// detectAll runs Stage 1 over every tile under a pool bounded to CPU count
// (spec.md §5 "bounded pool sized to CPU count").
func (p *Pipeline) detectAll(ctx context.Context, tiles []marker.Tile, cfg geometric.Config) ([]marker.Candidate, error) {
	det := geometric.NewDetector(cfg)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	var mu sync.Mutex
	var all []marker.Candidate

	for _, tile := range tiles {
		tile := tile
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			cands, err := det.Detect(tile)
			if err != nil {
				if p.Logger != nil {
					p.Logger.Warn("stage1 detect failed, skipping tile", zap.String("tile_id", tile.ID), zap.Error(err))
				}
				return nil // a bad tile is skipped, not fatal to the page
			}
			mu.Lock()
			all = append(all, cands...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return all, nil
}

type tileClassification struct {
	marker.Classification
	TileImage image.Image
}

// prefilterAll runs Stage 1.5 over every candidate under a bounded pool.
// Candidates are matched back to the tile image they came from by
// SourceTileID.
func (p *Pipeline) prefilterAll(ctx context.Context, tiles []marker.Tile, candidates []marker.Candidate, pc marker.ProjectContext) ([]tileClassification, error) {
	byID := make(map[string]marker.Tile, len(tiles))
	for _, t := range tiles {
		byID[t.ID] = t
	}

	opts := ocrprefilter.DefaultOptions(pc)
	if p.OCROptions != nil {
		opts = p.OCROptions(pc)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	var mu sync.Mutex
	results := make([]tileClassification, 0, len(candidates))

	for _, cand := range candidates {
		cand := cand
		tile, ok := byID[cand.SourceTileID]
		if !ok {
			continue
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			cls, err := ocrprefilter.Prefilter(gctx, tile.Image, cand, p.OCREngine, opts)
			if err != nil {
				return nil //nolint:nilerr
			}
			mu.Lock()
			results = append(results, tileClassification{Classification: cls, TileImage: tile.Image})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// splitByVerdict partitions Stage 1.5's output per spec.md §4.C: reject
// never reaches Stage 2; accept is resolved straight into a Marker from its
// OCR-parsed, already-sheet-validated text, with no LLM call; only
// uncertain is batched for Stage 2. This is the three-way partition's whole
// cost-reduction point — every accept or reject is one fewer LLM call.
func splitByVerdict(classifications []tileClassification) (direct []marker.Marker, toValidate []tileClassification) {
	for _, c := range classifications {
		switch c.Verdict {
		case marker.VerdictReject:
			continue
		case marker.VerdictAccept:
			if m, ok := ocrprefilter.MarkerFromAccept(c.Classification); ok {
				direct = append(direct, m)
				continue
			}
			// Stale/unparseable accept falls back to Stage 2 rather than
			// being silently dropped.
			toValidate = append(toValidate, c)
		default:
			toValidate = append(toValidate, c)
		}
	}
	return direct, toValidate
}

// validateAll batches selected candidates and runs Stage 2 under a pool
// bounded to Stage2Concurrency (spec.md §5 "default 4-8").
func (p *Pipeline) validateAll(ctx context.Context, tiles []marker.Tile, selected []tileClassification, pc marker.ProjectContext) ([]marker.Marker, error) {
	if p.LLMClient == nil || len(selected) == 0 {
		return nil, nil
	}

	items := make([]llmvalidate.CandidateImage, 0, len(selected))
	for _, c := range selected {
		crop, ok := ocrprefilter.Crop(c.TileImage, c.Candidate, 0.20)
		if !ok {
			continue
		}
		png, err := encodePNG(crop)
		if err != nil {
			continue
		}
		items = append(items, llmvalidate.CandidateImage{Candidate: c.Candidate, PNG: png})
	}

	batches := llmvalidate.Batches(items, p.Stage2BatchSize)

	g, gctx := errgroup.WithContext(ctx)
	limit := p.Stage2Concurrency
	if limit < 1 {
		limit = 4
	}
	g.SetLimit(limit)

	var mu sync.Mutex
	var all []marker.Marker

	for _, batch := range batches {
		batch := batch
		g.Go(func() error {
			raw, err := p.LLMClient.ValidateBatch(gctx, batch, pc)
			if err != nil {
				if p.Logger != nil {
					p.Logger.Warn("stage2 batch failed, dropping", zap.Error(err))
				}
				// A failed batch (timeout, hallucination, upstream error)
				// yields no markers; siblings continue (spec.md §8 scenario 6).
				return nil
			}
			markers := llmvalidate.Postprocess(raw, batch, pc)
			mu.Lock()
			all = append(all, markers...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return all, nil
}
