package api

import (
	"archive/tar"
	"context"
	"encoding/base64"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/arxplans/planscan/pkg/geometric"
	"github.com/arxplans/planscan/pkg/marker"
	"github.com/arxplans/planscan/pkg/pipelineerr"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// tileDownloadTimeout bounds a tile_urls fetch (spec.md §5 "defaults: tile
// download 60 s").
const tileDownloadTimeout = 60 * time.Second

// tileOffsetPattern extracts a tile's page offset from its filename, e.g.
// "page1_x4096_y2048.png". A filename without this convention is treated as
// an unoffset (single-tile) request.
var tileOffsetPattern = regexp.MustCompile(`_x(\d+)_y(\d+)`)

func parseTileOffset(filename string) (x, y int) {
	m := tileOffsetPattern.FindStringSubmatch(filename)
	if m == nil {
		return 0, 0
	}
	x, _ = strconv.Atoi(m[1])
	y, _ = strconv.Atoi(m[2])
	return x, y
}

// newTile builds a marker.Tile from a caller-supplied identifier (filename,
// URL, or tar entry name), preserving it as the Tile ID so the response's
// source_tile field can be traced back to the request. An empty identifier
// gets a generated one.
func newTile(id string, img image.Image) marker.Tile {
	x, y := parseTileOffset(id)
	if id == "" {
		id = uuid.NewString()
	}
	return marker.Tile{ID: id, Image: img, OffsetX: x, OffsetY: y}
}

// detectMarkers handles POST /api/detect-markers across its three ingestion
// paths (spec.md §6): JSON base64 tiles, JSON tile_urls, or a tar stream.
// X-Valid-Sheets and X-Strict-Filtering override the JSON body when present.
func (s *Server) detectMarkers(c *gin.Context) {
	if !s.ready.IsReady() {
		respondError(c, s.logger, pipelineerr.Resource(true, "detector models are still loading"))
		return
	}

	ctx := c.Request.Context()
	contentType := c.ContentType()

	var tiles []marker.Tile
	var validSheets []string
	strictFiltering := false
	var err error

	switch {
	case contentType == "application/x-tar":
		tiles, err = tilesFromTar(c.Request.Body)
	default:
		tiles, validSheets, strictFiltering, err = s.tilesFromJSON(ctx, c)
	}
	if err != nil {
		respondError(c, s.logger, err)
		return
	}

	if hdr := c.GetHeader("X-Valid-Sheets"); hdr != "" {
		validSheets = splitCSV(hdr)
	}
	if hdr := c.GetHeader("X-Strict-Filtering"); hdr != "" {
		strictFiltering = strings.EqualFold(hdr, "true")
	}

	if len(tiles) == 0 {
		respondError(c, s.logger, pipelineerr.Input("detect-markers: no tiles supplied"))
		return
	}

	pc := marker.NewProjectContext(validSheets, nil)
	detectorCfg := geometric.Config{DPI: s.renderDPI, StrictFiltering: strictFiltering}

	pageHeight := tallestTileExtent(tiles)

	start := time.Now()
	result, err := s.pipeline.RunTiles(ctx, tiles, pageHeight, pc, detectorCfg)
	if err != nil {
		respondError(c, s.logger, err)
		return
	}
	elapsed := time.Since(start)

	stage1CandidatesTotal.Add(float64(result.Stage1Candidates))
	stage2ValidatedTotal.Add(float64(result.Stage2Validated))

	markers := make([]wireMarker, 0, len(result.Markers))
	for _, m := range result.Markers {
		markers = append(markers, toWireMarker(m))
	}

	c.JSON(http.StatusOK, detectResponse{
		Markers:          markers,
		Stage1Candidates: result.Stage1Candidates,
		Stage2Validated:  result.Stage2Validated,
		ProcessingTimeMS: float64(elapsed.Microseconds()) / 1000.0,
	})
}

func (s *Server) tilesFromJSON(ctx context.Context, c *gin.Context) ([]marker.Tile, []string, bool, error) {
	var req detectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, nil, false, pipelineerr.Input("detect-markers: malformed JSON body: %v", err)
	}

	switch {
	case len(req.Tiles) > 0:
		tiles := make([]marker.Tile, 0, len(req.Tiles))
		for _, wt := range req.Tiles {
			img, err := decodeBase64Image(wt.Data)
			if err != nil {
				return nil, nil, false, pipelineerr.Input("detect-markers: tile %q: %v", wt.Filename, err)
			}
			tiles = append(tiles, newTile(wt.Filename, img))
		}
		return tiles, req.ValidSheets, req.StrictFiltering, nil

	case len(req.TileURLs) > 0:
		tiles, err := s.tilesFromURLs(ctx, req.TileURLs)
		if err != nil {
			return nil, nil, false, err
		}
		return tiles, req.ValidSheets, req.StrictFiltering, nil

	default:
		return nil, nil, false, pipelineerr.Input("detect-markers: neither tiles nor tile_urls supplied")
	}
}

func (s *Server) tilesFromURLs(ctx context.Context, urls []string) ([]marker.Tile, error) {
	tiles := make([]marker.Tile, 0, len(urls))
	for _, u := range urls {
		dctx, cancel := context.WithTimeout(ctx, tileDownloadTimeout)
		img, err := downloadImage(dctx, s.httpClient, u)
		cancel()
		if err != nil {
			return nil, pipelineerr.Input("detect-markers: fetching tile %q: %v", u, err)
		}
		tiles = append(tiles, newTile(u, img))
	}
	return tiles, nil
}

func downloadImage(ctx context.Context, client *http.Client, url string) (image.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, pipelineerr.Input("tile download returned status %d", resp.StatusCode)
	}
	img, _, err := image.Decode(resp.Body)
	return img, err
}

func decodeBase64Image(data string) (image.Image, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(strings.NewReader(string(raw)))
	return img, err
}

func tilesFromTar(r io.Reader) ([]marker.Tile, error) {
	tr := tar.NewReader(r)
	var tiles []marker.Tile
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, pipelineerr.Input("detect-markers: malformed tar stream: %v", err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		img, _, err := image.Decode(tr)
		if err != nil {
			return nil, pipelineerr.Input("detect-markers: tar entry %q: %v", hdr.Name, err)
		}
		tiles = append(tiles, newTile(hdr.Name, img))
	}
	return tiles, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// tallestTileExtent returns the page height implied by the supplied tiles,
// for the Aggregator's overlap-dedup radius (spec.md §4.E). Tiles submitted
// without the offset convention are assumed to span a single page.
func tallestTileExtent(tiles []marker.Tile) float64 {
	max := 0
	for _, t := range tiles {
		b := t.Image.Bounds()
		if h := t.OffsetY + b.Dy(); h > max {
			max = h
		}
	}
	if max == 0 {
		return 1
	}
	return float64(max)
}
