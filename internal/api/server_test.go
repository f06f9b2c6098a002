package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arxplans/planscan/pkg/pipelineerr"
	"github.com/arxplans/planscan/pkg/schedule"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer() *Server {
	return NewServer(Deps{
		ScheduleDetect: &schedule.Detector{},
		Logger:         zap.NewNop(),
	})
}

func TestHealth_NotReadyReturns503(t *testing.T) {
	s := newTestServer()
	r := s.NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	var body statusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("malformed body: %v", err)
	}
	if body.Status != "initializing" {
		t.Fatalf("expected status=initializing, got %q", body.Status)
	}
}

func TestHealth_ReadyReturns200(t *testing.T) {
	s := newTestServer()
	s.MarkReady()
	r := s.NewRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestDetectMarkers_NotReadyReturns503(t *testing.T) {
	s := newTestServer()
	r := s.NewRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/detect-markers", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestExtractSchedule_EmptyCellsYieldsNoTables(t *testing.T) {
	s := newTestServer()
	r := s.NewRouter()

	body, _ := json.Marshal(scheduleWireRequest{SheetID: "A1"})
	req := httptest.NewRequest(http.MethodPost, "/api/extract-schedule", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp scheduleWireResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("malformed body: %v", err)
	}
	if len(resp.Tables) != 0 {
		t.Fatalf("expected no tables for empty cell grid, got %d", len(resp.Tables))
	}
}

func TestExtractSchedule_FullGridYieldsOneTable(t *testing.T) {
	s := newTestServer()
	r := s.NewRouter()

	var cells []scheduleWireCell
	for row := 0; row < 5; row++ {
		for col := 0; col < 4; col++ {
			cells = append(cells, scheduleWireCell{Row: row, Col: col, Text: "x"})
		}
	}
	body, _ := json.Marshal(scheduleWireRequest{SheetID: "A1", Cells: cells})
	req := httptest.NewRequest(http.MethodPost, "/api/extract-schedule", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp scheduleWireResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("malformed body: %v", err)
	}
	if len(resp.Tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(resp.Tables))
	}
}

func TestRespondError_MapsKindToStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"input", pipelineerr.Input("bad request"), http.StatusBadRequest},
		{"resource", pipelineerr.Resource(true, "loading"), http.StatusServiceUnavailable},
		{"unexpected", pipelineerr.Unexpected(nil, "boom"), http.StatusInternalServerError},
		{"plain", errPlain{"unclassified"}, http.StatusInternalServerError},
	}

	gin.SetMode(gin.TestMode)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			respondError(c, zap.NewNop(), tc.err)
			if w.Code != tc.want {
				t.Fatalf("%s: expected %d, got %d", tc.name, tc.want, w.Code)
			}
		})
	}
}

type errPlain struct{ msg string }

func (e errPlain) Error() string { return e.msg }

func TestParseTileOffset(t *testing.T) {
	x, y := parseTileOffset("page1_x4096_y2048.png")
	if x != 4096 || y != 2048 {
		t.Fatalf("expected (4096,2048), got (%d,%d)", x, y)
	}
	x, y = parseTileOffset("plain.png")
	if x != 0 || y != 0 {
		t.Fatalf("expected (0,0) for no-offset filename, got (%d,%d)", x, y)
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV("A7, A8 ,,A9")
	want := []string{"A7", "A8", "A9"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
