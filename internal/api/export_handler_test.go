package api

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beatcut/beatcut-agent/internal/catalog"
	exportpkg "github.com/beatcut/beatcut-agent/internal/export"
	"github.com/beatcut/beatcut-agent/internal/schedule"
)

func exportTestEntries() []schedule.Entry {
	return []schedule.Entry{
		{
			Index:      0,
			StartFrame: 0,
			EndFrame:   75,
			FrameCount: 75,
			Asset:      schedule.AssetRef{AssetID: "a1", ClipID: "a1-clip", Start: 1.0, End: 3.5},
		},
		{
			Index:      1,
			StartFrame: 75,
			EndFrame:   150,
			FrameCount: 75,
			Asset:      schedule.AssetRef{AssetID: "a2", ClipID: "a2-clip", Start: 0.0, End: 2.5},
			Degraded:   true,
		},
	}
}

func TestExportEDL_HappyPath(t *testing.T) {
	outDir := t.TempDir()
	svc := &fakeService{
		assets: []*catalog.Asset{
			{ID: "a1", DisplayName: "concert", Path: "/media/concert.mp4"},
			{ID: "a2", DisplayName: "crowd", Path: "/media/crowd.mp4"},
		},
	}
	cfg := testServerConfig(svc)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/export/edl", jsonBody(t, exportpkg.ExportRequest{
		ProjectName: "Launch Teaser",
		Format:      "edl",
		FrameRate:   30,
		OutputDir:   outDir,
		Entries:     exportTestEntries(),
	}))

	exportEDLHandler(cfg).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	body := decodeJSONBody(t, rr)
	outputPath, _ := body["output_path"].(string)
	if outputPath == "" {
		t.Fatal("output_path missing from response")
	}
	if filepath.Dir(outputPath) != outDir {
		t.Fatalf("output written to %q, want dir %q", outputPath, outDir)
	}

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read EDL: %v", err)
	}
	text := string(content)

	if !strings.Contains(text, "TITLE: Launch Teaser") {
		t.Fatal("EDL missing title")
	}
	if !strings.Contains(text, "/media/concert.mp4") {
		t.Fatal("EDL missing resolved media path")
	}
	if !strings.Contains(text, "DEGRADED ASSIGNMENT") {
		t.Fatal("EDL missing degraded comment")
	}
	if got := body["degraded_entries"].(float64); got != 1 {
		t.Fatalf("degraded_entries = %v, want 1", got)
	}
}

func TestExportEDL_UnresolvedAssets(t *testing.T) {
	outDir := t.TempDir()
	cfg := testServerConfig(&fakeService{})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/export/edl", jsonBody(t, exportpkg.ExportRequest{
		ProjectName: "Missing Media",
		FrameRate:   30,
		OutputDir:   outDir,
		Entries:     exportTestEntries(),
	}))

	exportEDLHandler(cfg).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rr.Code, rr.Body.String())
	}

	body := decodeJSONBody(t, rr)
	unresolved, ok := body["unresolved_ids"].([]interface{})
	if !ok || len(unresolved) != 2 {
		t.Fatalf("unresolved_ids = %v, want two entries", body["unresolved_ids"])
	}
}

func TestExportEDL_RejectsUnknownFormat(t *testing.T) {
	cfg := testServerConfig(&fakeService{})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/export/edl", jsonBody(t, exportpkg.ExportRequest{
		Format:    "xml",
		OutputDir: t.TempDir(),
		Entries:   exportTestEntries(),
	}))

	exportEDLHandler(cfg).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestExportEDL_RejectsMissingOutputDir(t *testing.T) {
	cfg := testServerConfig(&fakeService{})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/export/edl", jsonBody(t, exportpkg.ExportRequest{
		Format:    "edl",
		OutputDir: filepath.Join(t.TempDir(), "nope"),
		Entries:   exportTestEntries(),
	}))

	exportEDLHandler(cfg).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestExportEDL_RejectsEmptyEntries(t *testing.T) {
	cfg := testServerConfig(&fakeService{})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/export/edl", jsonBody(t, exportpkg.ExportRequest{
		Format:    "edl",
		OutputDir: t.TempDir(),
	}))

	exportEDLHandler(cfg).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
