package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/beatcut/beatcut-agent/internal/catalog"
	"github.com/beatcut/beatcut-agent/internal/config"
	"github.com/beatcut/beatcut-agent/internal/cuts"
	"github.com/beatcut/beatcut-agent/internal/pool"
)

func TestHealthHandler(t *testing.T) {
	cfg := testServerConfig(&fakeService{})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	healthHandler(cfg).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}

	body := decodeJSONBody(t, rr)
	if body["status"] != "ok" {
		t.Fatalf("status = %v, want ok", body["status"])
	}
	if body["device_id"] != "test-device" {
		t.Fatalf("device_id = %v, want test-device", body["device_id"])
	}
	if uptime, ok := body["uptime_s"].(float64); !ok || uptime < 10 {
		t.Fatalf("uptime_s = %v, want >= 10", body["uptime_s"])
	}
}

func TestStatusHandler_Idle(t *testing.T) {
	svc := &fakeService{assetCount: 3, clipCount: 12}
	cfg := testServerConfig(svc)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)

	statusHandler(cfg).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}

	body := decodeJSONBody(t, rr)
	if body["state"] != "idle" {
		t.Fatalf("state = %v, want idle", body["state"])
	}
	if got := body["assets_count"].(float64); got != 3 {
		t.Fatalf("assets_count = %v, want 3", got)
	}
	if got := body["clips_count"].(float64); got != 12 {
		t.Fatalf("clips_count = %v, want 12", got)
	}
	if _, ok := body["active_job"]; ok {
		t.Fatal("active_job should be omitted when no job is running")
	}
}

func TestStatusHandler_RunningJob(t *testing.T) {
	cfg := testServerConfig(&fakeService{})
	cfg.Repository = &fakeRepo{
		jobs: []*catalog.Job{
			{ID: "job-1", Type: catalog.JobTypeImport, Status: catalog.JobStatusRunning, Progress: 40},
		},
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)

	statusHandler(cfg).ServeHTTP(rr, req)

	body := decodeJSONBody(t, rr)
	if body["state"] != "importing" {
		t.Fatalf("state = %v, want importing", body["state"])
	}
	active, ok := body["active_job"].(map[string]interface{})
	if !ok {
		t.Fatal("active_job missing from response")
	}
	if active["id"] != "job-1" {
		t.Fatalf("active_job.id = %v, want job-1", active["id"])
	}
}

func TestStatusHandler_FailedJobSurfacesError(t *testing.T) {
	cfg := testServerConfig(&fakeService{})
	cfg.Repository = &fakeRepo{
		jobs: []*catalog.Job{
			{ID: "job-1", Type: catalog.JobTypeImport, Status: catalog.JobStatusFailed, Error: "folder vanished"},
		},
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/status", nil)

	statusHandler(cfg).ServeHTTP(rr, req)

	body := decodeJSONBody(t, rr)
	if body["state"] != "error" {
		t.Fatalf("state = %v, want error", body["state"])
	}
	if body["last_error"] != "folder vanished" {
		t.Fatalf("last_error = %v, want folder vanished", body["last_error"])
	}
}

func TestListAssetsHandler(t *testing.T) {
	svc := &fakeService{
		assets: []*catalog.Asset{
			{ID: "a1", DisplayName: "concert", FPS: 30, DurationSeconds: 120, CutCount: 8},
		},
	}
	cfg := testServerConfig(svc)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/assets", nil)

	listAssetsHandler(cfg).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp AssetsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Assets) != 1 {
		t.Fatalf("len(assets) = %d, want 1", len(resp.Assets))
	}
	if resp.Assets[0].ID != "a1" || resp.Assets[0].CutCount != 8 {
		t.Fatalf("unexpected asset: %+v", resp.Assets[0])
	}
}

func TestPoolHandler(t *testing.T) {
	cfg := testServerConfig(&fakeService{})
	cfg.Repository = &fakeRepo{
		poolClips: []pool.Clip{
			{ID: "c1", AssetID: "a1", Start: 0, End: 4.5, Duration: 4.5, Bucket: pool.BucketMedium},
			{ID: "c2", AssetID: "a1", Start: 10, End: 12, Duration: 2, Bucket: pool.BucketShort},
		},
	}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/pool", nil)

	poolHandler(cfg).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}

	var resp PoolResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Count != 2 || len(resp.Clips) != 2 {
		t.Fatalf("count = %d, clips = %d, want 2 each", resp.Count, len(resp.Clips))
	}
	if resp.Clips[0].Bucket != pool.BucketMedium {
		t.Fatalf("bucket = %q, want %q", resp.Clips[0].Bucket, pool.BucketMedium)
	}
}

func TestImportHandler_MissingPath(t *testing.T) {
	cfg := testServerConfig(&fakeService{})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/catalog/import", jsonBody(t, ImportRequest{}))

	importHandler(cfg).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestImportHandler_QueuesJob(t *testing.T) {
	svc := &fakeService{
		importJob: &catalog.Job{ID: "job-7", Type: catalog.JobTypeImport, Status: catalog.JobStatusPending},
	}
	cfg := testServerConfig(svc)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/catalog/import", jsonBody(t, ImportRequest{Path: "/media/catalog"}))

	importHandler(cfg).ServeHTTP(rr, req)

	if rr.Code != http.StatusAccepted {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusAccepted)
	}
	body := decodeJSONBody(t, rr)
	if body["job_id"] != "job-7" {
		t.Fatalf("job_id = %v, want job-7", body["job_id"])
	}
}

func testServerConfig(svc *fakeService) ServerConfig {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return ServerConfig{
		TargetFPS:      30.0,
		Profile:        config.DefaultProfile(),
		CatalogService: svc,
		Repository:     &fakeRepo{},
		Logger:         logger,
		StartTime:      time.Now().Add(-10 * time.Second),
		DeviceID:       "test-device",
	}
}

func decodeJSONBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}

	return body
}

type fakeService struct {
	assets     []*catalog.Asset
	cutTimes   map[string][]float64
	poolClips  []pool.Clip
	assetCount int
	clipCount  int
	importJob  *catalog.Job
	importErr  error
}

func (f *fakeService) ImportFolder(ctx context.Context, path string) (*catalog.Job, error) {
	if f.importErr != nil {
		return nil, f.importErr
	}
	return f.importJob, nil
}

func (f *fakeService) ExecuteImport(ctx context.Context, jobID, path string) error {
	return nil
}

func (f *fakeService) Assets(ctx context.Context) ([]*catalog.Asset, error) {
	return f.assets, nil
}

func (f *fakeService) Asset(ctx context.Context, id string) (*catalog.Asset, error) {
	for _, a := range f.assets {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeService) Cuts(ctx context.Context, assetID string) ([]float64, error) {
	return f.cutTimes[assetID], nil
}

func (f *fakeService) CountAssets(ctx context.Context) (int, error) {
	return f.assetCount, nil
}

func (f *fakeService) CountPoolClips(ctx context.Context) (int, error) {
	return f.clipCount, nil
}

func (f *fakeService) BuildCutIndex(ctx context.Context) (*cuts.Index, error) {
	idx := cuts.NewIndex()
	for id, times := range f.cutTimes {
		idx.LoadTimes(id, times)
	}
	return idx, nil
}

func (f *fakeService) BuildPool(ctx context.Context) (*pool.Pool, error) {
	return pool.New(f.poolClips)
}

type fakeRepo struct {
	jobs      []*catalog.Job
	poolClips []pool.Clip
	config    map[string]string
}

func (f *fakeRepo) UpsertAsset(ctx context.Context, asset *catalog.Asset) error { return nil }

func (f *fakeRepo) GetAsset(ctx context.Context, id string) (*catalog.Asset, error) {
	return nil, nil
}

func (f *fakeRepo) ListAssets(ctx context.Context) ([]*catalog.Asset, error) {
	return []*catalog.Asset{}, nil
}

func (f *fakeRepo) CountAssets(ctx context.Context) (int, error) { return 0, nil }

func (f *fakeRepo) ReplaceCuts(ctx context.Context, assetID string, times []float64) error {
	return nil
}

func (f *fakeRepo) GetCuts(ctx context.Context, assetID string) ([]float64, error) {
	return nil, nil
}

func (f *fakeRepo) ListCutAssetIDs(ctx context.Context) ([]string, error) {
	return []string{}, nil
}

func (f *fakeRepo) UpsertPoolClip(ctx context.Context, clip pool.Clip) error { return nil }

func (f *fakeRepo) ListPoolClips(ctx context.Context) ([]pool.Clip, error) {
	return f.poolClips, nil
}

func (f *fakeRepo) CountPoolClips(ctx context.Context) (int, error) { return 0, nil }

func (f *fakeRepo) CreateJob(ctx context.Context, job *catalog.Job) error { return nil }

func (f *fakeRepo) GetJob(ctx context.Context, id string) (*catalog.Job, error) {
	for _, j := range f.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) ListJobs(ctx context.Context, limit int) ([]*catalog.Job, error) {
	return f.jobs, nil
}

func (f *fakeRepo) ListPendingJobs(ctx context.Context) ([]*catalog.Job, error) {
	return []*catalog.Job{}, nil
}

func (f *fakeRepo) UpdateJobStatus(ctx context.Context, id, status, errorMsg string) error {
	return nil
}

func (f *fakeRepo) UpdateJobProgress(ctx context.Context, id string, progress int) error {
	return nil
}

func (f *fakeRepo) GetConfig(ctx context.Context, key string) (string, error) {
	return f.config[key], nil
}

func (f *fakeRepo) SetConfig(ctx context.Context, key, value string) error {
	if f.config == nil {
		f.config = map[string]string{}
	}
	f.config[key] = value
	return nil
}
