package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/beatcut/beatcut-agent/internal/db"
)

func setupTestDB(t *testing.T) (*db.DB, Repository) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	database, err := db.New(dbPath, nil)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	repo := NewRepository(database.Conn())
	return database, repo
}

func writeDoc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestService_ImportFolder(t *testing.T) {
	_, repo := setupTestDB(t)
	svc := NewService(repo, nil)

	dir := t.TempDir()
	job, err := svc.ImportFolder(context.Background(), dir)
	if err != nil {
		t.Fatalf("ImportFolder() error = %v", err)
	}
	if job.ID == "" || job.Type != JobTypeImport || job.Status != JobStatusPending {
		t.Fatalf("unexpected job: %+v", job)
	}
	if job.Path != dir {
		t.Errorf("job.Path = %s, want %s", job.Path, dir)
	}
}

func TestService_ImportFolder_InvalidPath(t *testing.T) {
	_, repo := setupTestDB(t)
	svc := NewService(repo, nil)

	if _, err := svc.ImportFolder(context.Background(), "/nonexistent/path"); err == nil {
		t.Error("ImportFolder() should return error for nonexistent path")
	}
}

func TestService_ExecuteImport(t *testing.T) {
	_, repo := setupTestDB(t)
	svc := NewService(repo, nil)
	ctx := context.Background()

	dir := t.TempDir()
	writeDoc(t, dir, "footage-a.cuts.json", `{
		"asset_id": "asset-a",
		"fps": 30,
		"cuts": [1.5, {"frame_seconds": 3.0, "frame_index": 90}, 0.5]
	}`)
	writeDoc(t, dir, "library.pool.json", `{
		"clips": [
			{"id": "clip-1", "asset_id": "asset-a", "start": 0, "end": 4.0},
			{"id": "clip-2", "asset_id": "asset-b", "start": 10, "end": 30, "tags": ["dialogue"]}
		]
	}`)
	writeDoc(t, dir, "notes.txt", "ignored")

	job, err := svc.ImportFolder(ctx, dir)
	if err != nil {
		t.Fatalf("ImportFolder() error = %v", err)
	}
	if err := svc.ExecuteImport(ctx, job.ID, dir); err != nil {
		t.Fatalf("ExecuteImport() error = %v", err)
	}

	done, err := repo.GetJob(ctx, job.ID)
	if err != nil {
		t.Fatalf("GetJob() error = %v", err)
	}
	if done.Status != JobStatusCompleted || done.Progress != 100 {
		t.Fatalf("job after import = %+v, want completed at 100%%", done)
	}

	cutTimes, err := svc.Cuts(ctx, "asset-a")
	if err != nil {
		t.Fatalf("Cuts() error = %v", err)
	}
	want := []float64{0.5, 1.5, 3.0}
	if len(cutTimes) != len(want) {
		t.Fatalf("cuts = %v, want %v", cutTimes, want)
	}
	for i := range want {
		if cutTimes[i] != want[i] {
			t.Fatalf("cuts = %v, want %v", cutTimes, want)
		}
	}

	count, err := svc.CountPoolClips(ctx)
	if err != nil {
		t.Fatalf("CountPoolClips() error = %v", err)
	}
	if count != 2 {
		t.Fatalf("pool clip count = %d, want 2", count)
	}
}

func TestService_BuildEngineInputs(t *testing.T) {
	_, repo := setupTestDB(t)
	svc := NewService(repo, nil)
	ctx := context.Background()

	dir := t.TempDir()
	writeDoc(t, dir, "a.cuts.json", `{"asset_id": "asset-a", "fps": 30, "cuts": [2.0]}`)
	writeDoc(t, dir, "p.pool.json", `{"clips": [{"id": "c1", "asset_id": "asset-a", "start": 0, "end": 5}]}`)

	job, _ := svc.ImportFolder(ctx, dir)
	if err := svc.ExecuteImport(ctx, job.ID, dir); err != nil {
		t.Fatalf("ExecuteImport() error = %v", err)
	}

	index, err := svc.BuildCutIndex(ctx)
	if err != nil {
		t.Fatalf("BuildCutIndex() error = %v", err)
	}
	if !index.Has("asset-a") {
		t.Error("index missing asset-a")
	}
	if got := index.CutsInRange("asset-a", 0, 5); len(got) != 1 || got[0] != 2.0 {
		t.Errorf("cuts in range = %v, want [2]", got)
	}

	p, err := svc.BuildPool(ctx)
	if err != nil {
		t.Fatalf("BuildPool() error = %v", err)
	}
	if p.Len() != 1 {
		t.Errorf("pool size = %d, want 1", p.Len())
	}
}

func TestService_ImportReplacesCuts(t *testing.T) {
	_, repo := setupTestDB(t)
	svc := NewService(repo, nil)
	ctx := context.Background()

	dir := t.TempDir()
	path := writeDoc(t, dir, "a.cuts.json", `{"asset_id": "asset-a", "fps": 30, "cuts": [1.0, 2.0]}`)

	job, _ := svc.ImportFolder(ctx, dir)
	if err := svc.ExecuteImport(ctx, job.ID, dir); err != nil {
		t.Fatalf("first import: %v", err)
	}

	writeDoc(t, dir, filepath.Base(path), `{"asset_id": "asset-a", "fps": 30, "cuts": [5.0]}`)
	job2, _ := svc.ImportFolder(ctx, dir)
	if err := svc.ExecuteImport(ctx, job2.ID, dir); err != nil {
		t.Fatalf("second import: %v", err)
	}

	cutTimes, err := svc.Cuts(ctx, "asset-a")
	if err != nil {
		t.Fatalf("Cuts() error = %v", err)
	}
	if len(cutTimes) != 1 || cutTimes[0] != 5.0 {
		t.Fatalf("cuts = %v, want [5]", cutTimes)
	}
}
