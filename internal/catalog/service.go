package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/beatcut/beatcut-agent/internal/cuts"
	"github.com/beatcut/beatcut-agent/internal/pool"
)

type CatalogService interface {
	ImportFolder(ctx context.Context, path string) (*Job, error)
	ExecuteImport(ctx context.Context, jobID, path string) error
	Assets(ctx context.Context) ([]*Asset, error)
	Asset(ctx context.Context, id string) (*Asset, error)
	Cuts(ctx context.Context, assetID string) ([]float64, error)
	CountAssets(ctx context.Context) (int, error)
	CountPoolClips(ctx context.Context) (int, error)
	BuildCutIndex(ctx context.Context) (*cuts.Index, error)
	BuildPool(ctx context.Context) (*pool.Pool, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// ImportFolder queues an import job for a folder of catalog documents
// (*.cuts.json and *.pool.json).
func (s *Service) ImportFolder(ctx context.Context, path string) (*Job, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory")
	}

	now := time.Now()
	job := &Job{
		ID:        NewID(),
		Type:      JobTypeImport,
		Status:    JobStatusPending,
		Path:      absPath,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("import job created", "job_id", job.ID, "path", absPath)
	}
	return job, nil
}

// ExecuteImport walks the folder and loads every catalog document it finds.
// Individual document failures are logged and skipped; the job fails only
// when the walk itself does.
func (s *Service) ExecuteImport(ctx context.Context, jobID, path string) error {
	s.repo.UpdateJobStatus(ctx, jobID, JobStatusRunning, "")

	var docs []string
	err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if !d.IsDir() && (IsCutsDocument(d.Name()) || IsPoolDocument(d.Name())) {
			docs = append(docs, p)
		}
		return nil
	})
	if err != nil {
		s.repo.UpdateJobStatus(ctx, jobID, JobStatusFailed, err.Error())
		return err
	}

	total := len(docs)
	if s.logger != nil {
		s.logger.Info("found catalog documents", "count", total)
	}

	for i, docPath := range docs {
		select {
		case <-ctx.Done():
			s.repo.UpdateJobStatus(ctx, jobID, JobStatusFailed, "cancelled")
			return ctx.Err()
		default:
		}

		if err := s.importDocument(ctx, docPath); err != nil {
			if s.logger != nil {
				s.logger.Warn("failed to import document", "path", docPath, "error", err)
			}
		}

		progress := 0
		if total > 0 {
			progress = (i + 1) * 100 / total
		}
		s.repo.UpdateJobProgress(ctx, jobID, progress)
	}

	s.repo.UpdateJobStatus(ctx, jobID, JobStatusCompleted, "")
	if s.logger != nil {
		s.logger.Info("import completed", "job_id", jobID, "documents", total)
	}
	return nil
}

func (s *Service) importDocument(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	switch {
	case IsCutsDocument(path):
		return s.importCuts(ctx, path, data)
	case IsPoolDocument(path):
		return s.importPool(ctx, data)
	default:
		return fmt.Errorf("unrecognized catalog document %s", path)
	}
}

func (s *Service) importCuts(ctx context.Context, path string, data []byte) error {
	var cat cuts.Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return fmt.Errorf("decoding cut catalog: %w", err)
	}
	if cat.AssetID == "" {
		return fmt.Errorf("cut catalog has no asset_id")
	}

	asset := &Asset{
		ID:          cat.AssetID,
		DisplayName: strings.TrimSuffix(filepath.Base(path), cutsSuffix),
		FPS:         cat.FPS,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.UpsertAsset(ctx, asset); err != nil {
		return err
	}

	times := cat.Times()
	if err := s.repo.ReplaceCuts(ctx, cat.AssetID, times); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.Info("cut catalog imported", "asset_id", cat.AssetID, "cuts", len(times))
	}
	return nil
}

func (s *Service) importPool(ctx context.Context, data []byte) error {
	var doc pool.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding pool catalog: %w", err)
	}

	// Validate and normalize (derived durations, buckets) through the pool
	// constructor before anything touches the database.
	p, err := pool.FromDocument(doc)
	if err != nil {
		return fmt.Errorf("invalid pool catalog: %w", err)
	}

	for _, clip := range p.Clips() {
		if err := s.repo.UpsertPoolClip(ctx, clip); err != nil {
			return err
		}
	}

	if s.logger != nil {
		s.logger.Info("pool catalog imported", "clips", p.Len())
	}
	return nil
}

func (s *Service) Assets(ctx context.Context) ([]*Asset, error) {
	return s.repo.ListAssets(ctx)
}

func (s *Service) Asset(ctx context.Context, id string) (*Asset, error) {
	return s.repo.GetAsset(ctx, id)
}

func (s *Service) Cuts(ctx context.Context, assetID string) ([]float64, error) {
	return s.repo.GetCuts(ctx, assetID)
}

func (s *Service) CountAssets(ctx context.Context) (int, error) {
	return s.repo.CountAssets(ctx)
}

func (s *Service) CountPoolClips(ctx context.Context) (int, error) {
	return s.repo.CountPoolClips(ctx)
}

// BuildCutIndex materializes the stored cut catalogs into the engine's
// read-only index.
func (s *Service) BuildCutIndex(ctx context.Context) (*cuts.Index, error) {
	ids, err := s.repo.ListCutAssetIDs(ctx)
	if err != nil {
		return nil, err
	}

	index := cuts.NewIndex()
	for _, id := range ids {
		times, err := s.repo.GetCuts(ctx, id)
		if err != nil {
			return nil, err
		}
		index.LoadTimes(id, times)
	}
	return index, nil
}

// BuildPool materializes the stored clips into the engine's read-only pool.
func (s *Service) BuildPool(ctx context.Context) (*pool.Pool, error) {
	clips, err := s.repo.ListPoolClips(ctx)
	if err != nil {
		return nil, err
	}
	return pool.New(clips)
}
