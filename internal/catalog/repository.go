package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/beatcut/beatcut-agent/internal/pool"
)

type Repository interface {
	UpsertAsset(ctx context.Context, asset *Asset) error
	GetAsset(ctx context.Context, id string) (*Asset, error)
	ListAssets(ctx context.Context) ([]*Asset, error)
	CountAssets(ctx context.Context) (int, error)

	ReplaceCuts(ctx context.Context, assetID string, times []float64) error
	GetCuts(ctx context.Context, assetID string) ([]float64, error)
	ListCutAssetIDs(ctx context.Context) ([]string, error)

	UpsertPoolClip(ctx context.Context, clip pool.Clip) error
	ListPoolClips(ctx context.Context) ([]pool.Clip, error)
	CountPoolClips(ctx context.Context) (int, error)

	CreateJob(ctx context.Context, job *Job) error
	GetJob(ctx context.Context, id string) (*Job, error)
	ListJobs(ctx context.Context, limit int) ([]*Job, error)
	ListPendingJobs(ctx context.Context) ([]*Job, error)
	UpdateJobStatus(ctx context.Context, id, status, errorMsg string) error
	UpdateJobProgress(ctx context.Context, id string, progress int) error

	GetConfig(ctx context.Context, key string) (string, error)
	SetConfig(ctx context.Context, key, value string) error
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) UpsertAsset(ctx context.Context, a *Asset) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO assets (id, display_name, path, fps, duration_seconds, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			display_name = excluded.display_name,
			path = excluded.path,
			fps = excluded.fps,
			duration_seconds = excluded.duration_seconds
	`, a.ID, a.DisplayName, a.Path, a.FPS, a.DurationSeconds, a.CreatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetAsset(ctx context.Context, id string) (*Asset, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT a.id, a.display_name, a.path, a.fps, a.duration_seconds, a.created_at,
			(SELECT COUNT(*) FROM cut_times c WHERE c.asset_id = a.id)
		FROM assets a WHERE a.id = ?
	`, id)
	return scanAsset(row)
}

func scanAsset(row *sql.Row) (*Asset, error) {
	var a Asset
	var createdAt string
	err := row.Scan(&a.ID, &a.DisplayName, &a.Path, &a.FPS, &a.DurationSeconds, &createdAt, &a.CutCount)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &a, nil
}

func (r *SQLiteRepository) ListAssets(ctx context.Context) ([]*Asset, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT a.id, a.display_name, a.path, a.fps, a.duration_seconds, a.created_at,
			(SELECT COUNT(*) FROM cut_times c WHERE c.asset_id = a.id)
		FROM assets a ORDER BY a.created_at DESC, a.id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []*Asset
	for rows.Next() {
		var a Asset
		var createdAt string
		if err := rows.Scan(&a.ID, &a.DisplayName, &a.Path, &a.FPS, &a.DurationSeconds, &createdAt, &a.CutCount); err != nil {
			return nil, err
		}
		a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		assets = append(assets, &a)
	}
	return assets, rows.Err()
}

func (r *SQLiteRepository) CountAssets(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM assets").Scan(&count)
	return count, err
}

func (r *SQLiteRepository) ReplaceCuts(ctx context.Context, assetID string, times []float64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM cut_times WHERE asset_id = ?", assetID); err != nil {
		return err
	}
	for _, t := range times {
		if _, err := tx.ExecContext(ctx, "INSERT INTO cut_times (asset_id, seconds) VALUES (?, ?)", assetID, t); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) GetCuts(ctx context.Context, assetID string) ([]float64, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT seconds FROM cut_times WHERE asset_id = ? ORDER BY seconds", assetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var times []float64
	for rows.Next() {
		var t float64
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

func (r *SQLiteRepository) ListCutAssetIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT DISTINCT asset_id FROM cut_times ORDER BY asset_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SQLiteRepository) UpsertPoolClip(ctx context.Context, c pool.Clip) error {
	tags, err := json.Marshal(c.Tags)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pool_clips (id, asset_id, start_seconds, end_seconds, duration_seconds, bucket, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			asset_id = excluded.asset_id,
			start_seconds = excluded.start_seconds,
			end_seconds = excluded.end_seconds,
			duration_seconds = excluded.duration_seconds,
			bucket = excluded.bucket,
			tags = excluded.tags
	`, c.ID, c.AssetID, c.Start, c.End, c.Duration, string(c.Bucket), string(tags))
	return err
}

func (r *SQLiteRepository) ListPoolClips(ctx context.Context) ([]pool.Clip, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, asset_id, start_seconds, end_seconds, duration_seconds, bucket, tags
		FROM pool_clips ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clips []pool.Clip
	for rows.Next() {
		var c pool.Clip
		var bucket, tags string
		if err := rows.Scan(&c.ID, &c.AssetID, &c.Start, &c.End, &c.Duration, &bucket, &tags); err != nil {
			return nil, err
		}
		c.Bucket = pool.Bucket(bucket)
		if err := json.Unmarshal([]byte(tags), &c.Tags); err != nil {
			return nil, err
		}
		clips = append(clips, c)
	}
	return clips, rows.Err()
}

func (r *SQLiteRepository) CountPoolClips(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pool_clips").Scan(&count)
	return count, err
}

func (r *SQLiteRepository) CreateJob(ctx context.Context, j *Job) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO jobs (id, type, status, path, progress, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, j.ID, j.Type, j.Status, j.Path, j.Progress, j.Error,
		j.CreatedAt.Format(time.RFC3339), j.UpdatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) GetJob(ctx context.Context, id string) (*Job, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, type, status, path, progress, error, created_at, updated_at
		FROM jobs WHERE id = ?
	`, id)

	var j Job
	var createdAt, updatedAt string
	err := row.Scan(&j.ID, &j.Type, &j.Status, &j.Path, &j.Progress, &j.Error, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	j.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	j.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &j, nil
}

func (r *SQLiteRepository) ListJobs(ctx context.Context, limit int) ([]*Job, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, status, path, progress, error, created_at, updated_at
		FROM jobs ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *SQLiteRepository) ListPendingJobs(ctx context.Context) ([]*Job, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, type, status, path, progress, error, created_at, updated_at
		FROM jobs WHERE status = ? ORDER BY created_at
	`, JobStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func scanJobs(rows *sql.Rows) ([]*Job, error) {
	var jobs []*Job
	for rows.Next() {
		var j Job
		var createdAt, updatedAt string
		if err := rows.Scan(&j.ID, &j.Type, &j.Status, &j.Path, &j.Progress, &j.Error, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		j.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		j.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		jobs = append(jobs, &j)
	}
	return jobs, rows.Err()
}

func (r *SQLiteRepository) UpdateJobStatus(ctx context.Context, id, status, errorMsg string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE jobs SET status = ?, error = ?, updated_at = datetime('now') WHERE id = ?
	`, status, errorMsg, id)
	return err
}

func (r *SQLiteRepository) UpdateJobProgress(ctx context.Context, id string, progress int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE jobs SET progress = ?, updated_at = datetime('now') WHERE id = ?
	`, progress, id)
	return err
}

func (r *SQLiteRepository) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM config WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (r *SQLiteRepository) SetConfig(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO config (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}
