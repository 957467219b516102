package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/beatcut/beatcut-agent/internal/catalog"
	"github.com/beatcut/beatcut-agent/internal/logging"
	"github.com/beatcut/beatcut-agent/internal/pool"
	"github.com/beatcut/beatcut-agent/internal/schedule"
	"github.com/beatcut/beatcut-agent/internal/timeline"
)

const (
	PlanModeRelaxed = "relaxed"
	PlanModeUnique  = "unique"
)

func planHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PlanRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if req.Mode != PlanModeRelaxed && req.Mode != PlanModeUnique {
			WriteError(w, http.StatusBadRequest, "mode must be \"relaxed\" or \"unique\"", "BAD_REQUEST")
			return
		}

		if req.Grid.TargetFPS == 0 {
			req.Grid.TargetFPS = cfg.TargetFPS
		}

		frameBuffer := cfg.Profile.FrameBuffer
		if req.FrameBuffer != nil {
			frameBuffer = *req.FrameBuffer
		}
		if frameBuffer < 0 {
			WriteError(w, http.StatusBadRequest, "frame_buffer must not be negative", "BAD_REQUEST")
			return
		}

		segments, err := timeline.SegmentsWithBuffer(req.Grid, frameBuffer)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		clock, err := timeline.NewClock(req.Grid.TargetFPS)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		clipPool, err := cfg.CatalogService.BuildPool(r.Context())
		if err != nil {
			if errors.Is(err, pool.ErrEmptyPool) {
				WriteError(w, http.StatusBadRequest, "clip pool is empty, import a catalog first", "EMPTY_POOL")
				return
			}
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		cutIndex, err := cfg.CatalogService.BuildCutIndex(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		runID := catalog.NewID()
		logger := logging.WithRunID(cfg.Logger, runID)

		opts := schedule.Options{
			Seed:           req.Seed,
			EnforceUnique:  cfg.Profile.EnforceUnique,
			CutBuffer:      cfg.Profile.CutBufferSeconds,
			PreferEarliest: cfg.Profile.PreferEarliest,
		}
		if req.EnforceUnique != nil {
			opts.EnforceUnique = *req.EnforceUnique
		}
		if req.CutBuffer != nil {
			opts.CutBuffer = *req.CutBuffer
		}
		if req.PreferEarliest != nil {
			opts.PreferEarliest = *req.PreferEarliest
		}

		scheduler := schedule.New(clipPool, cutIndex, clock, logger)

		var assignments []schedule.Assignment
		switch req.Mode {
		case PlanModeUnique:
			assignments, err = scheduler.ScheduleUnique(segments, opts)
		default:
			assignments, err = scheduler.Schedule(segments, opts)
		}
		if err != nil {
			var poolErr *schedule.InsufficientPoolError
			if errors.As(err, &poolErr) {
				WriteError(w, http.StatusUnprocessableEntity, poolErr.Error(), "INSUFFICIENT_POOL")
				return
			}
			logger.Error("scheduling run failed", "error", err)
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		entries, err := schedule.BuildPlan(segments, assignments)
		if err != nil {
			logger.Error("plan assembly failed", "error", err)
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		degraded := 0
		for _, e := range entries {
			if e.Degraded {
				degraded++
			}
		}

		totalFrames := 0
		if n := len(segments); n > 0 {
			totalFrames = segments[n-1].EndFrame
		}

		logger.Info("scheduling run complete",
			"mode", req.Mode,
			"segments", len(segments),
			"degraded", degraded)

		WriteJSON(w, http.StatusOK, PlanResponse{
			RunID:         runID,
			Seed:          req.Seed,
			Mode:          req.Mode,
			TargetFPS:     req.Grid.TargetFPS,
			TotalFrames:   totalFrames,
			SegmentCount:  len(segments),
			DegradedCount: degraded,
			Entries:       entries,
		})
	}
}
