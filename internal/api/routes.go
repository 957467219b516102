package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/beatcut/beatcut-agent/internal/catalog"
	"github.com/beatcut/beatcut-agent/internal/config"
)

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/health", healthHandler(cfg))
	r.Get("/status", statusHandler(cfg))

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Repository, cfg.Logger))

		r.Get("/assets", listAssetsHandler(cfg))
		r.Get("/assets/{id}/cuts", assetCutsHandler(cfg))
		r.Get("/pool", poolHandler(cfg))
		r.Post("/catalog/import", importHandler(cfg))
		r.Get("/jobs", listJobsHandler(cfg))
		r.Get("/jobs/{id}", getJobHandler(cfg))
		r.Post("/plan", planHandler(cfg))
		r.Post("/export/edl", exportEDLHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:   "ok",
			Version:  config.Version,
			UptimeS:  uptime,
			DeviceID: cfg.DeviceID,
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		assetsCount, _ := cfg.CatalogService.CountAssets(ctx)
		clipsCount, _ := cfg.CatalogService.CountPoolClips(ctx)
		jobs, _ := cfg.Repository.ListJobs(ctx, 10)

		state := "idle"
		var activeJob *JobResponse
		jobsRunning := 0
		lastError := ""

		if cfg.Runner != nil && cfg.Runner.IsPaused() {
			state = "paused"
		}

		for _, j := range jobs {
			if j.Status == catalog.JobStatusRunning {
				state = "importing"
				resp := JobToResponse(j)
				activeJob = &resp
				jobsRunning++
			}
			if j.Status == catalog.JobStatusFailed && lastError == "" {
				lastError = j.Error
			}
		}

		if lastError != "" && state == "idle" {
			state = "error"
		}

		WriteJSON(w, http.StatusOK, StatusResponse{
			State:       state,
			LastError:   lastError,
			AssetsCount: assetsCount,
			ClipsCount:  clipsCount,
			JobsRunning: jobsRunning,
			ActiveJob:   activeJob,
			TargetFPS:   cfg.TargetFPS,
		})
	}
}

func listAssetsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assets, err := cfg.CatalogService.Assets(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list assets", "INTERNAL_ERROR")
			return
		}

		resp := AssetsResponse{Assets: make([]AssetResponse, len(assets))}
		for i, a := range assets {
			resp.Assets[i] = AssetToResponse(a)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func assetCutsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			WriteError(w, http.StatusBadRequest, "asset id required", "BAD_REQUEST")
			return
		}

		asset, err := cfg.CatalogService.Asset(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if asset == nil {
			WriteError(w, http.StatusNotFound, "asset not found", "NOT_FOUND")
			return
		}

		cutTimes, err := cfg.CatalogService.Cuts(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusOK, CutsResponse{AssetID: id, Cuts: cutTimes})
	}
}

func poolHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clips, err := cfg.Repository.ListPoolClips(r.Context())
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		WriteJSON(w, http.StatusOK, PoolResponse{Clips: clips, Count: len(clips)})
	}
}

func importHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ImportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if req.Path == "" {
			WriteError(w, http.StatusBadRequest, "path is required", "BAD_REQUEST")
			return
		}

		job, err := cfg.CatalogService.ImportFolder(r.Context(), req.Path)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		WriteJSON(w, http.StatusAccepted, ImportResponse{JobID: job.ID})
	}
}

func listJobsHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobs, err := cfg.Repository.ListJobs(r.Context(), 50)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}

		resp := JobsResponse{Jobs: make([]JobResponse, len(jobs))}
		for i, j := range jobs {
			resp.Jobs[i] = JobToResponse(j)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func getJobHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		job, err := cfg.Repository.GetJob(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if job == nil {
			WriteError(w, http.StatusNotFound, "job not found", "NOT_FOUND")
			return
		}
		WriteJSON(w, http.StatusOK, JobToResponse(job))
	}
}
