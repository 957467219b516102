package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/beatcut/beatcut-agent/internal/export"
)

func exportEDLHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req export.ExportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
			return
		}

		if req.Format != "" && req.Format != "edl" {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", req.Format), "BAD_REQUEST")
			return
		}
		if len(req.Entries) == 0 {
			WriteError(w, http.StatusBadRequest, "entries are required", "BAD_REQUEST")
			return
		}
		if err := export.ValidateOutputDir(req.OutputDir); err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		projectName := export.SanitizeName(req.ProjectName, 64)
		if projectName == "" {
			projectName = "beatcut_plan"
		}

		frameRate := req.FrameRate
		if frameRate <= 0 {
			frameRate = cfg.TargetFPS
		}

		resolved := make([]export.ResolvedEntry, 0, len(req.Entries))
		seen := map[string]bool{}
		var unresolved []string
		degraded := 0

		for _, e := range req.Entries {
			if e.Degraded {
				degraded++
			}

			asset, err := cfg.CatalogService.Asset(r.Context(), e.Asset.AssetID)
			if err != nil {
				WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
				return
			}

			re := export.ResolvedEntry{
				ClipName: e.Asset.ClipID,
				Entry:    e,
			}
			switch {
			case asset == nil:
				if !seen[e.Asset.AssetID] {
					seen[e.Asset.AssetID] = true
					unresolved = append(unresolved, e.Asset.AssetID)
				}
				re.MediaPath = e.Asset.AssetID
			default:
				re.MediaPath = asset.Path
				if asset.DisplayName != "" {
					re.ClipName = fmt.Sprintf("%s/%s", asset.DisplayName, e.Asset.ClipID)
				}
			}

			resolved = append(resolved, re)
		}

		content := export.GenerateEDL(resolved, projectName, frameRate)

		outputPath := filepath.Join(req.OutputDir, projectName+".edl")
		if err := os.WriteFile(outputPath, []byte(content), 0o644); err != nil {
			cfg.Logger.Error("failed to write EDL", "path", outputPath, "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to write EDL file", "INTERNAL_ERROR")
			return
		}

		cfg.Logger.Info("exported EDL",
			"path", outputPath,
			"entries", len(resolved),
			"unresolved", len(unresolved),
			"degraded", degraded)

		WriteJSON(w, http.StatusOK, export.ExportResponse{
			Status:          "ok",
			Format:          "edl",
			OutputPath:      outputPath,
			EntryCount:      len(resolved),
			UnresolvedIDs:   unresolved,
			DegradedEntries: degraded,
		})
	}
}
