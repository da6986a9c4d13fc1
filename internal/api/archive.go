package api

import (
	"net/http"
)

func handleArchiveRun(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Archiver == nil {
		writeError(r.Context(), w, http.StatusServiceUnavailable, "ARCHIVE_DISABLED", "archive is not enabled")
		return
	}

	manifest, err := deps.Archiver.Run(r.Context())
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "ARCHIVE_FAILED", err.Error())
		return
	}

	var totalRows int64
	for _, table := range manifest.Tables {
		totalRows += table.Rows
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"snapshot_id": manifest.SnapshotID,
		"created_at":  manifest.CreatedAt,
		"tables":      len(manifest.Tables),
		"rows":        totalRows,
	})
}
