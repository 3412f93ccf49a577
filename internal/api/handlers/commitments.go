package handlers

import (
	"log"
	"net/http"
	"time"

	"visit-scheduler-service/internal/api/dto"
	"visit-scheduler-service/internal/ports"
)

// CommitmentHandler exposes read-only commitment retrieval endpoints.
type CommitmentHandler struct {
	Repo ports.CommitmentRepository
}

func (h *CommitmentHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	from := time.Now()
	to := from.AddDate(0, 0, 30)

	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "from must be RFC3339")
			return
		}
		from = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "to must be RFC3339")
			return
		}
		to = t
	}

	commitments, err := h.Repo.ListCommitments(r.Context(), from, to)
	if err != nil {
		log.Printf("list commitments failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListCommitmentsResponse{
		Commitments: make([]dto.CommitmentResponse, 0, len(commitments)),
	}
	for _, c := range commitments {
		start, end, ok := c.Interval()
		if !ok {
			continue
		}
		item := dto.CommitmentResponse{
			ID:    c.ID,
			Title: c.Title,
			Start: start,
			End:   end,
		}
		if c.Coords != nil {
			lat, lon := c.Coords.Lat, c.Coords.Lon
			item.Lat, item.Lon = &lat, &lon
		}
		res.Commitments = append(res.Commitments, item)
	}

	writeJSON(w, r, http.StatusOK, res)
}
