package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"visit-scheduler-service/internal/api/dto"
	"visit-scheduler-service/internal/domain"
	"visit-scheduler-service/internal/ports"
	"visit-scheduler-service/internal/services"
)

const (
	defaultWindowDays = 7
	maxWindowDays     = 60
	maxVisitMinutes   = 12 * 60
)

type SlotHandler struct {
	Repo      ports.CommitmentRepository
	Estimator ports.TravelEstimator
	Defaults  domain.Preferences
}

// Search orchestrates a slot search: it resolves preferences and the
// window from the request, pre-fetches the overlapping schedule, and runs
// the search. The handler stays unaware of concrete adapters.
func (h *SlotHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.SlotSearchRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if req.Visit.DurationMinutes < 1 || req.Visit.DurationMinutes > maxVisitMinutes {
		writeError(w, r, http.StatusBadRequest, "visit.duration_minutes must be between 1 and 720")
		return
	}

	now := time.Now()

	windowStart := now
	if req.WindowStart != nil {
		windowStart = *req.WindowStart
	}
	windowEnd := windowStart.AddDate(0, 0, defaultWindowDays)
	if req.WindowEnd != nil {
		windowEnd = *req.WindowEnd
	}
	if !windowEnd.After(windowStart) {
		writeError(w, r, http.StatusBadRequest, "window_end must be after window_start")
		return
	}
	if windowEnd.Sub(windowStart) > maxWindowDays*24*time.Hour {
		writeError(w, r, http.StatusBadRequest, "search window must not exceed 60 days")
		return
	}

	prefs := h.Defaults
	if req.WorkStart != "" {
		prefs.WorkingHours.Start = req.WorkStart
	}
	if req.WorkEnd != "" {
		prefs.WorkingHours.End = req.WorkEnd
	}
	if req.PreBufferMinutes != nil {
		prefs.PreBufferMinutes = *req.PreBufferMinutes
	}
	if req.PostBufferMinutes != nil {
		prefs.PostBufferMinutes = *req.PostBufferMinutes
	}
	if req.HomeBase != nil {
		prefs.HomeBase = &domain.Coordinates{Lat: req.HomeBase.Lat, Lon: req.HomeBase.Lon}
	}
	if req.WorkingDays != nil {
		prefs.WorkingDays = *req.WorkingDays
	}

	// One extra day on each side so commitments spilling over midnight
	// still block the mornings and evenings they reach into.
	schedule, err := h.Repo.ListCommitments(r.Context(), windowStart.AddDate(0, 0, -1), windowEnd.AddDate(0, 0, 1))
	if err != nil {
		log.Printf("list commitments failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	slots, err := services.FindSlots(
		r.Context(),
		schedule,
		domain.VisitRequest{
			Location:        domain.Coordinates{Lat: req.Visit.Lat, Lon: req.Visit.Lon},
			DurationMinutes: req.Visit.DurationMinutes,
		},
		prefs,
		domain.SearchWindow{Start: windowStart, End: windowEnd},
		services.SearchOptions{
			Now:            now,
			ClampToNow:     req.ClampToNow,
			IncludeExplain: req.IncludeExplain,
			MaxResults:     req.MaxResults,
		},
		h.Estimator,
	)
	if err != nil {
		log.Printf("find slots failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.SlotSearchResponse{Slots: make([]dto.SlotResponse, 0, len(slots))}
	for _, s := range slots {
		slot := dto.SlotResponse{
			Day:   s.DayKey,
			Start: s.Start,
			End:   s.End,
			Score: s.Score,
			Label: s.Label,
			Metrics: dto.SlotMetricsDTO{
				DetourMinutes:     s.Metrics.DetourMinutes,
				SlackMinutes:      s.Metrics.SlackMinutes,
				TravelToMinutes:   s.Metrics.TravelToMinutes,
				TravelFromMinutes: s.Metrics.TravelFromMinutes,
			},
		}
		if s.Explain != nil {
			slot.Explain = &dto.ExplainDTO{
				PrevKind:             s.Explain.PrevKind,
				PrevTitle:            s.Explain.PrevTitle,
				NextKind:             s.Explain.NextKind,
				NextTitle:            s.Explain.NextTitle,
				GapMinutes:           s.Explain.GapMinutes,
				BaselineMinutes:      s.Explain.BaselineMinutes,
				ArrivalMarginMinutes: s.Explain.ArrivalMarginMinutes,
				Summary:              s.Explain.Summary,
			}
		}
		res.Slots = append(res.Slots, slot)
	}

	writeJSON(w, r, http.StatusOK, res)
}
