package dto

import "time"

type CoordinatesDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type VisitDTO struct {
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
	DurationMinutes int     `json:"duration_minutes"`
}

type SlotSearchRequest struct {
	Visit             VisitDTO        `json:"visit"`
	WindowStart       *time.Time      `json:"window_start"`
	WindowEnd         *time.Time      `json:"window_end"`
	WorkStart         string          `json:"work_start"`
	WorkEnd           string          `json:"work_end"`
	PreBufferMinutes  *int            `json:"pre_buffer_minutes"`
	PostBufferMinutes *int            `json:"post_buffer_minutes"`
	HomeBase          *CoordinatesDTO `json:"home_base"`
	WorkingDays       *[7]bool        `json:"working_days"`
	ClampToNow        bool            `json:"clamp_to_now"`
	IncludeExplain    bool            `json:"include_explain"`
	MaxResults        int             `json:"max_results"`
}

type SlotMetricsDTO struct {
	DetourMinutes     int `json:"detour_minutes"`
	SlackMinutes      int `json:"slack_minutes"`
	TravelToMinutes   int `json:"travel_to_minutes"`
	TravelFromMinutes int `json:"travel_from_minutes"`
}

type ExplainDTO struct {
	PrevKind             string `json:"prev_kind"`
	PrevTitle            string `json:"prev_title"`
	NextKind             string `json:"next_kind"`
	NextTitle            string `json:"next_title"`
	GapMinutes           int    `json:"gap_minutes"`
	BaselineMinutes      int    `json:"baseline_minutes"`
	ArrivalMarginMinutes int    `json:"arrival_margin_minutes"`
	Summary              string `json:"summary"`
}

type SlotResponse struct {
	Day     string         `json:"day"`
	Start   time.Time      `json:"start"`
	End     time.Time      `json:"end"`
	Score   int            `json:"score"`
	Label   string         `json:"label"`
	Metrics SlotMetricsDTO `json:"metrics"`
	Explain *ExplainDTO    `json:"explain,omitempty"`
}

type SlotSearchResponse struct {
	Slots []SlotResponse `json:"slots"`
}
