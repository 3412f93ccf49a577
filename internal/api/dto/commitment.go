package dto

import "time"

type CommitmentResponse struct {
	ID    string    `json:"id"`
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Lat   *float64  `json:"lat,omitempty"`
	Lon   *float64  `json:"lon,omitempty"`
}

type ListCommitmentsResponse struct {
	Commitments []CommitmentResponse `json:"commitments"`
}
