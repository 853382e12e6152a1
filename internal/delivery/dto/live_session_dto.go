package dto

import "github.com/google/uuid"

// GoLiveRequest opens an availability window at a hospital. Dates are
// YYYY-MM-DD and times HH:MM.
type GoLiveRequest struct {
	HospitalID uuid.UUID `json:"hospitalId" validate:"required"`
	FromDate   string    `json:"fromDate" validate:"required,datetime=2006-01-02"`
	FromTime   string    `json:"fromTime" validate:"required,datetime=15:04"`
	ToDate     string    `json:"toDate" validate:"required,datetime=2006-01-02"`
	ToTime     string    `json:"toTime" validate:"required,datetime=15:04"`
}

type EndLiveRequest struct {
	Notes string `json:"notes"`
}
