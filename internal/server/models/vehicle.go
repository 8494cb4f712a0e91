// Package models defines the server-side data structures persisted by the
// back office.
package models

import "time"

// Vehicle is a dealership listing. ImageAssetIDs references previously
// uploaded images in the content store; the slice order is the display order
// on the site and must be preserved verbatim by every layer.
type Vehicle struct {
	ID            string    `json:"id"`
	Make          string    `json:"make"`
	Model         string    `json:"model"`
	Year          int       `json:"year"`
	Price         int64     `json:"price"`
	Mileage       int       `json:"mileage"`
	Fuel          string    `json:"fuel"`
	Transmission  string    `json:"transmission"`
	Description   string    `json:"description"`
	ImageAssetIDs []string  `json:"imageAssetIds"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
