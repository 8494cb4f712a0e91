package models

// Vehicle mirrors the server's listing document. ImageAssetIDs carries the
// display order and is sent verbatim.
type Vehicle struct {
	ID            string   `json:"id,omitempty"`
	Make          string   `json:"make"`
	Model         string   `json:"model"`
	Year          int      `json:"year"`
	Price         int64    `json:"price"`
	Mileage       int      `json:"mileage"`
	Fuel          string   `json:"fuel"`
	Transmission  string   `json:"transmission"`
	Description   string   `json:"description"`
	ImageAssetIDs []string `json:"imageAssetIds"`
}
