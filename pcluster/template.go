package pcluster

import "time"

// Template is a named cluster configuration kept by the console to seed
// the creation wizard.
type Template struct {
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Version       string    `json:"version,omitempty"`
	Configuration string    `json:"configuration"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
