// Package store persists the association summit list and the log of list
// synchronizations.
package store

import "time"

// UpdateRecord is one synchronization run of the summit list.
type UpdateRecord struct {
	ID          string    `json:"id"`
	RunAt       time.Time `json:"runAt"`
	SummitCount int       `json:"summitCount"`
	NotModified bool      `json:"notModified"`
}
