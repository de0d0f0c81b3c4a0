// Package storage persists the incident history as a single JSON document
// that is safe to edit by hand.
package storage

import (
	"github.com/boshu2/daysince/internal/incident"
)

// Document is the on-disk shape of the history file:
//
//	{
//	  "incidents": [
//	    {"date": "2025-05-14", "description": "...", "severity": "Sev2", "postmortem_url": "..."}
//	  ]
//	}
type Document struct {
	Incidents []incident.Record `json:"incidents"`
}

// Store is the interface for loading and persisting the incident history.
type Store interface {
	// Load reads the full history.
	Load(opts ...LoadOption) (incident.History, error)

	// Save replaces the persisted history with h in a single atomic write.
	Save(h incident.History) error

	// Exists reports whether the history has been persisted before.
	Exists() bool

	// Location names where the history is kept, for messages.
	Location() string
}

type loadOptions struct {
	requireSeed bool
}

// LoadOption configures a Load call.
type LoadOption func(*loadOptions)

// RequireSeed makes Load fail with ErrEmptyButRequired when the history is
// missing or has no records.
func RequireSeed() LoadOption {
	return func(o *loadOptions) {
		o.requireSeed = true
	}
}
