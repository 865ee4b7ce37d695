package diff

import (
	"github.com/ccarocean/copernicus-sync/internal/codec"
	"github.com/ccarocean/copernicus-sync/internal/sync/scanner"
)

type ActionType string

const (
	// ActionFetch downloads the remote file for a date
	ActionFetch ActionType = "fetch"
	// ActionDelete removes the local file for a date
	ActionDelete ActionType = "delete"
	// ActionSkip leaves the date untouched
	ActionSkip ActionType = "skip"
)

// Reason records why a fetch was decided
type Reason string

const (
	// ReasonNew means the date exists only remotely
	ReasonNew Reason = "new"
	// ReasonUpdate means the local copy differs in mtime or size
	ReasonUpdate Reason = "update"
)

// Action is one reconciliation decision for one date.
type Action struct {
	Type   ActionType           `json:"type"`
	Date   codec.Date           `json:"date"`
	Reason Reason               `json:"reason,omitempty"`
	Remote *scanner.FileRecord  `json:"remote,omitempty"`
	Local  *scanner.FileRecord  `json:"local,omitempty"`
}
