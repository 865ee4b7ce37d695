package scanner

import (
	"time"

	"github.com/ccarocean/copernicus-sync/internal/codec"
)

// FileRecord describes one dated data file, on either side of the mirror.
type FileRecord struct {
	// Path of the file: relative to the session base for remote records,
	// absolute on disk for local records
	Path string
	// Modified is the file's modification time, whole seconds
	Modified time.Time
	// Size in bytes
	Size int64
}

// Index maps each date to the single file carrying that date's data. Built
// fresh on every run and discarded afterwards; at most one record per date.
type Index map[codec.Date]FileRecord

// Modification times are compared at whole-second resolution: local stat
// times are truncated, and FTP listings carry nothing finer.
const timeResolution = time.Second
