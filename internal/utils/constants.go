package utils

// Schema version for the JSON output envelope
const SchemaVersion = "1.0"

// FTPPort is the control port the data hosts listen on
const FTPPort = 21

// Dataset selectors
const (
	DatasetNearRealTime = "nrt"
	DatasetDelayedTime  = "dt"
)
