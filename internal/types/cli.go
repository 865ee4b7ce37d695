package types

// OutputFormat selects how command results are rendered
type OutputFormat string

const (
	// OutputFormatJSON renders results as a JSON envelope on stdout
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatTable renders results as a human-readable table
	OutputFormatTable OutputFormat = "table"
)

// GlobalFlags holds flags shared by every command
type GlobalFlags struct {
	OutputFormat OutputFormat
	Quiet        bool
	Verbose      int
	LogFile      string
	Config       string
	DryRun       bool
}

// CLIOutput is the JSON envelope written for every command result
type CLIOutput struct {
	SchemaVersion string       `json:"schemaVersion"`
	TraceID       string       `json:"traceId"`
	Command       string       `json:"command"`
	Data          interface{}  `json:"data"`
	Warnings      []CLIWarning `json:"warnings"`
	Errors        []CLIError   `json:"errors"`
}

// CLIError is a structured, machine-readable error
type CLIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// CLIWarning is a non-fatal notice attached to a result
type CLIWarning struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}
