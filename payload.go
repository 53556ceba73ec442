package hivetrace

import "github.com/hivetrace/hivetrace-go/stacktrace"

// The types below follow the Hivetrace error-report ingestion schema. A
// report is built once per notified error, serialized, and discarded.

const (
	notifierName = "hivetrace-go"
	notifierURL  = "https://github.com/hivetrace/hivetrace-go"

	// Version of this notifier, reported in the notifier identity block.
	Version = "1.3.0"

	// payloadVersion tags the revision of the report schema.
	payloadVersion = "5"

	// DefaultEndpoint is the ingestion endpoint reports are POSTed to
	// unless Configuration.Endpoint overrides it.
	DefaultEndpoint = "https://notify.hivetrace.io"
)

// Report is the top-level document sent to the ingestion endpoint.
type Report struct {
	APIKey         string           `json:"apiKey"`
	Notifier       NotifierIdentity `json:"notifier"`
	PayloadVersion string           `json:"payloadVersion"`
	Events         []Event          `json:"events"`
}

// NotifierIdentity describes the library that produced a report.
type NotifierIdentity struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	URL     string `json:"url"`
}

// Event describes a single error occurrence.
type Event struct {
	Exceptions     []Exception    `json:"exceptions"`
	Breadcrumbs    []Breadcrumb   `json:"breadcrumbs"`
	Context        string         `json:"context,omitempty"`
	GroupingHash   string         `json:"groupingHash"`
	Severity       string         `json:"severity"`
	SeverityReason SeverityReason `json:"severity_reason"`
	Unhandled      bool           `json:"unhandled"`
	User           map[string]any `json:"user,omitempty"`
	App            App            `json:"app"`
	Device         Device         `json:"device"`
	Metadata       map[string]any `json:"metaData"`
}

// Exception is the error being reported along with its stacktrace.
type Exception struct {
	ErrorClass string             `json:"errorClass"`
	Message    string             `json:"message"`
	Stacktrace []stacktrace.Frame `json:"stacktrace"`
}

// Breadcrumb is an event which led up to the error. This notifier does not
// record breadcrumbs yet, but the ingestion endpoint requires the list to
// be present (possibly empty, never null).
type Breadcrumb struct {
	Timestamp string         `json:"timestamp,omitempty"`
	Name      string         `json:"name"`
	Type      string         `json:"type"`
	Metadata  map[string]any `json:"metaData,omitempty"`
}

// SeverityReason tags how the error was captured.
type SeverityReason struct {
	Type string `json:"type"`
}

// App identifies the reporting application.
type App struct {
	Version      string `json:"version,omitempty"`
	ReleaseStage string `json:"releaseStage,omitempty"`
}

// Device identifies the machine the application runs on.
type Device struct {
	Hostname string `json:"hostname,omitempty"`
}

func notifierIdentity() NotifierIdentity {
	return NotifierIdentity{
		Name:    notifierName,
		Version: Version,
		URL:     notifierURL,
	}
}
