package hivetrace

// Severity classifies how serious an event is. The dashboard only accepts
// the three enumerated values; anything else is treated as SeverityError.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Severity-reason tags recognized by the ingestion endpoint.
const (
	SeverityReasonHandled             = "handledException"
	SeverityReasonUnhandledMiddleware = "unhandledExceptionMiddleware"
)

// Options adjusts how a single report is built. The zero value is valid:
// severity defaults to error, the grouping hash is derived from the error,
// and ambient configuration supplies everything else. An Options value is
// constructed fresh per Notify call and never mutated by the library.
type Options struct {
	// APIKey overrides every other API key source for this report.
	APIKey string

	// Context describes what the application was doing, e.g. "GET /widgets".
	Context string

	// GroupingHash overrides the derived grouping value.
	GroupingHash string

	Severity Severity

	// SeverityReasonType tags how the error was captured. Defaults to
	// SeverityReasonHandled.
	SeverityReasonType string

	// Unhandled marks errors the application did not deal with itself.
	Unhandled bool

	// User is a free-form descriptor of the affected user. Maps and structs
	// are reported as-is; any other value is wrapped as {"id": value}.
	User any

	// Metadata is merged over any payload carried by the error itself.
	Metadata map[string]any

	// AppVersion and ReleaseStage override their Configuration counterparts.
	AppVersion   string
	ReleaseStage string

	// SuppressResponse discards the ingestion response for this report.
	SuppressResponse bool
}

func (s Severity) orDefault() Severity {
	switch s {
	case SeverityInfo, SeverityWarning, SeverityError:
		return s
	default:
		return SeverityError
	}
}
