package hivetrace_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hivetrace "github.com/hivetrace/hivetrace-go"
	"github.com/hivetrace/hivetrace-go/stacktrace"
)

const pkgName = "github.com/hivetrace/hivetrace-go_test" // this should stay in sync with the location/pkg of the file

func TestBuildReportDefaults(t *testing.T) {
	n := newTestNotifier("")

	report, err := n.BuildReport(errors.New("kaboom"), hivetrace.Options{})
	require.NoError(t, err)

	assert.Equal(t, "test-api-key", report.APIKey)
	assert.Equal(t, "5", report.PayloadVersion)
	assert.Equal(t, "hivetrace-go", report.Notifier.Name)
	assert.Equal(t, hivetrace.Version, report.Notifier.Version)
	require.Len(t, report.Events, 1)

	e := report.Events[0]
	assert.Equal(t, "error", e.Severity, "severity defaults to error")
	assert.False(t, e.Unhandled)
	assert.Equal(t, hivetrace.SeverityReasonHandled, e.SeverityReason.Type)
	assert.Equal(t, "*errors.errorString", e.GroupingHash, "plain errors group by type")
	assert.NotNil(t, e.Breadcrumbs)
	assert.Empty(t, e.Breadcrumbs)
	assert.Empty(t, e.Metadata)
	assert.Nil(t, e.User)
	assert.Equal(t, "0.0.0-test", e.App.Version)
	assert.Equal(t, "test-host", e.Device.Hostname)

	require.Len(t, e.Exceptions, 1)
	ex := e.Exceptions[0]
	assert.Equal(t, "*errors.errorString", ex.ErrorClass)
	assert.Equal(t, "kaboom", ex.Message)
	require.NotEmpty(t, ex.Stacktrace)
	assert.Equal(t, pkgName+".TestBuildReportDefaults", ex.Stacktrace[0].Method,
		"plain errors get the stack of the reporting call site")
}

func TestBuildReportStructuredGrouping(t *testing.T) {
	n := newTestNotifier("")

	cause := hivetrace.New("boom").WithPayload(map[string]any{"order": 42})
	report, err := n.BuildReport(cause, hivetrace.Options{})
	require.NoError(t, err)

	e := report.Events[0]
	assert.Equal(t, "boom", e.GroupingHash, "structured errors group by message")
	assert.Equal(t, map[string]any{"order": 42}, e.Metadata["payload"])

	require.NotEmpty(t, e.Exceptions[0].Stacktrace)
	assert.Contains(t, e.Exceptions[0].Stacktrace[0].Method, "TestBuildReportStructuredGrouping",
		"structured errors carry the stack of their construction site")
}

func TestBuildReportWrappedCauseClass(t *testing.T) {
	n := newTestNotifier("")

	cause := hivetrace.Wrap(io.ErrUnexpectedEOF, "reading config")
	report, err := n.BuildReport(cause, hivetrace.Options{})
	require.NoError(t, err)

	ex := report.Events[0].Exceptions[0]
	assert.Equal(t, "reading config: unexpected EOF", ex.Message)
	assert.Equal(t, "*errors.errorString", ex.ErrorClass, "class comes from the wrapped cause")
	assert.Equal(t, "reading config: unexpected EOF", report.Events[0].GroupingHash)
}

func TestBuildReportPayloadMergedWithCallerMetadata(t *testing.T) {
	n := newTestNotifier("")
	cause := hivetrace.New("boom").WithPayload(map[string]any{"order": 42})

	report, err := n.BuildReport(cause, hivetrace.Options{
		Metadata: map[string]any{"deploy": map[string]any{"region": "eu-1"}},
	})
	require.NoError(t, err)
	meta := report.Events[0].Metadata
	assert.Equal(t, map[string]any{"order": 42}, meta["payload"])
	assert.Equal(t, map[string]any{"region": "eu-1"}, meta["deploy"])

	report, err = n.BuildReport(cause, hivetrace.Options{
		Metadata: map[string]any{"payload": map[string]any{"order": 7}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"order": 7}, report.Events[0].Metadata["payload"],
		"caller metadata wins on key collision")
}

func TestBuildReportExplicitGroupingWins(t *testing.T) {
	n := newTestNotifier("")
	report, err := n.BuildReport(hivetrace.New("boom"), hivetrace.Options{GroupingHash: "orders-pipeline"})
	require.NoError(t, err)
	assert.Equal(t, "orders-pipeline", report.Events[0].GroupingHash)
}

func TestBuildReportSeverity(t *testing.T) {
	n := newTestNotifier("")

	report, err := n.BuildReport(errors.New("x"), hivetrace.Options{Severity: hivetrace.SeverityWarning})
	require.NoError(t, err)
	assert.Equal(t, "warning", report.Events[0].Severity)

	report, err = n.BuildReport(errors.New("x"), hivetrace.Options{Severity: hivetrace.Severity("fatal")})
	require.NoError(t, err)
	assert.Equal(t, "error", report.Events[0].Severity, "unrecognized severity falls back to error")
}

func TestBuildReportPanicValue(t *testing.T) {
	n := newTestNotifier("")

	report, err := n.BuildReport("wat", hivetrace.Options{})
	require.NoError(t, err)
	ex := report.Events[0].Exceptions[0]
	assert.Equal(t, "string", ex.ErrorClass)
	assert.Equal(t, "wat", ex.Message)
	assert.Equal(t, "string", report.Events[0].GroupingHash)
}

func TestBuildReportProjectPackage(t *testing.T) {
	n := hivetrace.NewNotifier(hivetrace.Configuration{
		APIKey:         "test-api-key",
		ProjectPackage: "github.com/hivetrace/hivetrace-go",
		SourceLocator:  stacktrace.NopLocator{},
	})

	report, err := n.BuildReport(errors.New("x"), hivetrace.Options{})
	require.NoError(t, err)

	frames := report.Events[0].Exceptions[0].Stacktrace
	require.NotEmpty(t, frames)
	assert.True(t, frames[0].InProject, "test frame is under the project package")

	sawForeign := false
	for _, fr := range frames {
		if !strings.HasPrefix(fr.Method, "github.com/hivetrace/hivetrace-go") {
			sawForeign = true
			assert.False(t, fr.InProject, "foreign frame flagged in project: "+fr.Method)
		}
	}
	assert.True(t, sawForeign, "expected at least one frame outside the project (testing runtime)")
}

func TestAPIKeyResolutionPrecedence(t *testing.T) {
	t.Setenv(hivetrace.APIKeyEnvVar, "env-key")

	n := hivetrace.NewNotifier(hivetrace.Configuration{APIKey: "cfg-key", SourceLocator: stacktrace.NopLocator{}})

	report, err := n.BuildReport(errors.New("x"), hivetrace.Options{APIKey: "opt-key"})
	require.NoError(t, err)
	assert.Equal(t, "opt-key", report.APIKey, "explicit option beats everything")

	report, err = n.BuildReport(errors.New("x"), hivetrace.Options{})
	require.NoError(t, err)
	assert.Equal(t, "cfg-key", report.APIKey, "configuration beats the environment")

	n = hivetrace.NewNotifier(hivetrace.Configuration{SourceLocator: stacktrace.NopLocator{}})
	report, err = n.BuildReport(errors.New("x"), hivetrace.Options{})
	require.NoError(t, err)
	assert.Equal(t, "env-key", report.APIKey, "environment is consulted last before the settings file")
}

func TestNoAPIKeyIsAConfigurationError(t *testing.T) {
	t.Setenv(hivetrace.APIKeyEnvVar, "")

	srv := newIngestionServer(t)
	n := hivetrace.NewNotifier(hivetrace.Configuration{Endpoint: srv.URL, SourceLocator: stacktrace.NopLocator{}})

	resp, err := n.Notify(errors.New("x"), hivetrace.Options{})
	require.Error(t, err)
	assert.Nil(t, resp)
	_, ok := hivetrace.AsConfigurationError(err)
	assert.True(t, ok)
	assert.Equal(t, 0, srv.count(), "no network call is attempted without an API key")
}
