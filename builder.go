package hivetrace

import (
	"fmt"
	"reflect"

	"github.com/samber/lo"

	"github.com/hivetrace/hivetrace-go/stacktrace"
)

// BuildReport assembles the full report document for a notified cause. The
// cause may be an error or an arbitrary panic value. The only I/O performed
// here is the best-effort revision and hostname probing; in particular the
// API key is resolved, and ConfigurationError raised, before any transport
// call can happen.
func (n *Notifier) BuildReport(cause any, opts Options) (*Report, error) {
	key, err := resolveAPIKey(opts.APIKey, n.cfg.APIKey)
	if err != nil {
		return nil, err
	}

	message, class, pcs, payload := parseCause(cause)

	pkg := n.cfg.ProjectPackage
	if pkg == "" {
		pkg = stacktrace.DisabledProjectPackage
	}
	frames := stacktrace.Transform(pcs, pkg, n.cfg.SourceLocator)

	meta := map[string]any{}
	if payload != nil {
		meta[payloadTab] = payload
	}
	meta = SanitizeMetadata(mergeMetadata(meta, opts.Metadata))

	grouping := opts.GroupingHash
	if grouping == "" {
		// Structured errors group by message, everything else by type.
		if _, ok := cause.(*Error); ok {
			grouping = message
		} else {
			grouping = class
		}
	}

	reason := opts.SeverityReasonType
	if reason == "" {
		reason = SeverityReasonHandled
	}

	version, _ := lo.Coalesce(opts.AppVersion, n.cfg.AppVersion, currentRevision())
	stage, _ := lo.Coalesce(opts.ReleaseStage, n.cfg.ReleaseStage)
	hostname, _ := lo.Coalesce(n.cfg.Hostname, lookupHostname())

	return &Report{
		APIKey:         key,
		Notifier:       notifierIdentity(),
		PayloadVersion: payloadVersion,
		Events: []Event{{
			Exceptions: []Exception{{
				ErrorClass: class,
				Message:    message,
				Stacktrace: frames,
			}},
			Breadcrumbs:    []Breadcrumb{},
			Context:        opts.Context,
			GroupingHash:   grouping,
			Severity:       string(opts.Severity.orDefault()),
			SeverityReason: SeverityReason{Type: reason},
			Unhandled:      opts.Unhandled,
			User:           normalizeUser(opts.User),
			App:            App{Version: version, ReleaseStage: stage},
			Device:         Device{Hostname: hostname},
			Metadata:       meta,
		}},
	}, nil
}

// parseCause extracts the message, type identity, program counters, and any
// structured payload from a notified value. Plain errors and panic values
// without their own stack get the current call stack, starting at the
// library's caller.
func parseCause(cause any) (message, class string, pcs []uintptr, payload map[string]any) {
	switch t := cause.(type) {
	case *Error:
		return t.Error(), errorClass(t), t.stack, t.payload
	case error:
		if st, ok := t.(interface{ Callers() []uintptr }); ok {
			pcs = st.Callers()
		} else {
			pcs = callers(4)
		}
		return t.Error(), errorClass(t), pcs, nil
	case nil:
		return "<nil>", "panic", callers(4), nil
	default:
		return fmt.Sprintf("%v", cause), errorClass(cause), callers(4), nil
	}
}

// errorClass derives the type identity reported as the exception's class.
// For the library's own error type the class of the wrapped cause is used,
// since *hivetrace.Error itself says nothing about what went wrong.
func errorClass(cause any) string {
	switch t := cause.(type) {
	case *Error:
		if t.cause != nil {
			return errorClass(t.cause)
		}
		return reflect.TypeOf(t).String()
	case nil:
		return "panic"
	default:
		return reflect.TypeOf(cause).String()
	}
}
