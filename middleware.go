package hivetrace

import (
	"net/http"
	"strings"
)

// MiddlewareOptions adjusts how panics escaping a wrapped handler are
// reported. All fields are optional.
type MiddlewareOptions struct {
	// GroupingFunc derives a grouping hash from the panic value and the
	// request. An empty result falls back to the default derivation.
	GroupingFunc func(cause any, r *http.Request) string

	// UserFunc derives the affected user from the request. Its own panics
	// never prevent reporting: the user field degrades to nil.
	UserFunc func(r *http.Request) any

	// Metadata is attached to every report produced by the middleware.
	Metadata map[string]any
}

// Handler wraps next so that a panic escaping it is reported as an
// unhandled error and then re-raised unchanged. The wrapper adds no
// behavior on the success path. Reporting is strictly a side channel: a
// failure to build or deliver the report is logged through the notifier's
// logger and discarded, so upstream recovery always observes the original
// panic value.
func Handler(next http.Handler, n *Notifier, mopts MiddlewareOptions) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			cause := recover()
			if cause == nil {
				return
			}
			n.reportRequestPanic(cause, r, mopts)
			panic(cause)
		}()
		next.ServeHTTP(w, r)
	})
}

func (n *Notifier) reportRequestPanic(cause any, r *http.Request, mopts MiddlewareOptions) {
	defer func() {
		if rec := recover(); rec != nil {
			n.logger.Errorw("panic while reporting request error", "panic", rec)
		}
	}()

	opts := Options{
		Context:            r.Method + " " + r.URL.Path,
		Severity:           SeverityError,
		SeverityReasonType: SeverityReasonUnhandledMiddleware,
		Unhandled:          true,
		User:               safeUser(mopts.UserFunc, r),
		Metadata:           mergeMetadata(mopts.Metadata, map[string]any{"request": requestMetadata(r)}),
	}
	if mopts.GroupingFunc != nil {
		opts.GroupingHash = safeGrouping(mopts.GroupingFunc, cause, r)
	}

	if _, err := n.Notify(cause, opts); err != nil {
		// A delivery failure must not replace the panic propagating to
		// upstream recovery.
		n.logger.Errorw("failed to deliver report", "error", err)
	}
}

func safeUser(fn func(*http.Request) any, r *http.Request) (user any) {
	if fn == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			user = nil
		}
	}()
	return fn(r)
}

func safeGrouping(fn func(any, *http.Request) string, cause any, r *http.Request) (hash string) {
	defer func() {
		if recover() != nil {
			hash = ""
		}
	}()
	return fn(cause, r)
}

// requestMetadata describes the request minus its body, which never leaves
// the process.
func requestMetadata(r *http.Request) map[string]any {
	return map[string]any{
		"httpMethod": r.Method,
		"url":        r.URL.String(),
		"path":       r.URL.Path,
		"query":      r.URL.RawQuery,
		"clientIp":   r.RemoteAddr,
		"headers":    requestHeaders(r.Header),
	}
}

func requestHeaders(headers http.Header) map[string]string {
	m := make(map[string]string, len(headers))
	for k, v := range headers {
		// Cookies carry session material and are not reported.
		if k == "Cookie" {
			continue
		}
		m[k] = strings.Join(v, ",")
	}
	return m
}
