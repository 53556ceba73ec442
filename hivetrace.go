// Package hivetrace is the official Go notifier for the Hivetrace
// error-tracking service. It captures errors and panic values, serializes
// them into the Hivetrace report format, and delivers them to the ingestion
// endpoint with a single synchronous POST. The Handler middleware reports
// panics escaping an http.Handler and re-panics so upstream recovery is
// unaffected.
package hivetrace

import (
	"go.uber.org/zap"

	"github.com/hivetrace/hivetrace-go/stacktrace"
)

// Notifier builds and delivers error reports. A Notifier is safe for
// concurrent use; each Notify call is self-contained.
type Notifier struct {
	cfg       Configuration
	transport *transport
	logger    *zap.SugaredLogger
}

// NewNotifier returns a Notifier for the given configuration, filling in
// defaults for anything unset.
func NewNotifier(cfg Configuration) *Notifier {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}
	if cfg.SourceLocator == nil {
		cfg.SourceLocator = stacktrace.FileLocator{}
	}
	return &Notifier{
		cfg:       cfg,
		transport: newTransport(cfg),
		logger:    cfg.Logger,
	}
}

// Notify reports the given error or panic value. It returns the raw
// ingestion response unless response suppression is configured, in which
// case the POST still happens but nil is returned regardless of outcome.
//
// A ConfigurationError is returned, before any network activity, when no
// API key can be resolved. Transport failures propagate untouched: there is
// no retry and nothing is swallowed.
func (n *Notifier) Notify(cause any, opts Options) (*Response, error) {
	report, err := n.BuildReport(cause, opts)
	if err != nil {
		return nil, err
	}
	resp, err := n.transport.send(report)
	if err != nil {
		return nil, err
	}
	if n.cfg.SuppressResponse || opts.SuppressResponse {
		return nil, nil
	}
	return resp, nil
}
