package hivetrace

import (
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-cleanhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Response is the raw ingestion response, exposed for inspection or logging
// by the caller.
type Response struct {
	StatusCode int
	Status     string
	Body       []byte
}

// transport performs a single synchronous POST per report. No retry, no
// backoff: a network failure propagates to the caller.
type transport struct {
	client   *resty.Client
	endpoint string
	limiter  *rate.Limiter
	logger   *zap.SugaredLogger
}

func newTransport(cfg Configuration) *transport {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = cleanhttp.DefaultClient()
	}
	return &transport{
		client:   resty.NewWithClient(httpClient).SetRetryCount(0),
		endpoint: cfg.Endpoint,
		limiter:  cfg.Limiter,
		logger:   cfg.Logger,
	}
}

func (t *transport) send(report *Report) (*Response, error) {
	if t.limiter != nil && !t.limiter.Allow() {
		t.logger.Debugw("report dropped", "groupingHash", report.Events[0].GroupingHash)
		return nil, ErrEventDropped
	}

	resp, err := t.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(report).
		Post(t.endpoint)
	if err != nil {
		return nil, err
	}

	t.logger.Debugw("report delivered", "status", resp.StatusCode())
	return &Response{
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Body:       resp.Body(),
	}, nil
}
