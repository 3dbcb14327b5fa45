// Package proxy forwards gateway requests to registered upstream services.
package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dbgate/internal/domain"
	"github.com/kailas-cloud/dbgate/internal/logger"
	"github.com/kailas-cloud/dbgate/internal/metrics"
	"github.com/kailas-cloud/dbgate/internal/registry"
)

// MaxResponseBytes caps the upstream body the dispatcher will buffer.
const MaxResponseBytes = 32 << 20

// Resolver looks up upstream services by name.
type Resolver interface {
	Resolve(name string) (registry.ServiceConfig, error)
}

// Request is an inbound call to forward.
type Request struct {
	Method  string
	Service string // empty selects registry.DefaultService
	Path    string
	Header  http.Header
	Body    []byte
}

// Dispatcher forwards requests to upstream services with per-service timeouts.
// It is safe for concurrent use; the http.Client is shared across requests.
type Dispatcher struct {
	services Resolver
	client   *http.Client
}

// NewDispatcher creates a Dispatcher. A nil client selects a pooled default client
// with transparent compression off, so the transport adds no Accept-Encoding.
func NewDispatcher(services Resolver, client *http.Client) *Dispatcher {
	if client == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.DisableCompression = true
		client = &http.Client{Transport: transport}
	}
	return &Dispatcher{services: services, client: client}
}

// Forward resolves the target service, forwards method, body and allowed headers, and
// returns the upstream JSON payload unmodified.
func (d *Dispatcher) Forward(ctx context.Context, req *Request) (json.RawMessage, error) {
	name := req.Service
	if name == "" {
		name = registry.DefaultService
	}

	svc, err := d.services.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("forward: %w", err)
	}

	target := Target{
		URL:     strings.TrimRight(svc.BaseURL, "/") + "/" + strings.TrimPrefix(req.Path, "/"),
		Timeout: svc.Timeout,
	}

	start := time.Now()
	payload, err := d.do(ctx, target, req)
	outcome := outcomeOf(err)
	metrics.ProxyRequestsTotal.WithLabelValues(name, req.Method, outcome).Inc()
	metrics.ProxyRequestDuration.WithLabelValues(name, outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		logger.FromContext(ctx).Warn("Upstream call failed",
			zap.String("service", name),
			zap.String("url", target.URL),
			zap.Duration("timeout", target.Timeout),
			zap.Error(err),
		)
		return nil, err
	}
	return payload, nil
}

// Target is the per-request upstream destination derived from a ServiceConfig.
type Target struct {
	URL     string
	Timeout time.Duration
}

func (d *Dispatcher) do(ctx context.Context, target Target, req *Request) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, target.Timeout)
	defer cancel()

	var body io.Reader = http.NoBody
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		body = bytes.NewReader(req.Body)
	}

	out, err := http.NewRequestWithContext(ctx, req.Method, target.URL, body)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %v: %w", target.URL, err, domain.ErrUpstreamUnavailable)
	}
	copyHeaders(out.Header, req.Header)
	if _, ok := out.Header["User-Agent"]; !ok {
		// An empty value stops net/http from sending its default agent.
		out.Header.Set("User-Agent", "")
	}

	resp, err := d.client.Do(out)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %v: %w", req.Method, target.URL, err, domain.ErrUpstreamUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("read %s: %v: %w", target.URL, err, domain.ErrUpstreamUnavailable)
		}
		return nil, fmt.Errorf("read %s: %v: %w", target.URL, err, domain.ErrUpstreamBadResponse)
	}
	if len(data) > MaxResponseBytes {
		return nil, fmt.Errorf("response from %s exceeds %d bytes: %w",
			target.URL, MaxResponseBytes, domain.ErrUpstreamBadResponse)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("response from %s (status %d) is not JSON: %w",
			target.URL, resp.StatusCode, domain.ErrUpstreamBadResponse)
	}
	return json.RawMessage(data), nil
}

func copyHeaders(dst, src http.Header) {
	for name, values := range src {
		if !AllowHeader(name) {
			continue
		}
		for _, v := range values {
			dst.Add(name, v)
		}
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrUpstreamBadResponse):
		return "bad_response"
	default:
		return "error"
	}
}
