// Package backend is the HTTP client for the game-data service.
package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/vmoranv/aolastar/internal/platform/errors"
	"github.com/vmoranv/aolastar/internal/platform/timeouts"
	"github.com/vmoranv/aolastar/internal/services/aolastar/domain"
)

const (
	// DefaultUserAgent identifies this client to the backend.
	DefaultUserAgent = "Aolastar-Query/1.0"

	pathPackets    = "/api/existing-activities"
	pathAttributes = "/api/skill-attributes"
	pathRelations  = "/api/attribute-relations/"

	maxResponseBytes = 16 << 20
	tracerName       = "github.com/vmoranv/aolastar/internal/services/aolastar/backend"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout sets the per-call deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if ua := strings.TrimSpace(userAgent); ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogf sets the logger used for failed calls.
func WithLogf(logf func(string, ...any)) Option {
	return func(c *Client) {
		c.logf = logf
	}
}

// Client fetches packets, attributes and relations. It never retries.
type Client struct {
	baseURL   string
	http      *http.Client
	timeout   time.Duration
	userAgent string
	logf      func(string, ...any)
	tracer    trace.Tracer
}

var _ domain.Backend = (*Client)(nil)

// NewClient builds a client for baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	normalized, err := NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   normalized,
		http:      http.DefaultClient,
		timeout:   timeouts.BackendRequest,
		userAgent: DefaultUserAgent,
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// NormalizeBaseURL trims whitespace and trailing slashes and adds an http
// scheme when none is present.
func NormalizeBaseURL(raw string) (string, error) {
	base := strings.TrimRight(strings.TrimSpace(raw), "/")
	if base == "" {
		return "", apperrors.WithMetadata(
			apperrors.CodeConfigurationMissing,
			"backend base url is required",
			map[string]string{apperrors.MetadataArgument: "AOLASTAR_API_BASE_URL"},
		)
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	parsed, err := url.Parse(base)
	if err != nil || parsed.Host == "" {
		return "", apperrors.WrapWithMetadata(
			apperrors.CodeConfigurationMissing,
			fmt.Sprintf("backend base url %q is invalid", raw),
			map[string]string{apperrors.MetadataArgument: "AOLASTAR_API_BASE_URL"},
			err,
		)
	}
	return base, nil
}

// FetchPacketList fetches the ordered activity packet list.
func (c *Client) FetchPacketList(ctx context.Context) ([]domain.PacketEntry, error) {
	body, err := c.get(ctx, pathPackets)
	if err != nil {
		return nil, err
	}
	return decodePackets(body)
}

// FetchAttributes fetches every attribute.
func (c *Client) FetchAttributes(ctx context.Context) ([]domain.Attribute, error) {
	body, err := c.get(ctx, pathAttributes)
	if err != nil {
		return nil, err
	}
	return decodeAttributes(body)
}

// FetchRelations fetches the relations of one attribute.
func (c *Client) FetchRelations(ctx context.Context, attributeID int) (domain.Relations, error) {
	body, err := c.get(ctx, pathRelations+strconv.Itoa(attributeID))
	if err != nil {
		return domain.Relations{}, err
	}
	return decodeRelations(body)
}

func (c *Client) get(ctx context.Context, path string) (body []byte, err error) {
	ctx, span := c.tracer.Start(ctx, "aolastar.backend "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", http.MethodGet),
			attribute.String("url.path", path),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(apperrors.CodeOf(err)))
			if c.logf != nil {
				c.logf("backend GET %s: %v", path, err)
			}
		}
		span.End()
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeBackendUnavailable, "build backend request", endpointMetadata(path), err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeBackendUnavailable, "backend request", endpointMetadata(path), err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		metadata := endpointMetadata(path)
		metadata[apperrors.MetadataStatus] = strconv.Itoa(resp.StatusCode)
		return nil, apperrors.WithMetadata(apperrors.CodeBackendRejected, "backend returned "+resp.Status, metadata)
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, apperrors.WrapWithMetadata(apperrors.CodeBackendUnavailable, "read backend response", endpointMetadata(path), err)
	}
	if len(body) > maxResponseBytes {
		return nil, apperrors.WithMetadata(apperrors.CodeBackendMalformedResponse, "backend response exceeds size limit", endpointMetadata(path))
	}
	return body, nil
}

func endpointMetadata(path string) map[string]string {
	return map[string]string{apperrors.MetadataEndpoint: path}
}
