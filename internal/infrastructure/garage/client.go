// Package garage is the client for the Garage listings API.
package garage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/garage/invoicer/internal/domain/listing"
	"github.com/garage/invoicer/internal/domain/shared"
	"github.com/garage/invoicer/internal/infrastructure/telemetry"
)

// DefaultBaseURL is the production listings API
const DefaultBaseURL = "https://garage-backend.onrender.com"

// Config holds client settings
type Config struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Client fetches listings and category attribute labels. It never retries.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithLogger sets a custom logger for Client
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new listings API client
func NewClient(cfg Config, opts ...ClientOption) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "invoicer/1.0"
	}

	c := &Client{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}

	c.http = resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json").
		SetLogger(c.logger.Sugar())
	return c
}

// FetchListing returns the listing with the given id. Failures are
// *listing.FetchError values.
func (c *Client) FetchListing(ctx context.Context, id string) (*listing.Listing, error) {
	ctx, span := telemetry.StartSpan(ctx, "garage.fetch_listing",
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrListingID, id))
	defer span.End()

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", id).
		Get("/listings/{id}")
	if err != nil {
		fetchErr := listing.NewNetworkError(err)
		telemetry.RecordError(span, fetchErr)
		c.logger.Debug("listing request failed", zap.String("listing_id", id), zap.Error(err))
		return nil, fetchErr
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrHTTPStatus, resp.StatusCode())

	if !resp.IsSuccess() {
		fetchErr := listing.NewHTTPError(resp.StatusCode())
		telemetry.RecordError(span, fetchErr)
		c.logger.Debug("listing request rejected",
			zap.String("listing_id", id),
			zap.Int("status", resp.StatusCode()))
		return nil, fetchErr
	}

	var l listing.Listing
	if err := json.Unmarshal(resp.Body(), &l); err != nil {
		fetchErr := listing.NewDecodeError(err)
		telemetry.RecordError(span, fetchErr)
		return nil, fetchErr
	}

	c.logger.Debug("listing fetched",
		zap.String("listing_id", id),
		zap.Duration("latency", resp.Time()))
	telemetry.SetOK(span)
	return &l, nil
}

// categoryAttribute is one entry of the category attributes response
type categoryAttribute struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type categoryAttributesResponse struct {
	Attributes []categoryAttribute `json:"attributes"`
}

// ErrNoCategory is the soft failure recorded when a listing has no category
var ErrNoCategory = errors.New("listing has no category")

// FetchCategoryAttributes returns the attribute labels of a category. Any
// failure yields an empty map with the cause in Err.
func (c *Client) FetchCategoryAttributes(ctx context.Context, categoryID string) shared.SoftResult[listing.AttributeLabelMap] {
	empty := listing.AttributeLabelMap{}
	if categoryID == "" {
		return shared.Fallback(empty, ErrNoCategory)
	}

	ctx, span := telemetry.StartSpan(ctx, "garage.fetch_category_attributes",
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrCategoryID, categoryID))
	defer span.End()

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", categoryID).
		Get("/categories/{id}/attributes")
	if err != nil {
		telemetry.RecordError(span, err)
		return shared.Fallback(empty, fmt.Errorf("failed to fetch category attributes: %w", err))
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrHTTPStatus, resp.StatusCode())
	if !resp.IsSuccess() {
		err := fmt.Errorf("failed to fetch category attributes: status %d", resp.StatusCode())
		telemetry.RecordError(span, err)
		return shared.Fallback(empty, err)
	}

	var body categoryAttributesResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		telemetry.RecordError(span, err)
		return shared.Fallback(empty, fmt.Errorf("failed to decode category attributes: %w", err))
	}

	labels := make(listing.AttributeLabelMap, len(body.Attributes))
	for _, attr := range body.Attributes {
		labels[attr.ID] = attr.Label
	}
	telemetry.SetOK(span)
	return shared.Ok(labels)
}
