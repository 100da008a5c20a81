package invoice

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/garage/invoicer/internal/domain/listing"
	"github.com/garage/invoicer/internal/domain/printing"
	"github.com/garage/invoicer/internal/domain/shared"
	infra "github.com/garage/invoicer/internal/infrastructure/printing"
	"github.com/garage/invoicer/internal/infrastructure/logger"
	"github.com/garage/invoicer/internal/infrastructure/telemetry"
)

// ListingSource fetches listings and their category attribute labels
type ListingSource interface {
	FetchListing(ctx context.Context, id string) (*listing.Listing, error)
	FetchCategoryAttributes(ctx context.Context, categoryID string) shared.SoftResult[listing.AttributeLabelMap]
}

// ImageLoader loads a remote image re-encoded to format
type ImageLoader interface {
	Load(ctx context.Context, url string, format printing.ImageFormat) shared.SoftResult[*printing.Image]
}

// Options holds invoice content settings
type Options struct {
	LogoURL     string
	LogoEnabled bool
}

// Service generates listing invoices
type Service struct {
	source   ListingSource
	images   ImageLoader
	renderer infra.DocumentRenderer
	storage  infra.DocumentStorage
	options  Options
	metrics  *telemetry.Metrics
	logger   *zap.Logger
}

// NewService creates a new invoice Service. storage and metrics may be nil.
func NewService(
	source ListingSource,
	images ImageLoader,
	renderer infra.DocumentRenderer,
	storage infra.DocumentStorage,
	options Options,
	metrics *telemetry.Metrics,
	log *zap.Logger,
) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		source:   source,
		images:   images,
		renderer: renderer,
		storage:  storage,
		options:  options,
		metrics:  metrics,
		logger:   log,
	}
}

// GenerateFromText extracts the listing id from text (usually a listing URL)
// and generates its invoice
func (s *Service) GenerateFromText(ctx context.Context, text string) (*Result, error) {
	id, ok := listing.ExtractID(text)
	if !ok {
		return nil, shared.ErrInvalidListingURL
	}
	return s.Generate(ctx, id)
}

// Generate fetches listing id, gathers the best-effort inputs, renders the
// invoice and archives it when a storage is configured
func (s *Service) Generate(ctx context.Context, id string) (result *Result, err error) {
	start := time.Now()
	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "generate",
		telemetry.WithAttribute(telemetry.SpanAttrListingID, id))
	log := logger.L(ctx, s.logger).With(zap.String("listing_id", id))

	defer func() {
		outcome := telemetry.OutcomeSuccess
		if err != nil {
			outcome = telemetry.OutcomeFailed
			log.Warn("invoice generation failed", zap.Error(err))
		}
		s.metrics.RecordInvoice(outcome, time.Since(start))
		telemetry.Finish(span, err)
	}()

	if !listing.IsListingID(id) {
		return nil, shared.ErrInvalidListingURL
	}

	l, err := s.source.FetchListing(ctx, id)
	if err != nil {
		return nil, err
	}

	in, degraded := s.gather(ctx, l)
	for _, step := range degraded {
		s.metrics.RecordSoftFailure(string(step))
	}

	doc, err := s.renderer.Render(ctx, in)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordDocument(doc.PageCount, doc.Size())

	result = &Result{Listing: l, Document: doc, Degraded: degraded}
	if s.storage != nil {
		location, err := s.storage.Save(ctx, doc)
		if err != nil {
			return nil, err
		}
		result.Location = location
		telemetry.SetAttributes(span, telemetry.SpanAttrLocation, location)
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrPageCount, doc.PageCount,
		telemetry.SpanAttrSizeBytes, doc.Size(),
		telemetry.SpanAttrDegraded, result.DegradedSteps())
	log.Info("invoice generated",
		zap.String("filename", doc.Filename),
		zap.Int("pages", doc.PageCount),
		zap.Strings("degraded", result.DegradedSteps()),
		zap.String("location", result.Location),
		zap.Duration("duration", time.Since(start)))
	return result, nil
}

// gather runs the label, logo and image loads concurrently. None of them can
// fail the invoice; each failure is logged and reported as a degraded step.
func (s *Service) gather(ctx context.Context, l *listing.Listing) (*infra.RenderInput, []SoftStep) {
	log := logger.L(ctx, s.logger).With(zap.String("listing_id", l.ID))

	var (
		labels  = shared.Ok(listing.AttributeLabelMap{})
		logo    shared.SoftResult[*printing.Image]
		primary shared.SoftResult[*printing.Image]
	)

	var g errgroup.Group
	if categoryID := l.CategoryRef(); categoryID != "" {
		g.Go(func() error {
			labels = s.source.FetchCategoryAttributes(ctx, categoryID)
			return nil
		})
	}
	if s.options.LogoEnabled && s.options.LogoURL != "" {
		g.Go(func() error {
			logo = s.images.Load(ctx, s.options.LogoURL, printing.ImageFormatPNG)
			return nil
		})
	}
	if url := l.PrimaryImageURL(); url != "" {
		g.Go(func() error {
			primary = s.images.Load(ctx, url, printing.ImageFormatJPEG)
			return nil
		})
	}
	_ = g.Wait()

	var degraded []SoftStep
	note := func(step SoftStep, err error) {
		if err == nil {
			return
		}
		degraded = append(degraded, step)
		log.Warn("best-effort step degraded", zap.String("step", string(step)), zap.Error(err))
	}
	note(StepLabels, labels.Err)
	note(StepLogo, logo.Err)
	note(StepImage, primary.Err)

	labelMap := labels.Value
	if labelMap == nil {
		labelMap = listing.AttributeLabelMap{}
	}
	return &infra.RenderInput{
		Listing: l,
		Labels:  labelMap,
		Logo:    logo.Value,
		Primary: primary.Value,
	}, degraded
}

// Preview extracts the listing id from text and returns the listing summary
// without rendering anything
func (s *Service) Preview(ctx context.Context, text string) (*Summary, error) {
	id, ok := listing.ExtractID(text)
	if !ok {
		return nil, shared.ErrInvalidListingURL
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "invoice", "preview",
		telemetry.WithAttribute(telemetry.SpanAttrListingID, id))
	defer span.End()

	l, err := s.source.FetchListing(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetOK(span)
	return NewSummary(l), nil
}
