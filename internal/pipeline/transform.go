package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/zip-census/internal/census"
	"github.com/couchcryptid/zip-census/internal/domain"
	"github.com/couchcryptid/zip-census/internal/observability"
)

// ZipTransformer implements Transformer by classifying each lookup request.
type ZipTransformer struct {
	classifier *census.Classifier
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewTransformer creates a ZipTransformer. A nil classifier uses census.Default().
func NewTransformer(classifier *census.Classifier, metrics *observability.Metrics, logger *slog.Logger) *ZipTransformer {
	if classifier == nil {
		classifier = census.Default()
	}
	return &ZipTransformer{
		classifier: classifier,
		metrics:    metrics,
		logger:     logger,
	}
}

func (t *ZipTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	req, err := domain.ParseLookupRequest(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	classified, err := domain.ClassifyRequest(t.classifier, req)
	t.metrics.ObserveLookup("classify", census.KindOf(err).String())
	if err != nil {
		return domain.OutputEvent{}, err
	}

	t.logger.Debug("zip classified",
		"request_id", classified.RequestID,
		"zip_code", classified.ZipCode,
		"region", classified.Region,
	)
	return domain.SerializeClassified(classified)
}
