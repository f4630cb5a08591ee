package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/couchcryptid/zip-census/internal/census"
)

// ParseLookupRequest deserializes a RawEvent's value into a LookupRequest.
// The ZIP code is passed through untouched so the classifier validates it
// exactly as it does for HTTP and CLI lookups.
func ParseLookupRequest(raw RawEvent) (LookupRequest, error) {
	var req LookupRequest
	if err := json.Unmarshal(raw.Value, &req); err != nil {
		return LookupRequest{}, fmt.Errorf("parse lookup request: %w", err)
	}
	req.RequestID = strings.TrimSpace(req.RequestID)
	if req.RequestID == "" {
		req.RequestID = string(raw.Key)
	}
	return req, nil
}

// ClassifyRequest answers req with c and stamps the result with the current time.
func ClassifyRequest(c *census.Classifier, req LookupRequest) (ClassifiedZip, error) {
	result, err := c.Classify(req.ZipCode)
	if err != nil {
		return ClassifiedZip{}, fmt.Errorf("classify zip %q: %w", req.ZipCode, err)
	}
	return ClassifiedZip{
		RequestID:   req.RequestID,
		ZipCode:     result.ZipCode,
		State:       result.State,
		Division:    result.Division,
		Region:      result.Region,
		ProcessedAt: clock.Now().UTC(),
	}, nil
}

// SerializeClassified marshals a ClassifiedZip into an OutputEvent keyed by
// request id, or by ZIP code when the request carried no id.
func SerializeClassified(zip ClassifiedZip) (OutputEvent, error) {
	data, err := json.Marshal(zip)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize classified zip: %w", err)
	}
	key := zip.RequestID
	if key == "" {
		key = zip.ZipCode
	}
	return OutputEvent{
		Key:   []byte(key),
		Value: data,
		Headers: map[string]string{
			"division":     zip.Division,
			"region":       zip.Region,
			"processed_at": zip.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
