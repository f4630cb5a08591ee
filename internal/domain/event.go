package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// LookupRequest asks for the Census classification of one ZIP code.
type LookupRequest struct {
	ZipCode   string `json:"zip_code"`
	RequestID string `json:"request_id,omitempty"`
}

// ClassifiedZip is a LookupRequest answered by the classifier.
type ClassifiedZip struct {
	RequestID   string    `json:"request_id,omitempty"`
	ZipCode     string    `json:"zip_code"`
	State       string    `json:"state"`
	Division    string    `json:"division"`
	Region      string    `json:"region"`
	ProcessedAt time.Time `json:"processed_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
