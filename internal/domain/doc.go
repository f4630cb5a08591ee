// Package domain models ZIP lookup requests and their Census classifications
// as they travel through the Kafka enrichment pipeline.
//
// # Message Format
//
// Requests arrive on the source topic as JSON:
//
//	{"zip_code": "00501-4412", "request_id": "req-42"}
//
// The request id is optional. When it is absent the Kafka message key is used,
// and when the key is empty too the ZIP code itself keys the output. Keying by
// request id keeps a request and its answer on the same partition downstream.
//
// Classified results are written to the sink topic as:
//
//	{
//	  "request_id":   "req-42",
//	  "zip_code":     "00501-4412",
//	  "state":        "NY",
//	  "division":     "Middle Atlantic",
//	  "region":       "Northeast",
//	  "processed_at": "2024-04-26T15:10:00Z"
//	}
//
// with "division", "region" and "processed_at" also copied into message
// headers so consumers can route without decoding the value.
//
// # Failures
//
// A request whose ZIP is malformed or unknown fails with the classifier's
// error, wrapped with the request context. See [census.KindOf] for how the
// error is bucketed.
package domain
