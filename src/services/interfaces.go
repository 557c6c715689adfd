package services

import (
	"context"
	"errors"
)

// ErrIngestFailed wraps any schema or storage failure that aborts a file
// during ingestion.
var ErrIngestFailed = errors.New("ingest failed")

// PipelineService drives the ingest and derivation stages for one vendor
// handle.
type PipelineService interface {
	// IngestFiles runs Reader → Normalizer → Trade Store over every
	// configured input file, sequentially, in configured order.
	IngestFiles(ctx context.Context, handle string) error
	// Summarize derives the summary rollups and the chain set from staging
	// and publishes them downstream.
	Summarize(ctx context.Context, handle string) error
}
