package processors

import (
	"context"

	"github.com/username/altpipe/src/models"
)

// TradeSource fetches staged trades for a handle in insertion order.
type TradeSource interface {
	GetAllTrades(ctx context.Context, handle string) ([]models.Trade, error)
}

// SummarySink receives derived rollups in the downstream store.
type SummarySink interface {
	CleanSummaries(ctx context.Context, handle string) error
	InsertFileSummary(ctx context.Context, sum *models.FileSummary) error
	InsertAccountSummary(ctx context.Context, sum *models.AccountSummary) error
	InsertSecuritySummary(ctx context.Context, sum *models.SecuritySummary) error
}

// ChainSink atomically replaces a handle's published chains.
type ChainSink interface {
	PublishChains(ctx context.Context, handle string, chains []models.TradeChain) error
}
