package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/username/altpipe/src/logger"
	"github.com/username/altpipe/src/models"
	"github.com/username/altpipe/src/utils"
)

// SummaryStore writes derived artifacts (summaries and chains) to the
// downstream operational database.
type SummaryStore struct {
	db *sql.DB
}

func NewSummaryStore(db *sql.DB) *SummaryStore {
	return &SummaryStore{db: db}
}

func (s *SummaryStore) InsertFileSummary(ctx context.Context, sum *models.FileSummary) error {
	now := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO file_summaries (handle, filename, filehash, calc, inserted_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		sum.Handle, sum.Filename, sum.Filehash, sum.Calc, now, now)
	if err != nil {
		return fmt.Errorf("%w: inserting file summary for %s: %v", models.ErrStorage, sum.Filename, err)
	}
	return nil
}

func (s *SummaryStore) InsertAccountSummary(ctx context.Context, sum *models.AccountSummary) error {
	now := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO account_summaries (handle, tx_type, account_name, calc, inserted_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		sum.Handle, sum.TxType, sum.AccountName, sum.Calc, now, now)
	if err != nil {
		return fmt.Errorf("%w: inserting account summary for %s/%s: %v", models.ErrStorage, sum.TxType, sum.AccountName, err)
	}
	return nil
}

func (s *SummaryStore) InsertSecuritySummary(ctx context.Context, sum *models.SecuritySummary) error {
	now := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO security_summaries (handle, tx_type, security_ticker, calc, inserted_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		sum.Handle, sum.TxType, sum.SecurityTicker, sum.Calc, now, now)
	if err != nil {
		return fmt.Errorf("%w: inserting security summary for %s/%s: %v", models.ErrStorage, sum.TxType, sum.SecurityTicker, err)
	}
	return nil
}

// CleanSummaries deletes the handle's rows from all three summary tables so
// summarization is an idempotent recomputation, matching the chain policy.
func (s *SummaryStore) CleanSummaries(ctx context.Context, handle string) error {
	for _, table := range []string{"file_summaries", "account_summaries", "security_summaries"} {
		if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE handle = $1", table), handle); err != nil {
			return fmt.Errorf("%w: cleaning %s for handle %s: %v", models.ErrStorage, table, handle, err)
		}
	}
	return nil
}

// PublishChains replaces the handle's chain rows with the given set. The
// clean and every member insert run in one transaction, so a failed run
// never leaves a partial chain visible. Each chain gets a fresh 24-hex
// object-id token shared by its members.
func (s *SummaryStore) PublishChains(ctx context.Context, handle string, chains []models.TradeChain) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning chain publication for handle %s: %v", models.ErrStorage, handle, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chains WHERE handle = $1", handle); err != nil {
		return fmt.Errorf("%w: cleaning chains for handle %s: %v", models.ErrStorage, handle, err)
	}

	for _, chain := range chains {
		chainID := primitive.NewObjectID().Hex()
		logger.L.Debug("publishing chain", "chainID", chainID, "head", chain.Head.ID, "members", len(chain.Chain))
		for _, member := range chain.Chain {
			head := member.ID == chain.Head.ID
			if err := insertChainMember(ctx, tx, chainID, head, &member); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing chain publication for handle %s: %v", models.ErrStorage, handle, err)
	}
	return nil
}

// insertChainMember writes one chain row. Monetary and quantity fields go
// in as absolute values; epoch-second dates become naive timestamps.
func insertChainMember(ctx context.Context, tx *sql.Tx, chainID string, head bool, t *models.Trade) error {
	now := time.Now()
	_, err := tx.ExecContext(ctx,
		`INSERT INTO chains (handle, filename, filehash, row, chain_id, head, security_ticker, account_name, tx_type, price, quantity, commission, net_amount, broker, trade_date, settlement_date, inserted_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		t.Handle,
		t.Filename,
		t.Filehash,
		t.Row,
		chainID,
		head,
		t.SecurityTicker,
		t.AccountName,
		t.TxType,
		math.Abs(t.Price),
		math.Abs(t.Quantity),
		math.Abs(t.Commission),
		math.Abs(t.NetAmount),
		t.Broker,
		utils.UnixToNaive(t.TradeDate),
		utils.UnixToNaive(t.SettlementDate),
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("%w: inserting chain member (chain %s trade %d): %v", models.ErrStorage, chainID, t.ID, err)
	}
	return nil
}
