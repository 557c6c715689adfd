package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/username/altpipe/src/models"
)

// tradeColumns is the non-id column list of the staging trades table.
// Insert order must match InsertTrade's argument order; select order must
// match scanTrade.
const tradeColumns = `handle, filename, filehash, row, account_name, account_number, security_description, security_ticker, asset_class, security_type, tx_type, cusip, price, quantity, commission, fee, principal, net_amount, trade_date, settlement_date, broker, trader`

// TradeStore persists normalized trades to the staging database. The table
// is append-only; trades are never updated after insert.
type TradeStore struct {
	db *sql.DB
}

func NewTradeStore(db *sql.DB) *TradeStore {
	return &TradeStore{db: db}
}

// InsertTrade appends one trade. The staging database assigns the id.
func (s *TradeStore) InsertTrade(ctx context.Context, t *models.Trade) error {
	query := `INSERT INTO trades (` + tradeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`

	_, err := s.db.ExecContext(ctx, query,
		t.Handle,
		t.Filename,
		t.Filehash,
		t.Row,
		t.AccountName,
		t.AccountNumber,
		t.SecurityDescription,
		t.SecurityTicker,
		t.AssetClass,
		t.SecurityType,
		t.TxType,
		t.Cusip,
		t.Price,
		t.Quantity,
		t.Commission,
		t.Fee,
		t.Principal,
		t.NetAmount,
		t.TradeDate,
		t.SettlementDate,
		t.Broker,
		t.Trader,
	)
	if err != nil {
		return fmt.Errorf("%w: inserting trade (file %s row %d): %v", models.ErrStorage, t.Filename, t.Row, err)
	}
	return nil
}

// GetAllTrades returns every trade for the handle in insertion order.
func (s *TradeStore) GetAllTrades(ctx context.Context, handle string) ([]models.Trade, error) {
	query := `SELECT id, ` + tradeColumns + ` FROM trades WHERE handle = $1 ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, handle)
	if err != nil {
		return nil, fmt.Errorf("%w: querying trades for handle %s: %v", models.ErrStorage, handle, err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning trade row: %v", models.ErrStorage, err)
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating trades for handle %s: %v", models.ErrStorage, handle, err)
	}
	return trades, nil
}

func scanTrade(rows *sql.Rows) (models.Trade, error) {
	var t models.Trade
	err := rows.Scan(
		&t.ID,
		&t.Handle,
		&t.Filename,
		&t.Filehash,
		&t.Row,
		&t.AccountName,
		&t.AccountNumber,
		&t.SecurityDescription,
		&t.SecurityTicker,
		&t.AssetClass,
		&t.SecurityType,
		&t.TxType,
		&t.Cusip,
		&t.Price,
		&t.Quantity,
		&t.Commission,
		&t.Fee,
		&t.Principal,
		&t.NetAmount,
		&t.TradeDate,
		&t.SettlementDate,
		&t.Broker,
		&t.Trader,
	)
	return t, err
}
