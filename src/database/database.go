package database

import (
	"database/sql"
	stdlog "log"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/username/altpipe/src/logger"
)

// Two logical stores back the pipeline: Staging holds normalized trades,
// Downstream holds summaries and chains for operational consumption.
var (
	Staging    *sql.DB
	Downstream *sql.DB
)

// InitDB opens and pings both stores. A connection failure here is fatal;
// nothing in the pipeline can run without its databases.
func InitDB(stagingDSN, downstreamDSN string) {
	Staging = open("staging", stagingDSN)
	Downstream = open("downstream", downstreamDSN)
}

func open(name, dsn string) *sql.DB {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		stdlog.Fatalf("failed to open %s database: %v", name, err)
	}
	if err := db.Ping(); err != nil {
		stdlog.Fatalf("failed to connect to %s database: %v", name, err)
	}
	if logger.L != nil {
		logger.L.Info("Database connected", "store", name)
	}
	return db
}

const createTradesStatement = `
CREATE TABLE trades (
	id SERIAL PRIMARY KEY,
	handle VARCHAR NOT NULL,
	filename VARCHAR NOT NULL,
	filehash VARCHAR NOT NULL,
	row INT NOT NULL,
	account_name VARCHAR NOT NULL,
	account_number VARCHAR NOT NULL,
	security_ticker VARCHAR NOT NULL,
	security_description VARCHAR NOT NULL,
	asset_class VARCHAR NOT NULL,
	security_type VARCHAR NOT NULL,
	tx_type VARCHAR NOT NULL,
	cusip VARCHAR NOT NULL,
	price FLOAT8 NOT NULL,
	quantity FLOAT8 NOT NULL,
	commission FLOAT8 NOT NULL,
	fee FLOAT8 NOT NULL,
	principal FLOAT8 NOT NULL,
	net_amount FLOAT8 NOT NULL,
	trade_date BIGINT NOT NULL,
	settlement_date BIGINT NOT NULL,
	broker VARCHAR NOT NULL,
	trader VARCHAR NOT NULL
)`

// BuildTradesTable creates the staging trades table.
func BuildTradesTable(db *sql.DB) error {
	_, err := db.Exec(createTradesStatement)
	return err
}

// DropTradesTable removes the staging trades table.
func DropTradesTable(db *sql.DB) error {
	_, err := db.Exec("DROP TABLE trades")
	return err
}
