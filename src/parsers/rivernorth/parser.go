// Package rivernorth normalizes RiverNorth activity exports. The vendor
// ships one workbook per month with a single "Sheet1" worksheet: a header
// row of vendor column labels followed by one row per transaction.
package rivernorth

import (
	"fmt"
	"strings"

	"github.com/username/altpipe/src/models"
	"github.com/username/altpipe/src/parsers/sheet"
	"github.com/username/altpipe/src/utils"
)

// Handle tags every artifact produced from this vendor's files.
const Handle = "rivernorth"

// NoData is persisted in place of any string cell the vendor left blank or
// mistyped. Numeric cells default to 0 instead.
const NoData = "ALTP ERROR NO DATA PROVIDED"

// Header-mapping sentinels: NoMatch means the label is present but unknown,
// NoCell means there was no string label at all.
const (
	NoMatch = "nomatch"
	NoCell  = "NoBueno"
)

// headerMap translates the vendor's column labels (lowercased) to canonical
// field names.
//
// TODO: confirm the portfolioaccountnumber/portfolioaccounttype assignment
// against RiverNorth's file documentation; number→name and type→number
// looks transposed but matches the feed as received.
var headerMap = map[string]string{
	"portfolioaccountnumber": "account_name",
	"portfolioaccounttype":   "account_number",
	"activity":               "tx_type",
	"securitysymbol":         "security_ticker",
	"cusip":                  "cusip",
	"securitydescription":    "security_description",
	"tradedate":              "trade_date",
	"quantity":               "quantity",
	"principalunitcost":      "price",
	"principal":              "principal",
	"commission":             "commission",
	"fee":                    "fee",
	"netamount":              "net_amount",
	"settlementdate":         "settlement_date",
	"securitytype":           "security_type",
	"broker":                 "broker",
	"trader":                 "trader",
}

// requiredColumns is the full canonical set a RiverNorth sheet must map.
var requiredColumns = []string{
	"cusip",
	"account_name",
	"account_number",
	"security_description",
	"security_ticker",
	"security_type",
	"tx_type",
	"price",
	"quantity",
	"commission",
	"fee",
	"principal",
	"net_amount",
	"trade_date",
	"settlement_date",
	"broker",
	"trader",
}

// MapHeader resolves one header cell to its canonical field name.
func MapHeader(cell sheet.Cell) string {
	label, ok := cell.String()
	if !ok {
		return NoCell
	}
	if canonical, found := headerMap[strings.ToLower(label)]; found {
		return canonical
	}
	return NoMatch
}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse normalizes every data row of the grid into a Trade. Header problems
// fail the whole sheet; data-level deficiencies never do, they default.
func (p *Parser) Parse(grid *sheet.Grid, filename, filehash string) ([]models.Trade, error) {
	rows := grid.Rows()
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet has no header row", models.ErrSchema)
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	trades := make([]models.Trade, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		r := rows[i]
		trade := models.Trade{
			Handle:              Handle,
			Filename:            filename,
			Filehash:            filehash,
			Row:                 int32(i),
			AccountName:         stringOrNoData(r[cols["account_name"]]),
			AccountNumber:       stringOrNoData(r[cols["account_number"]]),
			SecurityDescription: stringOrNoData(r[cols["security_description"]]),
			SecurityTicker:      stringOrNoData(r[cols["security_ticker"]]),
			SecurityType:        stringOrNoData(r[cols["security_type"]]),
			// The feed has no separate asset-class column; it reads from
			// the security-type cell until the vendor provides one.
			AssetClass:     stringOrNoData(r[cols["security_type"]]),
			TxType:         stringOrNoData(r[cols["tx_type"]]),
			Broker:         stringOrNoData(r[cols["broker"]]),
			Trader:         stringOrNoData(r[cols["trader"]]),
			Cusip:          stringOrNoData(r[cols["cusip"]]),
			Price:          floatOrZero(r[cols["price"]]),
			Quantity:       floatOrZero(r[cols["quantity"]]),
			Commission:     floatOrZero(r[cols["commission"]]),
			Fee:            floatOrZero(r[cols["fee"]]),
			Principal:      floatOrZero(r[cols["principal"]]),
			NetAmount:      floatOrZero(r[cols["net_amount"]]),
			TradeDate:      serialDate(r[cols["trade_date"]]),
			SettlementDate: serialDate(r[cols["settlement_date"]]),
		}
		trades = append(trades, trade)
	}
	return trades, nil
}

// mapColumns maps the header row and verifies the required canonical set is
// fully covered with no unknown labels left over.
func mapColumns(header []sheet.Cell) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for idx, cell := range header {
		mapped := MapHeader(cell)
		if mapped == NoMatch {
			return nil, fmt.Errorf("%w: unmapped header %q at column %d", models.ErrSchema, cell.Raw(), idx)
		}
		if mapped == NoCell {
			continue
		}
		cols[mapped] = idx
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %s", models.ErrSchema, name)
		}
	}
	return cols, nil
}

func stringOrNoData(c sheet.Cell) string {
	if s, ok := c.String(); ok {
		return s
	}
	return NoData
}

func floatOrZero(c sheet.Cell) float64 {
	if f, ok := c.Float(); ok {
		return f
	}
	return 0.0
}

// serialDate decodes a spreadsheet day-serial cell into epoch seconds,
// defaulting unparseable cells to serial 1.
func serialDate(c sheet.Cell) int64 {
	return utils.SerialToUnix(utils.ParseSerial(c.Raw()))
}
