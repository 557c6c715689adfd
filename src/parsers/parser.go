package parsers

import (
	"github.com/username/altpipe/src/models"
	"github.com/username/altpipe/src/parsers/sheet"
)

// Parser normalizes one vendor's sheet grid into canonical Trades. The
// filename and filehash stamp every produced Trade; trades come back in
// data-row order with IDs unset.
type Parser interface {
	Parse(grid *sheet.Grid, filename, filehash string) ([]models.Trade, error)
}
