package parsers

import (
	"fmt"

	"github.com/username/altpipe/src/parsers/rivernorth"
)

// GetParser returns the normalizer for a vendor handle.
func GetParser(handle string) (Parser, error) {
	switch handle {
	case rivernorth.Handle:
		return rivernorth.NewParser(), nil
	default:
		return nil, fmt.Errorf("no parser available for handle: %s", handle)
	}
}
