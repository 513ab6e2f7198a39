package querysql

import (
	"strings"

	"github.com/roach88/filterql/internal/filterir"
)

// CompileSort parses a comma-separated "field [ASC|DESC]" list against the
// whitelist. Unknown and non-sortable fields are dropped; a missing or
// unrecognized direction falls back to the field's default. Neither is an
// error.
//
//	"username, bogus DESC, created desc"  →  username ASC, created DESC
func (c *Compiler) CompileSort(spec string) filterir.SortSpec {
	entries := filterir.SortSpec{}

	for _, token := range strings.Split(spec, ",") {
		parts := strings.Fields(strings.TrimSpace(token))
		if len(parts) == 0 {
			continue
		}
		field := parts[0]

		var dir filterir.Direction
		if len(parts) > 1 {
			parsed, ok := filterir.ParseDirection(parts[1])
			if ok {
				dir = parsed
			} else {
				c.logger.Warn("ignoring unrecognized sort direction",
					"field", field,
					"direction", parts[1])
			}
		}

		if c.whitelist == nil {
			c.logger.Warn("dropping sort field: no whitelist configured", "field", field)
			continue
		}
		def, ok := c.whitelist.SortDirection(field)
		if !ok {
			c.logger.Warn("dropping unknown or unsortable sort field", "field", field)
			continue
		}
		if dir == filterir.NotSortable {
			dir = def
		}

		entries = append(entries, filterir.SortEntry{Field: field, Direction: dir})
	}

	return entries
}
