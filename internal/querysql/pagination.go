package querysql

import (
	"math"
	"strconv"
	"strings"

	"github.com/roach88/filterql/internal/filterir"
)

// ResolveSkip coerces raw to a row offset. nil means absent (0); negative
// values clamp to 0.
func (c *Compiler) ResolveSkip(raw any) (int, error) {
	if raw == nil {
		return 0, nil
	}

	skip, err := toInt(raw, "$.skip")
	if err != nil {
		return 0, err
	}
	if skip < 0 {
		c.logger.Warn("clamping negative skip", "skip", skip)
		return 0, nil
	}
	return skip, nil
}

// ResolveLimit coerces raw to a page size. nil and non-positive values use
// the default limit; values above the max limit are clamped to it.
func (c *Compiler) ResolveLimit(raw any) (int, error) {
	limit := c.defaultLimit

	if raw != nil {
		parsed, err := toInt(raw, "$.limit")
		if err != nil {
			return 0, err
		}
		if parsed > 0 {
			limit = parsed
		} else {
			c.logger.Warn("replacing non-positive limit with default",
				"limit", parsed,
				"default", c.defaultLimit)
		}
	}

	if c.maxLimit > 0 && limit > c.maxLimit {
		c.logger.Debug("clamping limit", "limit", limit, "max", c.maxLimit)
		limit = c.maxLimit
	}
	return limit, nil
}

// toInt accepts integers, floats (truncated) and decimal strings. Every
// form must land in the int32 range.
func toInt(raw any, path string) (int, error) {
	switch v := raw.(type) {
	case int:
		return intInRange(int64(v), raw, path)
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return intInRange(v, raw, path)
	case uint:
		return uintInRange(uint64(v), raw, path)
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return uintInRange(uint64(v), raw, path)
	case uint64:
		return uintInRange(v, raw, path)
	case float32:
		return floatToInt(float64(v), raw, path)
	case float64:
		return floatToInt(v, raw, path)
	case string:
		s := strings.TrimSpace(v)
		if !isDecimal(s) {
			return 0, filterir.NewOperationError(path, "expected an integer, found %q", v)
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return intInRange(i, raw, path)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, filterir.NewOperationError(path, "%v is out of range", raw)
		}
		return floatToInt(f, raw, path)
	default:
		return 0, filterir.NewOperationError(path, "expected an integer, found %T", raw)
	}
}

func intInRange(i int64, raw any, path string) (int, error) {
	if i > math.MaxInt32 || i < math.MinInt32 {
		return 0, filterir.NewOperationError(path, "%v is out of range", raw)
	}
	return int(i), nil
}

func uintInRange(u uint64, raw any, path string) (int, error) {
	if u > math.MaxInt32 {
		return 0, filterir.NewOperationError(path, "%v is out of range", raw)
	}
	return int(u), nil
}

func floatToInt(f float64, raw any, path string) (int, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, filterir.NewOperationError(path, "expected an integer, found %v", raw)
	}
	if f >= math.MaxInt32+1 || f <= math.MinInt32-1 {
		return 0, filterir.NewOperationError(path, "%v is out of range", raw)
	}
	return int(f), nil
}

// isDecimal matches an optional sign, digits, and an optional fraction.
// Exponents, hex and special values like "inf" are refused.
func isDecimal(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	digits := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.' && digits > 0 && !strings.Contains(s[i+1:], "."):
		default:
			return false
		}
	}
	return digits > 0
}
