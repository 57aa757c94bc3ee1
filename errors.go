package amount

import "errors"

// Sentinel errors returned by the engine. They are always wrapped with
// context; test with errors.Is.
var (
	// ErrParse reports a malformed amount: an empty or non-numeric
	// quantity token, or a quoted symbol without its closing quote.
	ErrParse = errors.New("invalid amount")

	// ErrCommodityMismatch reports an addition or subtraction of two
	// amounts whose commodities differ and are both non-null.
	ErrCommodityMismatch = errors.New("commodity mismatch")

	// ErrDivideByZero reports a division whose divisor has no quantity.
	ErrDivideByZero = errors.New("divide by zero")

	// ErrBinaryFormat reports a corrupted quantity record: a tag byte
	// outside {0,1,2}, a truncated record, or a reference index that does
	// not resolve to a previously read cell.
	ErrBinaryFormat = errors.New("bad quantity record")
)
