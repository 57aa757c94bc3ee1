package amount

import (
	"bufio"
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

// Parse reads an amount from its textual form. The two accepted shapes
// are:
//
//	[-]NUM[ ]SYM
//	SYM[ ][-]NUM
//
// where SYM may be double quoted when it contains spaces or other
// characters that would end an unquoted symbol. The notation observed is
// recorded on the interned commodity: symbol placement, separating
// whitespace, digit grouping, European separators, and a display
// precision at least as large as the number of fractional digits seen.
//
// A number without a symbol parses under the registry's null commodity.
func (r *Registry) Parse(s string) (Amount, error) {
	return r.ParseReader(bufio.NewReader(strings.NewReader(s)))
}

// ParseReader reads one amount from in, leaving the reader just after its
// last character. Partially consumed input is not rewound on error.
func (r *Registry) ParseReader(in *bufio.Reader) (Amount, error) {
	var symbol, quant string
	var quoted bool
	var flags Style
	var err error

	c, eof := peekNextNonWS(in)
	if eof {
		return Amount{}, fmt.Errorf("parsing amount: empty input: %w", ErrParse)
	}
	if unicode.IsDigit(c) || c == '.' || c == '-' {
		quant = readQuantity(in)
		if n, _, e := in.ReadRune(); e == nil {
			if n == '\n' {
				in.UnreadRune()
			} else {
				if unicode.IsSpace(n) {
					flags |= Separated
				} else {
					in.UnreadRune()
				}
				symbol, quoted, err = readSymbol(in)
				if err != nil {
					return Amount{}, err
				}
				if symbol == "" {
					// trailing whitespace only: not a suffixed style
					flags &^= Separated
				} else {
					flags |= Suffixed
				}
			}
		}
	} else {
		symbol, quoted, err = readSymbol(in)
		if err != nil {
			return Amount{}, err
		}
		if n, _, e := in.ReadRune(); e == nil {
			if unicode.IsSpace(n) {
				flags |= Separated
			}
			in.UnreadRune()
		}
		quant = readQuantity(in)
	}

	lastComma := strings.LastIndexByte(quant, ',')
	lastPeriod := strings.LastIndexByte(quant, '.')
	var prec int
	switch {
	case lastComma >= 0 && lastPeriod >= 0:
		flags |= Thousands
		if lastComma > lastPeriod {
			flags |= European
			prec = len(quant) - lastComma - 1
		} else {
			prec = len(quant) - lastPeriod - 1
		}
	case lastComma >= 0:
		flags |= European
		prec = len(quant) - lastComma - 1
	case lastPeriod >= 0:
		prec = len(quant) - lastPeriod - 1
	}
	if prec > maxPrecision {
		return Amount{}, fmt.Errorf("parsing quantity %q: more than %d fractional digits: %w", quant, maxPrecision, ErrParse)
	}

	digits := strings.Map(func(r rune) rune {
		if r == ',' || r == '.' {
			return -1
		}
		return r
	}, quant)
	mag, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return Amount{}, fmt.Errorf("parsing quantity %q: %w", quant, ErrParse)
	}

	com := r.Find(symbol, true)
	com.flags |= flags
	if quoted {
		com.quoted = true
	}
	if uint16(prec) > com.precision {
		com.precision = uint16(prec)
	}

	q := newBigint()
	q.mag = mag
	q.prec = uint16(prec)
	return Amount{quantity: q, commodity: com}, nil
}

// peekNextNonWS skips whitespace and returns the next rune without
// consuming it. eof is set when the input ends first.
func peekNextNonWS(in *bufio.Reader) (c rune, eof bool) {
	for {
		r, _, err := in.ReadRune()
		if err != nil {
			return 0, true
		}
		if !unicode.IsSpace(r) {
			in.UnreadRune()
			return r, false
		}
	}
}

// readQuantity consumes the numeric token: digits, sign, periods and
// commas, after skipping leading whitespace.
func readQuantity(in *bufio.Reader) string {
	if _, eof := peekNextNonWS(in); eof {
		return ""
	}
	var b strings.Builder
	for {
		r, _, err := in.ReadRune()
		if err != nil {
			break
		}
		if !unicode.IsDigit(r) && r != '-' && r != '.' && r != ',' {
			in.UnreadRune()
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}

// readSymbol consumes a commodity symbol after skipping leading
// whitespace: either a double quoted run, or a run of characters that are
// not whitespace, digits, signs or periods.
func readSymbol(in *bufio.Reader) (symbol string, quoted bool, err error) {
	c, eof := peekNextNonWS(in)
	if eof {
		return "", false, nil
	}
	var b strings.Builder
	if c == '"' {
		in.ReadRune()
		for {
			r, _, e := in.ReadRune()
			if e != nil {
				return "", false, fmt.Errorf("quoted commodity symbol lacks closing quote: %w", ErrParse)
			}
			if r == '"' {
				break
			}
			b.WriteRune(r)
		}
		return b.String(), true, nil
	}
	for {
		r, _, e := in.ReadRune()
		if e != nil {
			break
		}
		if unicode.IsSpace(r) || unicode.IsDigit(r) || r == '-' || r == '.' {
			in.UnreadRune()
			break
		}
		b.WriteRune(r)
	}
	return b.String(), false, nil
}
