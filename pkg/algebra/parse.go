package algebra

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrParse is returned for a literal that is neither a numeric value nor a
// bare identifier.
var ErrParse = errors.New("algebra: malformed literal")

// Engineering suffixes accepted on numeric literals, SPICE style.
var unitMap = map[string]float64{
	"T":   1e12,
	"G":   1e9,
	"meg": 1e6,
	"K":   1e3,
	"k":   1e3,
	"m":   1e-3,
	"u":   1e-6,
	"n":   1e-9,
	"p":   1e-12,
	"f":   1e-15,
}

var (
	valueRe = regexp.MustCompile(`^([-+]?\d*\.?\d+(?:[eE][-+]?\d+)?)(meg|[TGKkmunpf])?$`)
	symRe   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Parse turns a literal into an expression. Numeric literals, including
// engineering suffixes ("4.7k", "10u", "2meg") and decimal commas, become
// Num; bare identifiers become Sym; anything else fails with ErrParse.
func Parse(literal string) (Expr, error) {
	s := strings.TrimSpace(literal)
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return nil, fmt.Errorf("%w: empty literal", ErrParse)
	}
	if m := valueRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrParse, literal)
		}
		if m[2] != "" {
			n *= unitMap[m[2]]
		}
		return Num(n), nil
	}
	if symRe.MatchString(s) {
		return Sym(s), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrParse, literal)
}

// SafeSymbol strips characters that cannot appear in a symbol name and
// falls back when nothing survives.
func SafeSymbol(base, fallback string) string {
	var b strings.Builder
	for _, r := range base {
		if r == '_' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}
