package scalar

import (
	"regexp"
	"strconv"
)

// numeral matches a plain decimal numeral: optional sign, digits with an
// optional fraction, optional exponent. No surrounding whitespace.
var numeral = regexp.MustCompile(`^[+-]?([0-9]+(\.[0-9]*)?|\.[0-9]+)([eE][+-]?[0-9]+)?$`)

// Equal reports whether a and b are loosely equal.
//
// Integer 7000, Real 7000.0 and Text "7000" are all equal to each other
// pairwise with a numeric value, but Text "7000" and Text "7000.0" are not:
// text-to-text comparison never coerces.
func Equal(a, b Value) bool {
	ka, kb := KindOf(a), KindOf(b)

	if ka == KindNull || kb == KindNull {
		return ka == kb
	}

	if ka == KindText && kb == KindText {
		return a.(Text) == b.(Text)
	}

	// At least one side is numeric.
	x, ok := numericValue(a)
	if !ok {
		return false
	}
	y, ok := numericValue(b)
	if !ok {
		return false
	}
	return x.equal(y)
}

// number keeps integers exact instead of routing them through float64.
type number struct {
	isInt bool
	i     int64
	f     float64
}

func (n number) equal(o number) bool {
	if n.isInt && o.isInt {
		return n.i == o.i
	}
	return n.float() == o.float()
}

func (n number) float() float64 {
	if n.isInt {
		return float64(n.i)
	}
	return n.f
}

// numericValue returns the numeric reading of v, if it has one.
func numericValue(v Value) (number, bool) {
	switch val := v.(type) {
	case Integer:
		return number{isInt: true, i: int64(val)}, true
	case Real:
		return number{f: float64(val)}, true
	case Text:
		return parseNumeral(string(val))
	default:
		return number{}, false
	}
}

// parseNumeral interprets s as a number when it is a plain decimal numeral.
func parseNumeral(s string) (number, bool) {
	if !numeral.MatchString(s) {
		return number{}, false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return number{isInt: true, i: i}, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return number{}, false
	}
	return number{f: f}, true
}
