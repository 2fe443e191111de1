// Package dec implements a fixed-point decimal value: an integer mantissa
// plus a base-ten exponent. It stores fractional quantities without binary
// rounding error, which makes it suitable for money and other exact
// quantities.
//
// A Dec holds two parts: the mantissa (Num) and the position of the decimal
// point from the right (Exp). The value 2039.756 can be stored as
// Dec{Num: 2039756, Exp: 3}, or equivalently as Dec{Num: 203975600, Exp: 5}.
// Raising Exp trades numeric range for decimal precision: Num is an int64,
// so at Exp 0 the range is ±9.22e18 and every increment of Exp divides the
// range by ten while adding one decimal place.
//
// Do NOT perform calculations through Float; it exists for display and
// export only. Arithmetic between two Dec values aligns the right operand
// to the left operand's exponent first, which truncates digits when the
// exponents differ. Shift both operands to a common exponent up front if
// you need symmetric behavior.
package dec

import "math"

// Dec is a fixed-point decimal number representing Num / 10^Exp.
type Dec struct {
	// Num is the mantissa, excluding any decimal point information.
	Num int64
	// Exp is the number of decimal places, counted from the right.
	Exp uint8
}

// New returns a Dec with the given mantissa and exponent.
//
//	New(2, 0)    // 2
//	New(2, 2)    // 0.02
//	New(5928, 1) // 592.8
func New(num int64, exp uint8) Dec {
	return Dec{Num: num, Exp: exp}
}

// Float converts the decimal to a float64.
//
// Use this for display and export only; calculating with the result defeats
// the point of fixed-point storage.
func (d Dec) Float() float64 {
	s := 1.0
	for step := d.Exp; step > 0; step-- {
		s *= 10
	}
	return float64(d.Num) / s
}

// Parts returns the mantissa and exponent.
func (d Dec) Parts() (int64, uint8) {
	return d.Num, d.Exp
}

// ShiftExp moves the decimal point to newExp places and returns the result.
//
// Raising the exponent multiplies the mantissa by powers of ten and may
// overflow int64; this is not checked. Lowering it divides with truncation,
// discarding precision. This is the single primitive every comparison and
// arithmetic operation builds on.
func (d *Dec) ShiftExp(newExp uint8) Dec {
	if d.Exp == newExp {
		return *d
	}

	diff := int64(d.Exp) - int64(newExp)
	step := diff
	if step < 0 {
		step = -step
	}

	if diff < 0 {
		// moving decimal to the right
		for ; step > 0; step-- {
			d.Num *= 10
		}
	} else {
		// moving decimal to the left
		for ; step > 0; step-- {
			d.Num /= 10
		}
	}

	d.Exp = newExp

	return *d
}

// MatchExp returns a copy of other shifted to d's exponent.
func (d Dec) MatchExp(other Dec) Dec {
	if other.Exp == d.Exp {
		return other
	}
	other.ShiftExp(d.Exp)
	return other
}

// Equal reports whether two decimals are numerically equal.
//
// Both sides are aligned to the larger of the two exponents before
// comparing mantissas, so New(202, 1) equals New(2020, 2).
func (d Dec) Equal(other Dec) bool {
	if d.Exp == other.Exp {
		return d.Num == other.Num
	}

	exp := d.Exp
	if other.Exp > exp {
		exp = other.Exp
	}
	a := d
	b := other
	a.ShiftExp(exp)
	b.ShiftExp(exp)
	return a.Num == b.Num
}

// Cmp compares d against other, returning -1, 0 or +1.
//
// The right operand is aligned to d's exponent first, so precision loss is
// asymmetric when the exponents differ. Align both sides beforehand if that
// matters to you.
func (d Dec) Cmp(other Dec) int {
	b := d.MatchExp(other)
	switch {
	case d.Num < b.Num:
		return -1
	case d.Num > b.Num:
		return 1
	default:
		return 0
	}
}

// Add returns d + other, with other aligned to d's exponent.
func (d Dec) Add(other Dec) Dec {
	b := d.MatchExp(other)
	d.Num += b.Num
	return d
}

// Sub returns d - other, with other aligned to d's exponent.
func (d Dec) Sub(other Dec) Dec {
	b := d.MatchExp(other)
	d.Num -= b.Num
	return d
}

// Mul returns d * other, with other aligned to d's exponent.
//
// The multiplication is performed on raw mantissas, so the result carries
// d's exponent, not the sum of both. Overflow is not checked.
func (d Dec) Mul(other Dec) Dec {
	b := d.MatchExp(other)
	d.Num *= b.Num
	return d
}

// Div returns d / other, with other aligned to d's exponent.
//
// The division truncates the mantissa quotient without pre-scaling, so
// legitimate nonzero quotients can come out as 0 (New(1, 0).Div(New(2, 0))
// is 0, not 0.5). Callers that need fractional quotients must scale the
// dividend up before dividing.
func (d Dec) Div(other Dec) Dec {
	b := d.MatchExp(other)
	d.Num /= b.Num
	return d
}

// Int64 truncates the decimal to a whole number.
func (d Dec) Int64() int64 {
	n := d.Num
	for step := d.Exp; step > 0; step-- {
		n /= 10
	}
	return n
}

// maxPlaces caps the exponent inferred by FromFloat. Beyond 18 decimal
// places the int64 mantissa cannot hold even a single integer digit.
const maxPlaces = 18

// FromFloat converts a float64 into a Dec, inferring the smallest exponent
// (at most 18) at which the float round-trips exactly.
func FromFloat(f float64) Dec {
	digits, ok := precision(f)
	if !ok {
		// no finite decimal expansion found, keep the integer part
		return New(int64(roundHalfAway(f)), 0)
	}

	places := digits
	if places > maxPlaces {
		places = maxPlaces
	}
	scaled := f
	for i := 0; i < places; i++ {
		scaled *= 10
	}
	return New(int64(roundHalfAway(scaled)), uint8(places))
}

// FromFloat32 converts a float32 into a Dec, inferring the smallest
// exponent (at most 18) at which the float round-trips exactly.
func FromFloat32(f float32) Dec {
	digits, ok := precision32(f)
	if !ok {
		return New(int64(roundHalfAway32(f)), 0)
	}

	places := digits
	if places > maxPlaces {
		places = maxPlaces
	}
	scaled := f
	for i := 0; i < places; i++ {
		scaled *= 10
	}
	return New(int64(roundHalfAway32(scaled)), uint8(places))
}

func roundHalfAway(n float64) float64 {
	v := n + 0.5
	if n < 0 {
		v = n - 0.5
	}
	v = math.Min(math.Max(v, float64(math.MinInt64)), float64(math.MaxInt64))
	return float64(int64(v))
}

func roundHalfAway32(n float32) float32 {
	v := n + 0.5
	if n < 0 {
		v = n - 0.5
	}
	v = float32(math.Min(math.Max(float64(v), float64(math.MinInt64)), float64(math.MaxInt64)))
	return float32(int64(v))
}

func roundTo(n float64, places int) float64 {
	pow := math.Pow10(places)
	return roundHalfAway(n*pow) / pow
}

func roundTo32(n float32, places int) float32 {
	pow := float32(math.Pow10(places))
	return roundHalfAway32(n*pow) / pow
}

func precision(x float64) (int, bool) {
	for digits := 0; digits < 15; digits++ {
		if roundTo(x, digits) == x {
			return digits, true
		}
	}
	return 0, false
}

func precision32(x float32) (int, bool) {
	for digits := 0; digits < 15; digits++ {
		if roundTo32(x, digits) == x {
			return digits, true
		}
	}
	return 0, false
}
