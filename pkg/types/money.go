package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is a currency amount in integer minor units. Domain arithmetic stays
// on integers; decimal conversion happens only at the API boundary, where
// amounts travel as plain JSON numbers with two decimal places (45.90 ⇄ 4590).
type Cents int

var centsFactor = decimal.NewFromInt(100)

// CentsFromDecimal converts a decimal currency amount into minor units,
// rejecting values with more than two decimal places.
func CentsFromDecimal(d decimal.Decimal) (Cents, error) {
	scaled := d.Mul(centsFactor)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("amount %s has sub-cent precision", d.String())
	}
	return Cents(scaled.IntPart()), nil
}

// Decimal returns the amount in major units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(c)).Div(centsFactor)
}

// String renders the amount with two decimal places.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// MarshalJSON emits the amount as an unquoted decimal number.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.Decimal().StringFixed(2)), nil
}

// UnmarshalJSON accepts plain numbers or numeric strings.
func (c *Cents) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		raw = raw[1 : len(raw)-1]
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	parsed, err := CentsFromDecimal(d)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
