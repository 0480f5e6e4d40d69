package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Decimal is a monetary amount. The API serialises decimal fields either
// as JSON numbers or as quoted strings ("12.50"); both forms are accepted.
type Decimal float64

// UnmarshalJSON implements json.Unmarshaler.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*d = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid decimal string: %w", err)
		}
		if s == "" {
			*d = 0
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid decimal value %q: %w", s, err)
		}
		*d = Decimal(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("invalid decimal value: %w", err)
	}
	*d = Decimal(f)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(d), 'f', -1, 64)), nil
}

// Float64 returns the amount as a float64.
func (d Decimal) Float64() float64 {
	return float64(d)
}

// String formats the amount with two decimal places.
func (d Decimal) String() string {
	return strconv.FormatFloat(float64(d), 'f', 2, 64)
}
