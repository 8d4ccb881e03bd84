// Package taxid normalizes Brazilian registration numbers (CPF and CNPJ).
package taxid

import (
	"fmt"
	"strings"
)

const (
	// IndividualLength is the digit count of a CPF.
	IndividualLength = 11
	// CompanyLength is the digit count of a CNPJ.
	CompanyLength = 14
)

// Normalize keeps only the ASCII digits of raw.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Parse normalizes raw and checks it has exactly length digits.
// A blank input returns an empty string and no error.
func Parse(raw string, length int) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	digits := Normalize(raw)
	if len(digits) != length {
		return "", fmt.Errorf("tax id must have %d digits, got %d", length, len(digits))
	}
	return digits, nil
}
