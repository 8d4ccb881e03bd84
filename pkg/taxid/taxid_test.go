package taxid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name    string
		raw     string
		length  int
		want    string
		wantErr bool
	}{
		{"formatted cpf", "123.456.789-09", IndividualLength, "12345678909", false},
		{"formatted cnpj", "12.345.678/0001-95", CompanyLength, "12345678000195", false},
		{"blank", "   ", IndividualLength, "", false},
		{"cpf too short", "123.456", IndividualLength, "", true},
		{"cnpj given where cpf expected", "12345678000195", IndividualLength, "", true},
		{"arabic-indic digits", "١٢٣.٤٥٦.٧٨٩-٠٩", IndividualLength, "", true},
		{"mixed scripts", "١٢٣.456.789-09", IndividualLength, "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.raw, tc.length)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeKeepsASCIIDigitsOnly(t *testing.T) {
	assert.Equal(t, "45678909", Normalize("١٢٣.456.789-09"))
	assert.Equal(t, "", Normalize("٣٣٣"))
}
