package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *float64
	}{
		{"integer", "525", f64(525)},
		{"decimal point", "12.5", f64(12.5)},
		{"decimal comma", "3,14", f64(3.14)},
		{"thousands point with decimal comma", "1.234,56", f64(1234.56)},
		{"repeated thousands separators", "1.234.567,89", f64(1234567.89)},
		{"non-breaking space", "1 234,5", f64(1234.5)},
		{"surrounding whitespace", "  42  ", f64(42)},
		{"negative decimal comma", "-0,5", f64(-0.5)},
		{"empty", "", nil},
		{"blank", "   ", nil},
		{"placeholder text", "n.d.", nil},
		{"unit suffix", "45%", nil},
		{"number with trailing text", "12,5 W", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNumber(tt.input))
		})
	}
}
