package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already plain", "watt", "watt"},
		{"case and spacing", "  Air  Watt ", "airwatt"},
		{"punctuation stripped", "Eff. %", "eff%"},
		{"parenthesised unit", "Orifice (mm)", "orificemm"},
		{"diameter sign folded", "ø 28", "o28"},
		{"greek phi folded", "φ30", "o30"},
		{"apostrophe dropped", "portata d'aria", "portatadaria"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeText(tt.input))
		})
	}
}

func TestSheetNamed(t *testing.T) {
	f := sheetFixture(t, "Scheda SR 30001", nil)
	addSheet(t, f, " Collaudo ", nil)
	addSheet(t, f, "Dati", nil)

	assert.Equal(t, "Scheda SR 30001", sheetNamed(f, "scheda"))
	assert.Equal(t, " Collaudo ", sheetNamed(f, "collaudo"))
	assert.Equal(t, "", sheetNamed(f, "carichi"))
}
