package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"motorlab/pkg/contracts/domain"
)

func TestSchedaExtractorFullBlock(t *testing.T) {
	cells := map[string]interface{}{
		"A1": "Scheda prova motore",
		"B3": "Orifice (mm)", "C3": "Watt", "D3": "Watt c.", "E3": "mmH2O",
		"F3": "mmH2O c.", "G3": "Portata", "H3": "Air Watt", "I3": "Eff.%",
		"A4": "Media", "B4": 30, "C4": "1.250,5", "D4": "1.180,2", "E4": 2540,
		"F4": 2480, "G4": "33,4", "H4": 395, "I4": "31,5",
		"A5": "Min", "B5": 30, "C5": 1240, "D5": 1171, "E5": 2515,
		"F5": 2461, "G5": "33,1", "H5": 388, "I5": "31,1",
		"A6": "Max", "B6": 30, "C6": 1262, "D6": 1190, "E6": 2561,
		"F6": 2502, "G6": "33,8", "H6": 402, "I6": "31,9",
		"B8": "Prova eseguita su banco 2",
		"B9": "Depressione rilevata a regime",
	}
	f := sheetFixture(t, "Scheda SR 30001", cells)

	got := NewSchedaExtractor(DefaultSchedaParams(), nil).Extract(f)
	require.NotNil(t, got)

	assert.Equal(t, []string{
		"Orifice (mm)", "Watt", "Watt c.", "mmH2O",
		"mmH2O c.", "Portata", "Air Watt", "Eff.%",
	}, got.Headers)

	assert.Equal(t, map[string]map[string]*float64{
		domain.RowMedia: {
			"Orifice (mm)": f64(30), "Watt": f64(1250.5), "Watt c.": f64(1180.2),
			"mmH2O": f64(2540), "mmH2O c.": f64(2480), "Portata": f64(33.4),
			"Air Watt": f64(395), "Eff.%": f64(31.5),
		},
		domain.RowMin: {
			"Orifice (mm)": f64(30), "Watt": f64(1240), "Watt c.": f64(1171),
			"mmH2O": f64(2515), "mmH2O c.": f64(2461), "Portata": f64(33.1),
			"Air Watt": f64(388), "Eff.%": f64(31.1),
		},
		domain.RowMax: {
			"Orifice (mm)": f64(30), "Watt": f64(1262), "Watt c.": f64(1190),
			"mmH2O": f64(2561), "mmH2O c.": f64(2502), "Portata": f64(33.8),
			"Air Watt": f64(402), "Eff.%": f64(31.9),
		},
	}, got.Rows)

	// Notes keep every populated line below the header, data rows included;
	// that mirrors how the lab reads the strip under the measurement block.
	assert.Equal(t, []string{
		"30 1.250,5 1.180,2 2540",
		"30 1240 1171 2515",
		"30 1262 1190 2561",
		"Prova eseguita su banco 2",
		"Depressione rilevata a regime",
	}, got.Notes)
}

func TestSchedaExtractorNoBlock(t *testing.T) {
	tests := []struct {
		name  string
		sheet string
		cells map[string]interface{}
	}{
		{
			name:  "no scheda sheet",
			sheet: "Dati",
			cells: map[string]interface{}{"A1": "Media", "B1": 1},
		},
		{
			name:  "no header row",
			sheet: "Scheda SR",
			cells: map[string]interface{}{
				"A2": "Media", "B2": 5,
				"A3": "Min", "B3": 4,
				"A4": "Max", "B4": 6,
			},
		},
		{
			name:  "labels above the only header",
			sheet: "Scheda SR",
			cells: map[string]interface{}{
				"A2": "Media", "B2": 5,
				"A3": "Min", "B3": 4,
				"A4": "Max", "B4": 6,
				"B8": "Watt",
			},
		},
		{
			name:  "min and max without media",
			sheet: "Scheda SR",
			cells: map[string]interface{}{
				"B1": "Watt",
				"A2": "Min", "B2": 90,
				"A3": "Max", "B3": 110,
			},
		},
		{
			name:  "media anchored to a different header",
			sheet: "Scheda SR",
			cells: map[string]interface{}{
				"B1": "Watt",
				"A3": "Min", "B3": 90,
				"A4": "Max", "B4": 110,
				"B5": "Watt",
				"A6": "Media", "B6": 100,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := sheetFixture(t, tt.sheet, tt.cells)
			assert.Nil(t, NewSchedaExtractor(DefaultSchedaParams(), nil).Extract(f))
		})
	}
}

// Stray label text elsewhere in the sheet must not displace the measurement
// block: a hit above every header has no anchor, and a hit below the block
// loses to the topmost ordered combination.
func TestSchedaExtractorIgnoresStrayLabels(t *testing.T) {
	cells := map[string]interface{}{
		"A1": "Media ambiente",
		"B3": "Orifice (mm)", "C3": "Watt", "D3": "mmH2O",
		"A4": "Media", "B4": 30, "C4": 1250, "D4": 2540,
		"A5": "Min", "B5": 30, "C5": 1240, "D5": 2515,
		"A6": "Max", "B6": 30, "C6": 1262, "D6": 2561,
		"A10": "media pesata",
	}
	f := sheetFixture(t, "Scheda SR", cells)

	got := NewSchedaExtractor(DefaultSchedaParams(), nil).Extract(f)
	require.NotNil(t, got)
	assert.Equal(t, []string{"Orifice (mm)", "Watt", "mmH2O"}, got.Headers)
	assert.Equal(t, f64(1250), got.Rows[domain.RowMedia]["Watt"])
	assert.Equal(t, f64(1240), got.Rows[domain.RowMin]["Watt"])
	assert.Equal(t, f64(1262), got.Rows[domain.RowMax]["Watt"])
}

// Some sheets list Media below Min and Max. The ordered pass only yields the
// Min/Max pair, and the gap-fill pass recovers the Media row as long as it
// anchors to the same header.
func TestSchedaExtractorRecoversMediaOutOfOrder(t *testing.T) {
	cells := map[string]interface{}{
		"B1": "Watt",
		"A2": "Min", "B2": 90,
		"A3": "Max", "B3": 110,
		"A4": "Media", "B4": 100,
	}
	f := sheetFixture(t, "Scheda prove", cells)

	got := NewSchedaExtractor(DefaultSchedaParams(), nil).Extract(f)
	require.NotNil(t, got)
	assert.Equal(t, map[string]map[string]*float64{
		domain.RowMedia: {"Watt": f64(100)},
		domain.RowMin:   {"Watt": f64(90)},
		domain.RowMax:   {"Watt": f64(110)},
	}, got.Rows)
}

func TestSchedaExtractorPrefersCompleteBlock(t *testing.T) {
	cells := map[string]interface{}{
		// Topmost anchor carries only Min and Max.
		"B2": "Watt",
		"A3": "Min", "B3": 10,
		"A4": "Max", "B4": 20,
		// A later anchor carries the full block and must win.
		"B10": "Watt",
		"A11": "Media", "B11": 1,
		"A12": "Min", "B12": 2,
		"A13": "Max", "B13": 3,
	}
	f := sheetFixture(t, "Scheda SR", cells)

	got := NewSchedaExtractor(DefaultSchedaParams(), nil).Extract(f)
	require.NotNil(t, got)
	assert.Equal(t, map[string]map[string]*float64{
		domain.RowMedia: {"Watt": f64(1)},
		domain.RowMin:   {"Watt": f64(2)},
		domain.RowMax:   {"Watt": f64(3)},
	}, got.Rows)
}

func TestSchedaExtractorNotesJoinAndDedup(t *testing.T) {
	cells := map[string]interface{}{
		"B1": "Watt",
		"A2": "Media", "B2": 100,
		"A3": "Min", "B3": 90,
		"A4": "Max", "B4": 110,
		"B5": "Ripetere dopo rodaggio",
		"B6": "Ripetere dopo rodaggio",
		"C7": "Filtro nuovo",
		"B8": "Vuoto", "C8": "a regime",
	}
	f := sheetFixture(t, "Scheda", cells)

	got := NewSchedaExtractor(DefaultSchedaParams(), nil).Extract(f)
	require.NotNil(t, got)
	assert.Equal(t, []string{
		"100",
		"90",
		"110",
		"Ripetere dopo rodaggio",
		"Filtro nuovo",
		"Vuoto a regime",
	}, got.Notes)
}
