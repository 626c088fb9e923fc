package extract

import (
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

// nonLabelRune matches every run of characters that never carries meaning in
// header or label text.
var nonLabelRune = regexp.MustCompile(`[^a-z0-9%]+`)

var diameterSigns = strings.NewReplacer("ø", "o", "φ", "o")

// normalizeText reduces arbitrary cell text to a comparison key: trimmed,
// lowercased, diameter signs folded to "o", everything outside [a-z0-9%]
// removed. "Orifice (mm)" and " orifice  mm " both reduce to "orificemm",
// "Eff. %" to "eff%".
func normalizeText(s string) string {
	t := strings.ToLower(strings.TrimSpace(s))
	t = diameterSigns.Replace(t)
	return nonLabelRune.ReplaceAllString(t, "")
}

// sheetNamed returns the first sheet whose normalized name contains key, or
// "" when the workbook has none.
func sheetNamed(f *excelize.File, key string) string {
	for _, name := range f.GetSheetList() {
		if strings.Contains(normalizeText(name), key) {
			return name
		}
	}
	return ""
}
