package endoreport

import (
	"strings"

	"golang.org/x/text/width"
)

// ============================================================================
// 顯示寬度
// ============================================================================

// RuneWidth 單一字元顯示寬度
// 全形與中日韓字元為 2；< > = 在 HIS 上顯示為全形，也算 2
func RuneWidth(r rune) int {
	switch r {
	case '<', '>', '=':
		return 2
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	}
	return 1
}

// DisplayWidth 字串顯示寬度
func DisplayWidth(s string) int {
	w := 0
	for _, r := range s {
		w += RuneWidth(r)
	}
	return w
}

// TruncateWidth 截斷到不超過 max 的顯示寬度，不會切在多位元組字元中間
func TruncateWidth(s string, max int) string {
	w := 0
	for i, r := range s {
		rw := RuneWidth(r)
		if w+rw > max {
			return s[:i]
		}
		w += rw
	}
	return s
}

// PadWidth 以空白補到指定顯示寬度
func PadWidth(s string, w int) string {
	if pad := w - DisplayWidth(s); pad > 0 {
		return s + strings.Repeat(" ", pad)
	}
	return s
}
