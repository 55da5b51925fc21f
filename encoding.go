package endoreport

import (
	"bytes"
	"fmt"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"
)

// ============================================================================
// 輸入編碼處理 (舊版 HIS 終端機匯出為 Big5)
// ============================================================================

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeInput 將匯出檔內容轉為 UTF-8 字串
// Big5 內容會先轉碼，UTF-8 則原樣返回 (去除 BOM)
func DecodeInput(content []byte) string {
	content = bytes.TrimPrefix(content, utf8BOM)
	if !detectBig5(content) {
		return string(content)
	}

	decoded, _, err := transform.Bytes(traditionalchinese.Big5.NewDecoder(), content)
	if err != nil {
		// 轉換失敗，當作 UTF-8
		return string(content)
	}
	return string(decoded)
}

// detectBig5 偵測是否為 Big5 編碼
// 合法 UTF-8 一律不轉；否則高位元組需大多能組成 Big5 雙位元組
func detectBig5(content []byte) bool {
	if utf8.Valid(content) {
		return false
	}

	pairs, stray := 0, 0
	for i := 0; i < len(content); i++ {
		b1 := content[i]
		if b1 < 0x80 {
			continue
		}
		if b1 >= 0x81 && b1 <= 0xFE && i+1 < len(content) {
			b2 := content[i+1]
			if (b2 >= 0x40 && b2 <= 0x7E) || (b2 >= 0xA1 && b2 <= 0xFE) {
				pairs++
				i++
				continue
			}
		}
		stray++
	}

	return pairs > 0 && stray <= pairs/10
}

// ============================================================================
// 日期處理
// ============================================================================

// normalizeDate 日期欄位正規化為西元 8 碼 (YYYYMMDD)
// 民國 7 碼 (YYYMMDD) 轉西元，其他格式原樣返回
func normalizeDate(s string) string {
	if len(s) != 7 || !isDigits(s) {
		return s
	}

	year, err := strconv.Atoi(s[:3])
	if err != nil {
		return s
	}

	// 民國年 + 1911 = 西元年
	return fmt.Sprintf("%04d%s", year+1911, s[3:])
}

// formatDate YYYYMMDD -> YYYY/MM/DD
func formatDate(s string) string {
	if len(s) != 8 || !isDigits(s) {
		return s
	}
	return s[:4] + "/" + s[4:6] + "/" + s[6:]
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
