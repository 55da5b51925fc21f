package endoreport

import (
	"regexp"
	"strconv"
	"strings"
)

// ============================================================================
// 檢驗項目資料列
// ============================================================================

// 資料列欄位位置: flag, code, name, specimen, value1, value2, ... [, unit, reference]
const (
	fieldFlag = iota
	fieldCode
	fieldName
	fieldSpecimen
	fieldValues

	// MinFields 資料列最少欄位數
	MinFields = fieldValues + 1

	// ActiveFlag 資料列有效旗標
	ActiveFlag = "True"
)

// Analyte 單一檢驗項目
type Analyte struct {
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Specimen  string   `json:"specimen"`
	Unit      string   `json:"unit,omitempty"`
	Reference string   `json:"reference,omitempty"`
	Values    []string `json:"values"` // 與 Slot 一對一對齊，缺值為 ""
}

// Value 安全取得第 i 個檢體欄位的值
func (a *Analyte) Value(i int) string {
	if a == nil || i < 0 || i >= len(a.Values) {
		return ""
	}
	return a.Values[i]
}

// SkipReason 資料列略過原因
type SkipReason string

const (
	SkipNone     SkipReason = ""
	SkipShortRow SkipReason = "short_row" // 欄位不足
	SkipInactive SkipReason = "inactive"  // 旗標不是 True
	SkipSpecimen SkipReason = "specimen"  // 檢體別不符
	SkipCode     SkipReason = "code"      // 非檢驗代碼 (行政代碼等)
)

// RowOptions 資料列過濾條件
type RowOptions struct {
	Specimen   string // 空字串表示不過濾檢體別
	CodePrefix string // 例如 "72-"，空字串表示不過濾代碼
	MinCode    int    // 代碼數字部分下限
}

// RowResult 單列解析結果: 有效項目或略過原因
type RowResult struct {
	Analyte *Analyte
	Skip    SkipReason
}

// ParseRow 解析單一資料列
// slots 為日期時間索引長度，超出的尾端欄位視為單位與參考值
func ParseRow(line string, slots int, opts RowOptions) RowResult {
	fields := strings.Split(line, "\t")
	if len(fields) < MinFields {
		return RowResult{Skip: SkipShortRow}
	}
	if strings.TrimSpace(fields[fieldFlag]) != ActiveFlag {
		return RowResult{Skip: SkipInactive}
	}

	specimen := strings.TrimSpace(fields[fieldSpecimen])
	if opts.Specimen != "" && specimen != opts.Specimen {
		return RowResult{Skip: SkipSpecimen}
	}

	code := strings.TrimSpace(fields[fieldCode])
	if !opts.acceptCode(code) {
		return RowResult{Skip: SkipCode}
	}

	a := &Analyte{
		Code:     code,
		Name:     strings.TrimSpace(fields[fieldName]),
		Specimen: specimen,
	}

	raw := fields[fieldValues:]
	if slots > 0 && len(raw) > slots {
		tail := raw[slots:]
		raw = raw[:slots]
		a.Unit = strings.TrimSpace(tail[0])
		if len(tail) > 1 {
			a.Reference = strings.TrimSpace(tail[1])
		}
	}

	a.Values = make([]string, len(raw))
	for i, v := range raw {
		a.Values[i] = NormalizeValue(v)
	}

	return RowResult{Analyte: a}
}

func (o RowOptions) acceptCode(code string) bool {
	if o.CodePrefix == "" {
		return true
	}
	if !strings.HasPrefix(code, o.CodePrefix) {
		return false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(code, o.CodePrefix))
	if err != nil {
		return false
	}
	return n >= o.MinCode
}

// ============================================================================
// 數值正規化
// ============================================================================

var (
	// 12.3H / 12.3 L -> 12.3
	flagSuffixRe = regexp.MustCompile(`^([<>≤≥]?=?\s*-?[\d.]+)\s*[HL]$`)
	// < 0.3 -> <0.3
	operatorRe = regexp.MustCompile(`^([<>≤≥]=?)\s+([\d.])`)
)

// NormalizeValue 去除 H/L 註記並將比較符號與數字相連
// 空白值維持空字串，佔位符要到組表時才填入
func NormalizeValue(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	v = flagSuffixRe.ReplaceAllString(v, "$1")
	v = operatorRe.ReplaceAllString(v, "$1$2")
	return v
}

// ============================================================================
// 項目集合
// ============================================================================

// Analytes 依代碼索引的檢驗項目，保留首次出現順序
type Analytes struct {
	order []string
	byKey map[string]*Analyte
}

// Get 依代碼取得項目
func (as *Analytes) Get(code string) *Analyte {
	if as == nil || as.byKey == nil {
		return nil
	}
	return as.byKey[code]
}

// Len 項目數
func (as *Analytes) Len() int {
	if as == nil {
		return 0
	}
	return len(as.order)
}

// All 依出現順序列出所有項目
func (as *Analytes) All() []*Analyte {
	if as == nil {
		return nil
	}
	out := make([]*Analyte, 0, len(as.order))
	for _, code := range as.order {
		out = append(out, as.byKey[code])
	}
	return out
}

// put 重複代碼以後出現者取代
func (as *Analytes) put(a *Analyte) {
	if as.byKey == nil {
		as.byKey = make(map[string]*Analyte)
	}
	if _, exists := as.byKey[a.Code]; !exists {
		as.order = append(as.order, a.Code)
	}
	as.byKey[a.Code] = a
}

// Stats 解析統計
type Stats struct {
	Rows    int                `json:"rows"`
	Active  int                `json:"active"`
	Skipped map[SkipReason]int `json:"skipped,omitempty"`
}

// ExtractAnalytes 解析整個資料區
func ExtractAnalytes(data []string, slots int, opts RowOptions) (*Analytes, Stats) {
	analytes := &Analytes{}
	stats := Stats{Skipped: make(map[SkipReason]int)}

	for _, line := range data {
		stats.Rows++
		res := ParseRow(line, slots, opts)
		if res.Skip != SkipNone {
			stats.Skipped[res.Skip]++
			continue
		}
		stats.Active++
		analytes.put(res.Analyte)
	}

	return analytes, stats
}
