package endoreport

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/rs/zerolog"
)

// ============================================================================
// 試驗轉換分配器
// ============================================================================

// TestInfo 試驗資訊
type TestInfo struct {
	Type     TestType `json:"type"`
	Title    string   `json:"title"`
	Count    int      `json:"count"`
	Labels   []string `json:"labels"`
	Strategy Strategy `json:"strategy"`
}

// Result 單次轉換結果
type Result struct {
	TestType TestType   `json:"test_type"`
	Title    string     `json:"title"`
	Date     string     `json:"date"` // YYYYMMDD，找不到時為空字串
	Report   string     `json:"report"`
	Table    Table      `json:"table"`
	Grid     Grid       `json:"grid"`       // 主表列資料
	Full     Grid       `json:"full_table"` // 所有項目 x 所有欄位
	Others   []OtherLab `json:"others,omitempty"`
	Metrics  []Metric   `json:"metrics,omitempty"`
	Occasion *Occasion  `json:"occasion,omitempty"`
	Slots    int        `json:"slots"`
	Stats    Stats      `json:"stats"`
	Empty    bool       `json:"empty"`
	Warning  string     `json:"warning,omitempty"`
}

// Converter 試驗報告轉換器，建立後不再變動，可同時使用
type Converter struct {
	profiles Profiles
	logger   zerolog.Logger
}

// Option 轉換器選項
type Option func(*Converter)

// WithProfiles 使用自訂試驗設定
func WithProfiles(ps Profiles) Option {
	return func(c *Converter) {
		c.profiles = ps.clone()
	}
}

// WithLogger 設定 logger (預設不輸出)
func WithLogger(l zerolog.Logger) Option {
	return func(c *Converter) {
		c.logger = l
	}
}

// NewConverter 建立轉換器
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		profiles: DefaultProfiles(),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// 內建試驗的顯示順序
var testOrder = []TestType{TestInsulin, TestClonidine, TestGnRH, TestGlucagon}

// Tests 取得支援的試驗列表
func (c *Converter) Tests() []TestInfo {
	types := make([]TestType, 0, len(c.profiles))
	for t := range c.profiles {
		types = append(types, t)
	}
	rank := func(t TestType) int {
		for i, o := range testOrder {
			if o == t {
				return i
			}
		}
		return len(testOrder)
	}
	sort.Slice(types, func(i, j int) bool {
		ri, rj := rank(types[i]), rank(types[j])
		if ri != rj {
			return ri < rj
		}
		return types[i] < types[j]
	})

	out := make([]TestInfo, 0, len(types))
	for _, t := range types {
		p := c.profiles[t]
		out = append(out, TestInfo{
			Type:     p.Type,
			Title:    p.Title,
			Count:    p.Count,
			Labels:   append([]string(nil), p.Labels...),
			Strategy: p.Strategy,
		})
	}
	return out
}

// Convert 將貼上的原始資料轉為試驗報告
// 只有試驗類型未知時回傳錯誤，格式問題一律以佔位符呈現
func (c *Converter) Convert(t TestType, text string) (*Result, error) {
	p, ok := c.profiles[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTest, t)
	}

	log := c.logger.With().Str("test", string(t)).Logger()

	tok := Tokenize(text)
	var slots []Slot
	if tok.MarkerFound {
		slots = BuildSlots(tok.Header)
	} else {
		log.Debug().Msg("marker line not found")
	}

	analytes, stats := ExtractAnalytes(tok.Data, len(slots), p.RowOptions())
	for reason, n := range stats.Skipped {
		log.Debug().Str("reason", string(reason)).Int("rows", n).Msg("rows skipped")
	}

	occ, found := Resolve(p, slots, analytes)
	if found {
		log.Debug().Str("date", occ.Date).Ints("slots", occ.Slots).Msg("occasion resolved")
	} else {
		log.Debug().Int("analytes", analytes.Len()).Msg("no qualifying occasion")
	}

	table := Assemble(p, occ, analytes)
	metrics := ComputeMetrics(p, table)
	others := OtherLabs(p, occ, slots, analytes, table)

	date := ""
	if found {
		date = occ.Date
	}
	if date == "" {
		date = fallbackDate(text)
	}

	res := &Result{
		TestType: t,
		Title:    p.Title,
		Date:     date,
		Report:   FormatReport(p, table, date, metrics, others),
		Table:    table,
		Grid:     table.Grid(),
		Full:     BuildFullGrid(slots, analytes),
		Others:   others,
		Metrics:  metrics,
		Occasion: occ,
		Slots:    len(slots),
		Stats:    stats,
		Empty:    table.Empty(),
	}
	if res.Empty {
		res.Warning = EmptyWarning
	}
	return res, nil
}

var dateRe = regexp.MustCompile(`(?:19|20)\d{6}`)

// fallbackDate 找不到試驗場次時，取原始資料中第一個 8 碼日期
func fallbackDate(text string) string {
	return dateRe.FindString(text)
}

// ============================================================================
// 預設轉換器
// ============================================================================

var defaultConverter = NewConverter()

// GetSupportedTests 取得內建試驗列表
func GetSupportedTests() []TestInfo {
	return defaultConverter.Tests()
}

// Convert 以內建設定轉換
func Convert(t TestType, text string) (*Result, error) {
	return defaultConverter.Convert(t, text)
}
