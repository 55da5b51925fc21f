// Package endoreport 內分泌刺激試驗報告轉換器
// 將 HIS 檢驗報告匯出的 tab 分隔文字轉為固定格式的試驗摘要
package endoreport

import (
	"strings"

	"github.com/samber/lo"
)

// MarkerToken 表頭標記行 (單位 / 參考值 欄位標題)
const MarkerToken = "\t單位\t參考值"

// ============================================================================
// 斷行與分區
// ============================================================================

// Tokenized 斷行結果
type Tokenized struct {
	Header      []string // 標記行之前: 日期/時間表頭
	Marker      string   // 標記行本身
	Data        []string // 標記行之後: 每行一個檢驗項目
	MarkerFound bool
}

// Tokenize 去除空行與前後空白，依標記行切分表頭區與資料區
// 找不到標記行時資料區為空 (不視為錯誤)
func Tokenize(text string) Tokenized {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines = lo.Map(lines, func(line string, _ int) string {
		return strings.TrimSpace(line)
	})
	lines = lo.Filter(lines, func(line string, _ int) bool {
		return line != ""
	})

	// TrimSpace 會吃掉行首 tab，標記行需另以原始形式比對
	for i, line := range lines {
		if strings.Contains("\t"+line, MarkerToken) {
			return Tokenized{
				Header:      lines[:i],
				Marker:      line,
				Data:        lines[i+1:],
				MarkerFound: true,
			}
		}
	}

	return Tokenized{Header: lines}
}

// ============================================================================
// 日期時間索引
// ============================================================================

// Slot 單一檢體欄位的採檢日期時間
type Slot struct {
	Index int    `json:"index"`
	Date  string `json:"date"` // YYYYMMDD
	Time  string `json:"time"`
}

// Label 欄位顯示字串 (完整表格欄名用)
func (s Slot) Label() string {
	return strings.TrimSpace(formatDate(s.Date) + " " + s.Time)
}

// BuildSlots 由表頭行重建每個檢體欄位的 (日期, 時間)
// 每行最後一個欄位是日期，下一行第一個欄位是該欄的時間；
// 最後一行沒有下一行可借，日期與時間都取自該行本身
func BuildSlots(header []string) []Slot {
	if len(header) == 0 {
		return nil
	}

	slots := make([]Slot, 0, len(header))
	for i := 0; i < len(header)-1; i++ {
		slots = append(slots, Slot{
			Index: i,
			Date:  normalizeDate(lastField(header[i])),
			Time:  firstField(header[i+1]),
		})
	}

	last := header[len(header)-1]
	slots = append(slots, Slot{
		Index: len(header) - 1,
		Date:  normalizeDate(lastField(last)),
		Time:  firstField(last),
	})

	return slots
}

func firstField(line string) string {
	fields := strings.Split(line, "\t")
	return strings.TrimSpace(fields[0])
}

func lastField(line string) string {
	fields := strings.Split(line, "\t")
	return strings.TrimSpace(fields[len(fields)-1])
}
