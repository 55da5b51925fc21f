package endoreport

import (
	"fmt"
	"strings"
)

// =========== Sample Export Builder ===========

const sampleMarker = "選取\t代碼\t項目\t檢體\t單位\t參考值"

// exportBuilder 產生 HIS 匯出格式的測試資料
// dates[i] 為第 i 個檢體欄位的日期，欄位 0 為最新
type exportBuilder struct {
	dates []string
	rows  []string
}

func newExport(dates ...string) *exportBuilder {
	return &exportBuilder{dates: dates}
}

// sameDay n 個欄位都是同一天
func sameDay(date string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = date
	}
	return out
}

// row 加入一列，values 依欄位索引給值，未給的為空白
func (b *exportBuilder) row(code, name string, values map[int]string) *exportBuilder {
	return b.rowWith("True", code, name, "B", values)
}

func (b *exportBuilder) rowWith(flag, code, name, specimen string, values map[int]string) *exportBuilder {
	cells := make([]string, len(b.dates))
	for i, v := range values {
		cells[i] = v
	}
	line := strings.Join([]string{flag, code, name, specimen, strings.Join(cells, "\t"), "unit-" + name, "ref-" + name}, "\t")
	b.rows = append(b.rows, line)
	return b
}

// full 指定欄位全部有值
func full(indices []int, format string) map[int]string {
	out := make(map[int]string, len(indices))
	for _, i := range indices {
		out[i] = fmt.Sprintf(format, i)
	}
	return out
}

func span(from, to int) []int {
	var out []int
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

func (b *exportBuilder) String() string {
	var sb strings.Builder
	// 每行: 時間 \t 日期；第 i 欄的時間在第 i+1 行開頭
	for i, d := range b.dates {
		fmt.Fprintf(&sb, "%02d:%02d\t%s\n", 8+i/4, (i%4)*15, d)
	}
	sb.WriteString(sampleMarker + "\n")
	for _, r := range b.rows {
		sb.WriteString(r + "\n")
	}
	return sb.String()
}
