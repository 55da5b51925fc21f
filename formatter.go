package endoreport

import (
	"fmt"
	"strings"
)

// 報告欄寬 (顯示寬度)
const (
	LabelWidth      = 10 // 時間標籤欄
	CellWidth       = 9  // 數值欄
	CellCap         = 8  // 數值超過此寬度截斷
	NameWidth       = 16 // 其他檢驗: 項目名稱欄
	NameCap         = 15
	MinDividerRunes = 20

	dividerRune = "＝"
)

// OtherLabsTitle 同日其他檢驗標題
const OtherLabsTitle = "＝ 同日其他檢驗 ＝"

// Divider 分隔線: 全形等號，長度為表頭寬度的一半 (全形字寬為 2)
func Divider(headerWidth int) string {
	n := headerWidth / 2
	if n < MinDividerRunes {
		n = MinDividerRunes
	}
	return strings.Repeat(dividerRune, n)
}

// FormatReport 產生病歷格式文字
func FormatReport(p *Profile, t Table, date string, metrics []Metric, others []OtherLab) string {
	var b strings.Builder

	if date == "" {
		date = Placeholder
	}
	fmt.Fprintf(&b, "＝ %s on %s ＝\n\n", p.Title, formatDate(date))

	header := []string{PadWidth("", LabelWidth)}
	units := []string{PadWidth(TruncateWidth(t.LabelHeader, LabelWidth-1), LabelWidth)}
	for _, c := range t.Columns {
		header = append(header, cell(c.Name))
		units = append(units, cell(c.Unit))
	}
	headerLine := strings.Join(header, "")
	divider := Divider(DisplayWidth(headerLine))

	writeLine(&b, headerLine)
	writeLine(&b, strings.Join(units, ""))
	writeLine(&b, divider)
	for i, label := range t.Labels {
		row := []string{PadWidth(TruncateWidth(label, LabelWidth-1), LabelWidth)}
		for _, c := range t.Columns {
			row = append(row, cell(c.Cells[i]))
		}
		writeLine(&b, strings.Join(row, ""))
	}
	writeLine(&b, divider)

	for _, m := range metrics {
		line := m.Label + ": " + m.Value
		if m.Unit != "" {
			line += " " + m.Unit
		}
		writeLine(&b, line)
	}

	if len(p.ReferenceTable) > 0 {
		b.WriteString("\n")
		for _, line := range p.ReferenceTable {
			writeLine(&b, line)
		}
	}

	if len(others) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatOtherLabs(others))
	}

	return b.String()
}

// FormatOtherLabs 同日其他檢驗附表，參考值欄不限寬度
func FormatOtherLabs(others []OtherLab) string {
	var b strings.Builder
	writeLine(&b, OtherLabsTitle)

	maxValues := 0
	for _, o := range others {
		if len(o.Values) > maxValues {
			maxValues = len(o.Values)
		}
	}

	for _, o := range others {
		row := []string{PadWidth(TruncateWidth(o.Name, NameCap), NameWidth)}
		for i := 0; i < maxValues; i++ {
			v := ""
			if i < len(o.Values) {
				v = o.Values[i]
			}
			row = append(row, cell(v))
		}
		row = append(row, cell(o.Unit), o.Reference)
		writeLine(&b, strings.Join(row, ""))
	}
	return b.String()
}

func cell(s string) string {
	return PadWidth(TruncateWidth(s, CellCap), CellWidth)
}

func writeLine(b *strings.Builder, line string) {
	b.WriteString(strings.TrimRight(line, " "))
	b.WriteString("\n")
}
