package endoreport

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// FullTableHeader 完整表格第一欄標題
const FullTableHeader = "檢驗項目"

// BuildFullGrid 所有有效檢驗項目 x 所有採檢欄位
func BuildFullGrid(slots []Slot, analytes *Analytes) Grid {
	width := len(slots)
	for _, a := range analytes.All() {
		if len(a.Values) > width {
			width = len(a.Values)
		}
	}

	g := Grid{Header: []string{FullTableHeader}}
	for i := 0; i < width; i++ {
		if i < len(slots) && slots[i].Label() != "" {
			g.Header = append(g.Header, slots[i].Label())
		} else {
			g.Header = append(g.Header, fmt.Sprintf("#%d", i+1))
		}
	}

	for _, a := range analytes.All() {
		row := make([]string, width+1)
		row[0] = a.Name
		copy(row[1:], a.Values)
		g.Rows = append(g.Rows, row)
	}
	return g
}

// RenderGrid 以文字表格呈現 (CLI 用)
func RenderGrid(g Grid) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(g.Header))
	for i, h := range g.Header {
		header[i] = h
	}
	t.AppendHeader(header)

	for _, r := range g.Rows {
		row := make(table.Row, len(r))
		for i, v := range r {
			row[i] = v
		}
		t.AppendRow(row)
	}
	return t.Render()
}
