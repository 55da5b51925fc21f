package endoreport

import (
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// ============================================================================
// 主表組裝
// ============================================================================

// Column 主表單一欄位
type Column struct {
	Code  string   `json:"code"`
	Name  string   `json:"name"`
	Unit  string   `json:"unit"`
	Cells []string `json:"cells"` // 長度等於時間標籤數
}

// Table 主表: 時間標籤 x 檢驗項目
type Table struct {
	LabelHeader string   `json:"label_header"`
	Labels      []string `json:"labels"`
	Columns     []Column `json:"columns"`
}

// Column 依代碼取得欄位
func (t *Table) Column(code string) (Column, bool) {
	return lo.Find(t.Columns, func(c Column) bool { return c.Code == code })
}

// Empty 所有儲存格都是佔位符
func (t *Table) Empty() bool {
	for _, c := range t.Columns {
		for _, v := range c.Cells {
			if v != Placeholder {
				return false
			}
		}
	}
	return true
}

// Grid 轉為列資料 (第一欄為時間標籤)
func (t *Table) Grid() Grid {
	g := Grid{Header: []string{t.LabelHeader}}
	for _, c := range t.Columns {
		g.Header = append(g.Header, c.Name)
	}
	for i, label := range t.Labels {
		row := []string{label}
		for _, c := range t.Columns {
			row = append(row, c.Cells[i])
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

// Grid 呈現層使用的表格資料
type Grid struct {
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

// Assemble 將判定結果對應到時間標籤
// occ 為 nil 時 (找不到試驗場次) 回傳全部為佔位符的表格
func Assemble(p *Profile, occ *Occasion, analytes *Analytes) Table {
	t := Table{
		LabelHeader: p.LabelHeader,
		Labels:      append([]string(nil), p.Labels...),
	}

	if occ == nil {
		for _, spec := range append(append([]AnalyteSpec{}, p.Primary...), p.Optional...) {
			t.Columns = append(t.Columns, newColumn(spec, p.Count))
		}
		return t
	}

	for _, spec := range p.Primary {
		col := newColumn(spec, p.Count)
		a := analytes.Get(spec.Code)
		for pos, i := range occ.Indices(spec.Code) {
			col.Cells[pos] = cellValue(a.Value(i))
		}
		t.Columns = append(t.Columns, col)
	}

	for _, spec := range p.Optional {
		a := analytes.Get(spec.Code)
		if a == nil {
			continue
		}

		var inScope []string
		for _, i := range occ.Scope {
			if v := a.Value(i); v != "" {
				inScope = append(inScope, v)
			}
		}
		// 只有一個值視為雜訊
		if len(inScope) <= 1 {
			continue
		}

		col := newColumn(spec, p.Count)
		if p.IsPinned(spec.Code) && len(inScope) == 2 {
			col.Cells[0] = inScope[0]
			col.Cells[p.Count-1] = inScope[1]
		} else {
			for pos, i := range occ.Slots {
				col.Cells[pos] = cellValue(a.Value(i))
			}
		}
		t.Columns = append(t.Columns, col)
	}

	return t
}

func newColumn(spec AnalyteSpec, n int) Column {
	cells := make([]string, n)
	for i := range cells {
		cells[i] = Placeholder
	}
	return Column{Code: spec.Code, Name: spec.Name, Unit: spec.Unit, Cells: cells}
}

func cellValue(v string) string {
	if v == "" {
		return Placeholder
	}
	return v
}

// ============================================================================
// 同日其他檢驗
// ============================================================================

// OtherLab 主表以外、試驗當天有值的檢驗項目
type OtherLab struct {
	Code      string   `json:"code"`
	Name      string   `json:"name"`
	Unit      string   `json:"unit,omitempty"`
	Reference string   `json:"reference,omitempty"`
	Values    []string `json:"values"`
}

// OtherLabs 列出同日其他檢驗，依代碼排序
func OtherLabs(p *Profile, occ *Occasion, slots []Slot, analytes *Analytes, table Table) []OtherLab {
	if occ == nil || occ.Date == "" {
		return nil
	}

	used := lo.Map(table.Columns, func(c Column, _ int) string { return c.Code })
	scope := dateScope(occ.Date, slots)

	var out []OtherLab
	for _, a := range analytes.All() {
		if lo.Contains(used, a.Code) || lo.Contains(p.AppendixExclude, a.Code) {
			continue
		}
		var values []string
		for _, i := range scope {
			if v := a.Value(i); v != "" {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		out = append(out, OtherLab{
			Code:      a.Code,
			Name:      a.Name,
			Unit:      a.Unit,
			Reference: a.Reference,
			Values:    values,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return codeLess(out[i].Code, out[j].Code)
	})
	return out
}

// codeLess 代碼比較: 前綴相同時依數字大小
func codeLess(a, b string) bool {
	pa, na, okA := splitCode(a)
	pb, nb, okB := splitCode(b)
	if okA && okB && pa == pb {
		return na < nb
	}
	return a < b
}

func splitCode(code string) (string, int, bool) {
	i := strings.LastIndex(code, "-")
	if i < 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(code[i+1:])
	if err != nil {
		return "", 0, false
	}
	return code[:i], n, true
}
