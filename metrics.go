package endoreport

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Metric 試驗後計算指標
type Metric struct {
	Kind  MetricKind `json:"kind"`
	Label string     `json:"label"`
	Value string     `json:"value"` // 無法計算時為佔位符
	Unit  string     `json:"unit,omitempty"`
}

// ParseNumeric 解析檢驗值，比較符號去除後取數字 (<0.1 -> 0.1)
func ParseNumeric(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	v = strings.TrimLeft(v, "<>≤≥=")
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Peak 所有可解析值的最大值
func Peak(values []string) (float64, bool) {
	peak, found := 0.0, false
	for _, v := range values {
		f, ok := ParseNumeric(v)
		if !ok {
			continue
		}
		if !found || f > peak {
			peak, found = f, true
		}
	}
	return peak, found
}

// Ratio 兩個峰值的比值，取到小數第二位
// 分母為 0 或任一峰值不存在時回傳佔位符
func Ratio(num, den []string) string {
	n, okN := Peak(num)
	d, okD := Peak(den)
	if !okN || !okD || d == 0 {
		return Placeholder
	}
	return fmt.Sprintf("%.2f", n/d)
}

// ComputeMetrics 依設定檔計算主表欄位的指標
// 欄位不在主表中 (例如被視為雜訊而略過) 時指標為佔位符
func ComputeMetrics(p *Profile, t Table) []Metric {
	cells := func(code string) []string {
		if col, ok := t.Column(code); ok {
			return col.Cells
		}
		return nil
	}

	out := make([]Metric, 0, len(p.Metrics))
	for _, spec := range p.Metrics {
		m := Metric{Kind: spec.Kind, Label: spec.Label, Unit: spec.Unit, Value: Placeholder}
		values := cells(spec.Code)

		switch spec.Kind {
		case MetricPeak:
			if v, ok := Peak(values); ok {
				m.Value = formatNumber(v)
			}
		case MetricRatio:
			m.Value = Ratio(values, cells(spec.Of))
		case MetricFasting:
			if len(values) > 0 {
				if v, ok := ParseNumeric(values[0]); ok {
					m.Value = formatNumber(v)
				}
			}
		case MetricDelta:
			if len(values) > 0 {
				base, okBase := ParseNumeric(values[0])
				peak, okPeak := Peak(values)
				if okBase && okPeak {
					m.Value = formatNumber(peak - base)
				}
			}
		}

		// 無法計算時不顯示單位
		if m.Value == Placeholder {
			m.Unit = ""
		}
		out = append(out, m)
	}
	return out
}

// formatNumber 四捨五入到小數第二位並去除多餘的零
func formatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
