package endoreport

import (
	"slices"
	"sort"

	"github.com/samber/lo"
)

// ============================================================================
// 試驗場次判定
// ============================================================================

// Occasion 一次試驗的採檢欄位
type Occasion struct {
	Strategy Strategy `json:"strategy"`
	Date     string   `json:"date"`
	// Slots 對應時間標籤的參考欄位順序，長度等於 Count
	Slots []int `json:"slots"`
	// Scope 屬於本次試驗的所有欄位 (依顯示順序)
	Scope []int `json:"scope"`
	// Columns 主要項目各自的欄位 (同日判定時每個項目可能不同欄)
	Columns map[string][]int `json:"columns,omitempty"`
}

// Indices 取得某項目對應時間標籤的欄位
func (o *Occasion) Indices(code string) []int {
	if idx, ok := o.Columns[code]; ok {
		return idx
	}
	return o.Slots
}

// Resolve 依設定檔的判定方式找出試驗場次
func Resolve(p *Profile, slots []Slot, analytes *Analytes) (*Occasion, bool) {
	switch p.Strategy {
	case StrategyCommonIndex:
		return resolveCommonIndex(p, slots, analytes)
	case StrategyTargetDate:
		return resolveTargetDate(p, slots, analytes)
	default:
		return nil, false
	}
}

// resolveCommonIndex 所有主要項目同時有值的欄位取前 N 個
// 匯出欄位是新到舊，反轉後即為時間順序
func resolveCommonIndex(p *Profile, slots []Slot, analytes *Analytes) (*Occasion, bool) {
	var common []int
	for i, spec := range p.Primary {
		a := analytes.Get(spec.Code)
		if a == nil {
			return nil, false
		}
		// 超出表頭欄數的欄位沒有對應的採檢時間 (可能是單位或參考值)
		idx := lo.Filter(nonblankIndices(a), func(j int, _ int) bool {
			return j < len(slots)
		})
		if i == 0 {
			common = idx
		} else {
			common = lo.Intersect(common, idx)
		}
	}

	sort.Ints(common)
	if len(common) < p.Count {
		return nil, false
	}

	chosen := slices.Clone(common[:p.Count])
	slices.Reverse(chosen)

	// 日期取所選欄位中最早的一天
	date := ""
	for _, i := range chosen {
		if i >= len(slots) || slots[i].Date == "" {
			continue
		}
		if date == "" || slots[i].Date < date {
			date = slots[i].Date
		}
	}

	return &Occasion{
		Strategy: StrategyCommonIndex,
		Date:     date,
		Slots:    chosen,
		Scope:    slices.Clone(chosen),
	}, true
}

// resolveTargetDate 每個主要項目在同一天都有 N 個以上的值才算候選日期，
// 排除不合格日期後取最近的一天；各項目的欄位由大到小排序 (即時間順序)
func resolveTargetDate(p *Profile, slots []Slot, analytes *Analytes) (*Occasion, bool) {
	byCode := make(map[string]map[string][]int, len(p.Primary))
	for _, spec := range p.Primary {
		a := analytes.Get(spec.Code)
		if a == nil {
			return nil, false
		}
		byCode[spec.Code] = indicesByDate(a, slots)
	}

	candidates := lo.Filter(lo.Keys(byCode[p.Primary[0].Code]), func(date string, _ int) bool {
		if date == "" {
			return false
		}
		for _, spec := range p.Primary {
			if len(byCode[spec.Code][date]) < p.Count {
				return false
			}
		}
		return true
	})
	sort.Sort(sort.Reverse(sort.StringSlice(candidates)))

	for _, date := range candidates {
		if disqualified(p, date, slots, analytes) {
			continue
		}

		occ := &Occasion{
			Strategy: StrategyTargetDate,
			Date:     date,
			Scope:    dateScope(date, slots),
			Columns:  make(map[string][]int, len(p.Primary)),
		}
		for _, spec := range p.Primary {
			idx := slices.Clone(byCode[spec.Code][date])
			sort.Sort(sort.Reverse(sort.IntSlice(idx)))
			occ.Columns[spec.Code] = idx[:p.Count]
		}
		occ.Slots = occ.Columns[p.Primary[0].Code]
		return occ, true
	}

	return nil, false
}

// disqualified 該日有排除項目的值 (例如 clonidine 日期同時有 cortisol 表示是合併試驗)
func disqualified(p *Profile, date string, slots []Slot, analytes *Analytes) bool {
	for _, code := range p.ExcludeIfPresent {
		a := analytes.Get(code)
		if a == nil {
			continue
		}
		for _, i := range dateScope(date, slots) {
			if a.Value(i) != "" {
				return true
			}
		}
	}
	return false
}

// dateScope 某日所有欄位，由大到小排序
func dateScope(date string, slots []Slot) []int {
	var idx []int
	for _, s := range slots {
		if s.Date == date {
			idx = append(idx, s.Index)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(idx)))
	return idx
}

func nonblankIndices(a *Analyte) []int {
	var idx []int
	for i, v := range a.Values {
		if v != "" {
			idx = append(idx, i)
		}
	}
	return idx
}

func indicesByDate(a *Analyte, slots []Slot) map[string][]int {
	out := make(map[string][]int)
	for _, i := range nonblankIndices(a) {
		if i >= len(slots) {
			continue
		}
		date := slots[i].Date
		out[date] = append(out[date], i)
	}
	return out
}
