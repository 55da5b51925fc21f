package endoreport

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// Placeholder 無值欄位的填充字串
const Placeholder = "--"

// ============================================================================
// 試驗設定檔
// ============================================================================

// TestType 支援的刺激試驗
type TestType string

const (
	TestInsulin   TestType = "insulin"   // Insulin/TRH/GnRH test
	TestClonidine TestType = "clonidine" // Clonidine test
	TestGnRH      TestType = "gnrh"      // GnRH stimulation test
	TestGlucagon  TestType = "glucagon"  // Glucagon test (C-peptide)
)

// Strategy 試驗場次判定方式
type Strategy string

const (
	// StrategyCommonIndex 所有主要項目同時有值的欄位 (不要求同一天)
	StrategyCommonIndex Strategy = "common_index"
	// StrategyTargetDate 每個主要項目在同一天都有足夠次數，取最近日期
	StrategyTargetDate Strategy = "target_date"
)

// MetricKind 試驗後計算指標
type MetricKind string

const (
	MetricPeak    MetricKind = "peak"    // 最高值
	MetricRatio   MetricKind = "ratio"   // Code 峰值 / Of 峰值
	MetricFasting MetricKind = "fasting" // 第一個時間點
	MetricDelta   MetricKind = "delta"   // 峰值 - 第一個時間點
)

// AnalyteSpec 主表欄位: 代碼、顯示名稱、單位
type AnalyteSpec struct {
	Code string `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
	Unit string `yaml:"unit" json:"unit"`
}

// MetricSpec 指標設定
type MetricSpec struct {
	Kind  MetricKind `yaml:"kind" json:"kind"`
	Label string     `yaml:"label" json:"label"`
	Code  string     `yaml:"code" json:"code"`
	Of    string     `yaml:"of,omitempty" json:"of,omitempty"` // ratio 分母代碼
	Unit  string     `yaml:"unit,omitempty" json:"unit,omitempty"`
}

// Profile 單一試驗的完整設定
type Profile struct {
	Type             TestType      `yaml:"type" json:"type"`
	Title            string        `yaml:"title" json:"title"`
	Strategy         Strategy      `yaml:"strategy" json:"strategy"`
	Count            int           `yaml:"count" json:"count"`
	LabelHeader      string        `yaml:"label_header" json:"label_header"`
	Labels           []string      `yaml:"labels" json:"labels"`
	Primary          []AnalyteSpec `yaml:"primary" json:"primary"`
	Optional         []AnalyteSpec `yaml:"optional" json:"optional"`
	Pinned           []string      `yaml:"pinned" json:"pinned,omitempty"`
	ExcludeIfPresent []string      `yaml:"exclude_if_present" json:"exclude_if_present,omitempty"`
	AppendixExclude  []string      `yaml:"appendix_exclude" json:"appendix_exclude,omitempty"`
	Metrics          []MetricSpec  `yaml:"metrics" json:"metrics,omitempty"`
	ReferenceTable   []string      `yaml:"reference_table" json:"reference_table,omitempty"`
	Specimen         string        `yaml:"specimen" json:"specimen,omitempty"`
	CodePrefix       string        `yaml:"code_prefix" json:"code_prefix,omitempty"`
	MinCode          int           `yaml:"min_code" json:"min_code,omitempty"`
}

// RowOptions 設定檔對應的資料列過濾條件
func (p *Profile) RowOptions() RowOptions {
	return RowOptions{
		Specimen:   p.Specimen,
		CodePrefix: p.CodePrefix,
		MinCode:    p.MinCode,
	}
}

// IsPinned 是否只顯示於第一與最後時間點
func (p *Profile) IsPinned(code string) bool {
	return lo.Contains(p.Pinned, code)
}

// Validate 檢查設定檔一致性
func (p *Profile) Validate() error {
	switch {
	case p.Type == "":
		return fmt.Errorf("%w: missing type", ErrInvalidProfile)
	case p.Strategy != StrategyCommonIndex && p.Strategy != StrategyTargetDate:
		return fmt.Errorf("%w: %s: unknown strategy %q", ErrInvalidProfile, p.Type, p.Strategy)
	case p.Count <= 0:
		return fmt.Errorf("%w: %s: count must be positive", ErrInvalidProfile, p.Type)
	case len(p.Labels) != p.Count:
		return fmt.Errorf("%w: %s: %d labels for count %d", ErrInvalidProfile, p.Type, len(p.Labels), p.Count)
	case len(p.Primary) == 0:
		return fmt.Errorf("%w: %s: no primary analytes", ErrInvalidProfile, p.Type)
	}

	seen := make(map[string]bool)
	for _, spec := range append(append([]AnalyteSpec{}, p.Primary...), p.Optional...) {
		if spec.Code == "" || spec.Name == "" {
			return fmt.Errorf("%w: %s: analyte needs code and name", ErrInvalidProfile, p.Type)
		}
		if seen[spec.Code] {
			return fmt.Errorf("%w: %s: duplicate analyte %s", ErrInvalidProfile, p.Type, spec.Code)
		}
		seen[spec.Code] = true
	}

	for _, m := range p.Metrics {
		if m.Kind == MetricRatio && m.Of == "" {
			return fmt.Errorf("%w: %s: ratio metric %q needs of", ErrInvalidProfile, p.Type, m.Label)
		}
	}
	return nil
}

// Profiles 依試驗類型索引的設定檔集合
type Profiles map[TestType]*Profile

type profileFile struct {
	Profiles []*Profile `yaml:"profiles"`
}

//go:embed profiles.yaml
var defaultProfilesYAML []byte

// DefaultProfiles 內建四種試驗設定
func DefaultProfiles() Profiles {
	ps, err := LoadProfiles(bytes.NewReader(defaultProfilesYAML))
	if err != nil {
		panic(fmt.Sprintf("endoreport: built-in profiles: %v", err))
	}
	return ps
}

// LoadProfiles 讀取 YAML 設定檔
func LoadProfiles(r io.Reader) (Profiles, error) {
	var file profileFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}

	ps := make(Profiles, len(file.Profiles))
	for _, p := range file.Profiles {
		if p == nil {
			return nil, fmt.Errorf("%w: empty profile entry", ErrInvalidProfile)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, exists := ps[p.Type]; exists {
			return nil, fmt.Errorf("%w: duplicate profile %s", ErrInvalidProfile, p.Type)
		}
		ps[p.Type] = p
	}
	return ps, nil
}

// clone 深拷貝，轉換器建立後不再受呼叫端修改影響
func (ps Profiles) clone() Profiles {
	out := make(Profiles, len(ps))
	for k, p := range ps {
		cp := *p
		cp.Labels = append([]string(nil), p.Labels...)
		cp.Primary = append([]AnalyteSpec(nil), p.Primary...)
		cp.Optional = append([]AnalyteSpec(nil), p.Optional...)
		cp.Pinned = append([]string(nil), p.Pinned...)
		cp.ExcludeIfPresent = append([]string(nil), p.ExcludeIfPresent...)
		cp.AppendixExclude = append([]string(nil), p.AppendixExclude...)
		cp.Metrics = append([]MetricSpec(nil), p.Metrics...)
		cp.ReferenceTable = append([]string(nil), p.ReferenceTable...)
		out[k] = &cp
	}
	return out
}
