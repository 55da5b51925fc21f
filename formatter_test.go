package endoreport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatReport_Layout(t *testing.T) {
	p := mustProfile(t, TestGnRH)
	table := Table{
		LabelHeader: p.LabelHeader,
		Labels:      p.Labels,
		Columns: []Column{
			{Code: "72-482", Name: "LH", Unit: "mIU/mL", Cells: []string{"1.2", "8.4", "10.1", "9"}},
			{Code: "72-483", Name: "FSH", Unit: "mIU/mL", Cells: []string{"2", "--", "<0.5", "5"}},
		},
	}
	metrics := ComputeMetrics(p, table)

	report := FormatReport(p, table, "20250101", metrics, nil)
	lines := strings.Split(strings.TrimRight(report, "\n"), "\n")

	require.GreaterOrEqual(t, len(lines), 12)
	assert.Equal(t, "＝ GnRH stimulation test on 2025/01/01 ＝", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, PadWidth("", LabelWidth)+PadWidth("LH", CellWidth)+"FSH", lines[2])
	assert.Equal(t, PadWidth("時間(分)", LabelWidth)+PadWidth("mIU/mL", CellWidth)+"mIU/mL", lines[3])
	assert.Equal(t, Divider(LabelWidth+2*CellWidth), lines[4])
	assert.Equal(t, PadWidth("0(分)", LabelWidth)+PadWidth("1.2", CellWidth)+"2", lines[5])
	assert.Equal(t, PadWidth("60(分)", LabelWidth)+PadWidth("10.1", CellWidth)+"<0.5", lines[7])
	assert.Equal(t, lines[4], lines[9])
	assert.Equal(t, "Peak LH: 10.1 mIU/mL", lines[10])
	assert.Equal(t, "Peak LH/FSH: 2.02", lines[12])
}

func TestFormatReport_TruncatesWideValues(t *testing.T) {
	p := mustProfile(t, TestGnRH)
	table := Table{
		LabelHeader: p.LabelHeader,
		Labels:      []string{"0(分)"},
		Columns:     []Column{{Name: "Testosterone", Cells: []string{"123456789012"}}},
	}

	report := FormatReport(p, table, "", nil, nil)

	assert.Contains(t, report, "on -- ＝")
	assert.Contains(t, report, "Testoste\n")
	assert.Contains(t, report, "12345678\n")
	assert.NotContains(t, report, "123456789")
}

func TestFormatReport_ReferenceTableAndOthers(t *testing.T) {
	p := mustProfile(t, TestGlucagon)
	table := Assemble(p, nil, &Analytes{})
	others := []OtherLab{
		{Code: "72-500", Name: "Na", Unit: "mmol/L", Reference: "136-145 (成人)", Values: []string{"140"}},
		{Code: "72-501", Name: "血清肌酸酐 Creatinine", Unit: "mg/dL", Reference: "0.7-1.3", Values: []string{"1.0", "1.1"}},
	}

	report := FormatReport(p, table, "20250101", ComputeMetrics(p, table), others)

	assert.Contains(t, report, p.ReferenceTable[0]+"\n")
	assert.Contains(t, report, OtherLabsTitle+"\n")
	assert.Contains(t, report, PadWidth("Na", NameWidth)+PadWidth("140", CellWidth)+PadWidth("", CellWidth)+PadWidth("mmol/L", CellWidth)+"136-145 (成人)\n")
	assert.Contains(t, report, PadWidth("血清肌酸酐 Crea", NameWidth)+PadWidth("1.0", CellWidth)+PadWidth("1.1", CellWidth))
	assert.Contains(t, report, "Fasting C-peptide: --\n")
}
