package report

import "github.com/chazai233/word-service/docx"

// Record is one line item of the daily statistics table.
type Record struct {
	Seq      string // sequence key; consecutive equal keys merge
	Location string
	Content  string
	Quantity string
	Shift    string
}

// Style controls the appearance of a generated table.
type Style struct {
	EastAsianFont string
	LatinFont     string
	SizePt        float64
	HeaderFill    string // header background, hex without '#'
}

// DefaultStyle is the appearance the daily report templates use.
func DefaultStyle() Style {
	return Style{
		EastAsianFont: "宋体",
		LatinFont:     "Times New Roman",
		SizePt:        10.5,
		HeaderFill:    "D9D9D9",
	}
}

var dailyHeaders = []string{"序号", "施工部位", "施工内容", "数量", "班次"}

// Column sizing bounds in centimeters. The budget matches the printable
// width of the A4 portrait templates.
var (
	dailyMinWidths = []float64{1.0, 2.5, 4.0, 1.5, 1.5}
	dailyMaxWidths = []float64{1.5, 4.5, 7.0, 3.0, 3.0}
)

const dailyBudgetCM = 15.9

// twipsPerCM converts centimeters to twentieths of a point.
const twipsPerCM = 567

// BuildTable creates the daily statistics table: a shaded header row plus
// one centered data row per record, with the sequence and location
// columns merged vertically across each maximal run of consecutive
// records sharing the same sequence key. The merge happens exactly once,
// while the rows are built; the returned table must not be merged again.
func BuildTable(recs []Record, st Style) *docx.Table {
	return BuildTableWithHeaders(nil, recs, st)
}

// BuildTableWithHeaders is BuildTable with a caller-supplied five-column
// header row, for templates in other languages. Nil headers select the
// default Chinese set.
func BuildTableWithHeaders(headers []string, recs []Record, st Style) *docx.Table {
	if headers == nil {
		headers = dailyHeaders
	}
	rows := make([][]string, len(recs))
	for i, r := range recs {
		rows[i] = []string{r.Seq, r.Location, r.Content, r.Quantity, r.Shift}
	}
	widths := EstimateWidths(headers, rows, dailyMinWidths, dailyMaxWidths, dailyBudgetCM)

	grid := make([]int, len(widths))
	for i, w := range widths {
		grid[i] = int(w * twipsPerCM)
	}

	tbl := docx.NewTable(grid, docx.TableStyle{Borders: true, Alignment: "center"})

	header := tbl.AddRow()
	for i, h := range headers {
		cell := header.AddCell(docx.CellProps{
			WidthTwips: grid[i],
			Shading:    st.HeaderFill,
			VAlign:     "center",
		})
		writeCellValue(cell, h, st, true)
	}

	merges := mergeRuns(recs)
	for i := range recs {
		row := tbl.AddRow()
		for col, val := range rows[i] {
			props := docx.CellProps{WidthTwips: grid[col], VAlign: "center"}
			show := val
			if col <= 1 {
				switch merges[i] {
				case docx.VMergeRestart:
					props.VMerge = docx.VMergeRestart
				case docx.VMergeContinue:
					props.VMerge = docx.VMergeContinue
					show = ""
				}
			}
			cell := row.AddCell(props)
			writeCellValue(cell, show, st, false)
		}
	}
	return tbl
}

// mergeRuns computes the per-record vertical-merge state of the sequence
// and location columns. A maximal run of consecutive equal sequence keys
// longer than one record opens a span at its first record and continues
// it through the rest; runs never overlap because each record belongs to
// exactly one maximal run.
func mergeRuns(recs []Record) []docx.VMergeState {
	out := make([]docx.VMergeState, len(recs))
	for i := 0; i < len(recs); {
		j := i + 1
		for j < len(recs) && recs[j].Seq == recs[i].Seq {
			j++
		}
		if j-i > 1 {
			out[i] = docx.VMergeRestart
			for k := i + 1; k < j; k++ {
				out[k] = docx.VMergeContinue
			}
		}
		i = j
	}
	return out
}

func writeCellValue(cell *docx.Cell, text string, st Style, bold bool) {
	run := docx.RunStyle{
		LatinFont:     st.LatinFont,
		EastAsianFont: st.EastAsianFont,
		SizePt:        st.SizePt,
		Bold:          bold,
	}
	p := cell.Paragraphs()[0]
	p.SetAlignment("center")
	p.SetSpacing(40, 40, 240, "auto")
	if text != "" {
		p.AppendRun(docx.NewRun(text, run))
	}
}
