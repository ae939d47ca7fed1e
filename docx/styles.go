package docx

// RunStyle is the declarative style applied to freshly created runs. Mixed
// scripts resolve per character: LatinFont covers ASCII, EastAsianFont
// covers ideographs.
type RunStyle struct {
	LatinFont     string
	EastAsianFont string
	SizePt        float64
	Bold          bool
}

// TableStyle is the declarative style applied to freshly built tables.
type TableStyle struct {
	Borders   bool
	Alignment string // table justification: "", "center", ...
}

// DefaultDataCellStyle returns the run style the templates use for data
// cells: Times New Roman for Latin text, SimSun for CJK, 10.5pt.
func DefaultDataCellStyle() RunStyle {
	return RunStyle{
		LatinFont:     "Times New Roman",
		EastAsianFont: "宋体",
		SizePt:        10.5,
	}
}
