package report

import (
	"strings"

	"github.com/chazai233/word-service/docx"
)

// FillCell replaces the cell's content with classified, formatted
// paragraphs, one per non-blank input line. The given style is the base
// for every run; classification only toggles its Bold flag. A text that
// yields no paragraphs leaves one empty paragraph so the cell stays
// valid.
func FillCell(cell *docx.Cell, text string, st docx.RunStyle) {
	cell.Reset()

	wrote := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		writeLine(cell, line, st)
		wrote = true
	}
	if !wrote {
		cell.AddParagraph()
	}
}

func writeLine(cell *docx.Cell, line string, st docx.RunStyle) {
	cls := Classify(line)

	p := cell.AddParagraph()
	if cls.Indent {
		p.SetFirstLineIndent(IndentTwips)
	}
	for _, seg := range cls.Segments {
		segStyle := st
		segStyle.Bold = seg.Bold
		p.AppendRun(docx.NewRun(seg.Text, segStyle))
	}
}
