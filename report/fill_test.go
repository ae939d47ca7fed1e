package report

import (
	"testing"

	"github.com/chazai233/word-service/docx"
)

func TestFillCell(t *testing.T) {
	doc := buildDoc(t, oneCellTable("placeholder"))
	cell := doc.Tables()[0].Rows()[0].Cells()[0]

	FillCell(cell, "1、临建工程\n人员投入：张三10人\n\n(1) 场地精平\r\n", docx.DefaultDataCellStyle())

	paras := cell.Paragraphs()
	if len(paras) != 3 {
		t.Fatalf("got %d paragraphs, want 3", len(paras))
	}

	heading := paras[0]
	if got := heading.FirstLineIndent(); got != 0 {
		t.Errorf("heading indent = %d, want 0", got)
	}
	if runs := heading.Runs(); len(runs) != 1 || !runs[0].Bold() {
		t.Error("heading must render as one bold run")
	}

	stat := paras[1]
	if got := stat.FirstLineIndent(); got != IndentTwips {
		t.Errorf("stat line indent = %d, want %d", got, IndentTwips)
	}
	runs := stat.Runs()
	if len(runs) != 2 {
		t.Fatalf("stat line has %d runs, want 2", len(runs))
	}
	if runs[0].Text() != "人员投入：" || !runs[0].Bold() {
		t.Errorf("label run = %q bold=%v", runs[0].Text(), runs[0].Bold())
	}
	if runs[1].Text() != "张三10人" || runs[1].Bold() {
		t.Errorf("value run = %q bold=%v", runs[1].Text(), runs[1].Bold())
	}

	sub := paras[2]
	if got := sub.FirstLineIndent(); got != IndentTwips {
		t.Errorf("sub item indent = %d, want %d", got, IndentTwips)
	}
	if runs := sub.Runs(); len(runs) != 1 || runs[0].Bold() {
		t.Error("sub item must render as one plain run")
	}
}

func TestFillCell_BlankTextLeavesEmptyParagraph(t *testing.T) {
	doc := buildDoc(t, oneCellTable("old"))
	cell := doc.Tables()[0].Rows()[0].Cells()[0]

	FillCell(cell, "\n  \r\n", docx.DefaultDataCellStyle())

	paras := cell.Paragraphs()
	if len(paras) != 1 {
		t.Fatalf("got %d paragraphs, want 1", len(paras))
	}
	if got := cell.Text(); got != "" {
		t.Errorf("cell text = %q, want empty", got)
	}
}
