// Package wordservice assembles the docx model and the report operations
// into the document-level workflows the HTTP service exposes: filling a
// template cell with classified free text, stamping date and weather,
// appending personnel statistics, patching appendix tables, and
// generating the daily statistics table under its heading.
package wordservice

import (
	"fmt"
	"strings"

	"github.com/chazai233/word-service/docx"
	"github.com/chazai233/word-service/report"
)

// RowPatch is one appendix-table row update.
type RowPatch struct {
	TableIndex int
	RowLabel   string
	Today      string
	Total      string
}

// Engine runs document workflows. Each call loads its own private model
// from the input buffer, mutates it, and serializes it once; an Engine is
// safe for concurrent use because no state is shared between calls.
type Engine struct {
	cellStyle  docx.RunStyle
	tableStyle report.Style
}

// NewEngine returns an engine with the template's default cell and table
// styles.
func NewEngine() *Engine {
	return &Engine{
		cellStyle:  docx.DefaultDataCellStyle(),
		tableStyle: report.DefaultStyle(),
	}
}

// FillTemplate writes classified free text into the addressed cell. An
// out-of-range table, row, or column index is a silent no-op: the
// document round-trips unchanged.
func (e *Engine) FillTemplate(template []byte, content string, tableIdx, rowIdx, colIdx int) ([]byte, error) {
	doc, err := docx.Load(template)
	if err != nil {
		return nil, fmt.Errorf("loading template: %w", err)
	}
	if cell := cellAt(doc, tableIdx, rowIdx, colIdx); cell != nil {
		report.FillCell(cell, content, e.cellStyle)
	}
	return doc.Save()
}

// UpdateDateWeather stamps the report date into the first cell and the
// weather summary into the last cell of the info table's first row. A
// document without a table is left unchanged.
func (e *Engine) UpdateDateWeather(docBytes []byte, dateText, weatherText string) ([]byte, error) {
	doc, err := docx.Load(docBytes)
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}
	if tbl := report.TableAt(doc, 0); tbl != nil && len(tbl.Rows()) > 0 {
		cells := tbl.Rows()[0].Cells()
		if len(cells) > 0 {
			cells[0].SetText(dateText, e.cellStyle)
			cells[len(cells)-1].SetText(weatherText, e.cellStyle)
		}
	}
	return doc.Save()
}

// AppendPersonnelStats appends a marker heading followed by the
// classified statistics lines at the end of the document body.
func (e *Engine) AppendPersonnelStats(docBytes []byte, text string) ([]byte, error) {
	doc, err := docx.Load(docBytes)
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}

	marker := docx.NewParagraph()
	markerStyle := e.cellStyle
	markerStyle.Bold = true
	marker.AppendRun(docx.NewRun("【自动统计】", markerStyle))
	doc.Append(marker)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		cls := report.Classify(line)
		p := docx.NewParagraph()
		if cls.Indent {
			p.SetFirstLineIndent(report.IndentTwips)
		}
		for _, seg := range cls.Segments {
			st := e.cellStyle
			st.Bold = seg.Bold
			p.AppendRun(docx.NewRun(seg.Text, st))
		}
		doc.Append(p)
	}
	return doc.Save()
}

// UpdateAppendixTables applies each patch in order and returns the saved
// document plus the number of patches that matched a row. Out-of-range
// table indices and unmatched labels are skipped; earlier patches stay
// applied.
func (e *Engine) UpdateAppendixTables(docBytes []byte, patches []RowPatch) ([]byte, int, error) {
	doc, err := docx.Load(docBytes)
	if err != nil {
		return nil, 0, fmt.Errorf("loading document: %w", err)
	}
	applied := 0
	for _, p := range patches {
		tbl := report.TableAt(doc, p.TableIndex)
		if tbl == nil {
			continue
		}
		if report.UpdateRow(tbl, p.RowLabel, p.Today, p.Total) {
			applied++
		}
	}
	out, err := doc.Save()
	if err != nil {
		return nil, applied, err
	}
	return out, applied, nil
}

// InsertDailyTable builds the daily statistics table with the default
// Chinese headers and anchors it after the heading.
func (e *Engine) InsertDailyTable(docBytes []byte, recs []report.Record, heading string, aliases []string, replaceExisting bool) ([]byte, bool, error) {
	return e.InsertTable(docBytes, nil, recs, heading, aliases, replaceExisting)
}

// InsertTable builds the statistics table with the given header row (nil
// selects the Chinese defaults) and anchors it after the heading, aliases
// tried in order when the primary is absent. When no heading matches, the
// table is appended at the end of the body so the generated data is never
// dropped; the returned flag reports whether an anchor was found.
func (e *Engine) InsertTable(docBytes []byte, headers []string, recs []report.Record, heading string, aliases []string, replaceExisting bool) ([]byte, bool, error) {
	doc, err := docx.Load(docBytes)
	if err != nil {
		return nil, false, fmt.Errorf("loading document: %w", err)
	}
	tbl := report.BuildTableWithHeaders(headers, recs, e.tableStyle)
	anchored := report.InsertAfterHeading(doc, heading, aliases, tbl, replaceExisting)
	if !anchored {
		doc.Append(tbl)
	}
	out, err := doc.Save()
	if err != nil {
		return nil, anchored, err
	}
	return out, anchored, nil
}

func cellAt(doc *docx.Document, tableIdx, rowIdx, colIdx int) *docx.Cell {
	tbl := report.TableAt(doc, tableIdx)
	if tbl == nil {
		return nil
	}
	rows := tbl.Rows()
	if rowIdx < 0 || rowIdx >= len(rows) {
		return nil
	}
	cells := rows[rowIdx].Cells()
	if colIdx < 0 || colIdx >= len(cells) {
		return nil
	}
	return cells[colIdx]
}
