package report

import (
	"strings"

	"github.com/chazai233/word-service/docx"
)

// columnRoles are the resolved column indices for one appendix table.
type columnRoles struct {
	name  int
	today int
	total int
}

// TableAt returns the document's table at index i, or nil when the index
// is out of range.
func TableAt(d *docx.Document, i int) *docx.Table {
	tables := d.Tables()
	if i < 0 || i >= len(tables) {
		return nil
	}
	return tables[i]
}

// UpdateRow finds the first row whose name-column text contains label and
// writes today's and the cumulative quantity into it. It reports whether a
// row was updated. An empty or "-" value means "leave that cell alone", so
// partial updates are possible. Matching is verbatim substring matching
// after whitespace trimming; no normalization is applied to either side.
func UpdateRow(t *docx.Table, label, today, total string) bool {
	if t == nil || strings.TrimSpace(label) == "" {
		return false
	}
	rows := t.Rows()
	if len(rows) == 0 {
		return false
	}

	roles := inferColumns(rows[0])
	label = strings.TrimSpace(label)

	for _, row := range rows {
		cells := row.Cells()
		if roles.name >= len(cells) {
			continue
		}
		name := strings.TrimSpace(cells[roles.name].Text())
		if name == "" || !strings.Contains(name, label) {
			continue
		}
		if wantValue(today) && roles.today < len(cells) {
			cells[roles.today].SetText(today, docx.DefaultDataCellStyle())
		}
		if wantValue(total) && roles.total < len(cells) {
			cells[roles.total].SetText(total, docx.DefaultDataCellStyle())
		}
		return true
	}
	return false
}

// wantValue reports whether v should be written. Empty and "-" are the
// sentinel for "no change today".
func wantValue(v string) bool {
	v = strings.TrimSpace(v)
	return v != "" && v != "-"
}

// inferColumns maps header text to column roles. Headers containing 项目
// or 名称 name the row, 今日 or 日完成 take today's quantity, 累计 takes
// the cumulative one. Roles the header does not reveal fall back to the
// layout the appendix templates share, clamped to the actual width.
func inferColumns(header *docx.Row) columnRoles {
	cells := header.Cells()
	cols := len(cells)

	roles := columnRoles{name: -1, today: -1, total: -1}
	for i, c := range cells {
		text := c.Text()
		switch {
		case roles.name < 0 && (strings.Contains(text, "项目") || strings.Contains(text, "名称")):
			roles.name = i
		case roles.today < 0 && (strings.Contains(text, "今日") || strings.Contains(text, "日完成")):
			roles.today = i
		case roles.total < 0 && strings.Contains(text, "累计"):
			roles.total = i
		}
	}

	if roles.name < 0 {
		roles.name = 1
	}
	if roles.today < 0 {
		if cols <= 5 {
			roles.today = cols - 2
		} else {
			roles.today = 4
		}
	}
	if roles.total < 0 {
		roles.total = cols - 1
		if roles.total > 5 {
			roles.total = 5
		}
	}

	roles.name = clamp(roles.name, cols)
	roles.today = clamp(roles.today, cols)
	roles.total = clamp(roles.total, cols)
	return roles
}

func clamp(i, cols int) int {
	if i < 0 {
		return 0
	}
	if i >= cols {
		return cols - 1
	}
	return i
}
