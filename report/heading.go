package report

import (
	"strings"

	"github.com/chazai233/word-service/docx"
)

// InsertAfterHeading places tbl immediately after the first paragraph
// whose text contains heading. The primary heading is tried over the
// whole document before any alias is considered; aliases are then tried
// in order. With deleteExisting, a table directly following the matched
// heading is removed first, so repeated generation replaces rather than
// stacks. It reports whether an anchor paragraph was found.
func InsertAfterHeading(d *docx.Document, heading string, aliases []string, tbl *docx.Table, deleteExisting bool) bool {
	for _, h := range append([]string{heading}, aliases...) {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		anchor := findHeading(d, h)
		if anchor == nil {
			continue
		}
		if deleteExisting {
			if next, ok := d.NextSibling(anchor).(*docx.Table); ok {
				d.Remove(next)
			}
		}
		d.InsertAfter(anchor, tbl)
		return true
	}
	return false
}

func findHeading(d *docx.Document, heading string) *docx.Paragraph {
	for _, p := range d.Paragraphs() {
		if strings.Contains(p.Text(), heading) {
			return p
		}
	}
	return nil
}
