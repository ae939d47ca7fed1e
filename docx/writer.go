package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// xmlWriter accumulates the regenerated word/document.xml. All writes go
// through it so text escaping stays in one place.
type xmlWriter struct {
	buf bytes.Buffer
}

func (w *xmlWriter) raw(b []byte)  { w.buf.Write(b) }
func (w *xmlWriter) str(s string)  { w.buf.WriteString(s) }
func (w *xmlWriter) text(s string) { xml.EscapeText(&w.buf, []byte(s)) }
func (w *xmlWriter) attr(name, val string) {
	w.buf.WriteByte(' ')
	w.buf.WriteString(name)
	w.buf.WriteString(`="`)
	xml.EscapeText(&w.buf, []byte(val))
	w.buf.WriteByte('"')
}

// Save serializes the document back into a DOCX byte buffer. Parts other
// than word/document.xml are copied verbatim; within document.xml, blocks
// that were never mutated are emitted from their load-time capture.
func (d *Document) Save() ([]byte, error) {
	var w xmlWriter
	w.raw(d.header)
	for _, b := range d.children {
		b.writeXML(&w)
	}
	w.raw(d.trailer)

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for _, p := range d.parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return nil, fmt.Errorf("writing %s: %w", p.name, err)
		}
		data := p.data
		if p.name == "word/document.xml" {
			data = w.buf.Bytes()
		}
		if _, err := f.Write(data); err != nil {
			return nil, fmt.Errorf("writing %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing docx archive: %w", err)
	}
	return out.Bytes(), nil
}

func (p *Paragraph) writeXML(w *xmlWriter) {
	if p.raw != nil && !p.dirty {
		w.raw(p.raw)
		return
	}
	w.str("<w:p>")
	if p.props != nil {
		p.props.writeXML(w)
	}
	for _, c := range p.children {
		switch ch := c.(type) {
		case *Run:
			ch.writeXML(w)
		case rawFrag:
			w.raw(ch)
		}
	}
	w.str("</w:p>")
}

func (pp *ParaProps) writeXML(w *xmlWriter) {
	if pp.Align == "" && pp.Indent == nil && pp.Spacing == nil && len(pp.raws) == 0 {
		return
	}
	w.str("<w:pPr>")
	// Preserved fragments first, except rPr which the schema wants last.
	var rpr []rawFrag
	for _, r := range pp.raws {
		if bytes.HasPrefix(bytes.TrimSpace(r), []byte("<w:rPr")) {
			rpr = append(rpr, r)
			continue
		}
		w.raw(r)
	}
	if pp.Spacing != nil {
		sp := pp.Spacing
		w.str("<w:spacing")
		if sp.Before != 0 {
			w.attr("w:before", strconv.Itoa(sp.Before))
		}
		if sp.After != 0 {
			w.attr("w:after", strconv.Itoa(sp.After))
		}
		if sp.Line != 0 {
			w.attr("w:line", strconv.Itoa(sp.Line))
		}
		if sp.LineRule != "" {
			w.attr("w:lineRule", sp.LineRule)
		}
		w.str("/>")
	}
	if pp.Indent != nil {
		ind := pp.Indent
		w.str("<w:ind")
		if ind.Left != "" {
			w.attr("w:left", ind.Left)
		}
		if ind.Right != "" {
			w.attr("w:right", ind.Right)
		}
		if ind.hasFirstLine {
			w.attr("w:firstLine", strconv.Itoa(ind.FirstLine))
		}
		if ind.Hanging != "" {
			w.attr("w:hanging", ind.Hanging)
		}
		w.str("/>")
	}
	if pp.Align != "" {
		w.str("<w:jc")
		w.attr("w:val", pp.Align)
		w.str("/>")
	}
	for _, r := range rpr {
		w.raw(r)
	}
	w.str("</w:pPr>")
}

func (r *Run) writeXML(w *xmlWriter) {
	w.str("<w:r>")
	if r.rprRaw != nil {
		w.raw(r.rprRaw)
	} else if r.style != nil {
		r.style.writeXML(w)
	}
	for _, c := range r.children {
		switch ch := c.(type) {
		case runText:
			s := string(ch)
			w.str("<w:t")
			if strings.TrimSpace(s) != s {
				w.attr("xml:space", "preserve")
			}
			w.str(">")
			w.text(s)
			w.str("</w:t>")
		case rawFrag:
			w.raw(ch)
		}
	}
	w.str("</w:r>")
}

func (st *RunStyle) writeXML(w *xmlWriter) {
	w.str("<w:rPr>")
	if st.LatinFont != "" || st.EastAsianFont != "" {
		w.str("<w:rFonts")
		if st.LatinFont != "" {
			w.attr("w:ascii", st.LatinFont)
			w.attr("w:hAnsi", st.LatinFont)
		}
		if st.EastAsianFont != "" {
			w.attr("w:eastAsia", st.EastAsianFont)
		}
		w.str("/>")
	}
	if st.Bold {
		w.str("<w:b/>")
	}
	if st.SizePt > 0 {
		half := strconv.Itoa(int(st.SizePt * 2))
		w.str("<w:sz")
		w.attr("w:val", half)
		w.str("/>")
		w.str("<w:szCs")
		w.attr("w:val", half)
		w.str("/>")
	}
	w.str("</w:rPr>")
}

func (t *Table) writeXML(w *xmlWriter) {
	if t.raw != nil && !t.dirty {
		w.raw(t.raw)
		return
	}
	w.str("<w:tbl>")
	if t.tblPrRaw != nil {
		w.raw(t.tblPrRaw)
	} else {
		t.writeTblPr(w)
	}
	if t.gridRaw != nil {
		w.raw(t.gridRaw)
	} else if len(t.grid) > 0 {
		w.str("<w:tblGrid>")
		for _, cw := range t.grid {
			w.str("<w:gridCol")
			w.attr("w:w", strconv.Itoa(cw))
			w.str("/>")
		}
		w.str("</w:tblGrid>")
	}
	for _, c := range t.children {
		switch ch := c.(type) {
		case *Row:
			ch.writeXML(w)
		case rawFrag:
			w.raw(ch)
		}
	}
	w.str("</w:tbl>")
}

func (t *Table) writeTblPr(w *xmlWriter) {
	total := 0
	for _, cw := range t.grid {
		total += cw
	}
	w.str("<w:tblPr>")
	w.str("<w:tblW")
	w.attr("w:w", strconv.Itoa(total))
	w.attr("w:type", "dxa")
	w.str("/>")
	if t.style != nil && t.style.Alignment != "" {
		w.str("<w:jc")
		w.attr("w:val", t.style.Alignment)
		w.str("/>")
	}
	if t.style != nil && t.style.Borders {
		w.str("<w:tblBorders>")
		for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
			w.str("<w:" + side)
			w.attr("w:val", "single")
			w.attr("w:sz", "4")
			w.attr("w:space", "0")
			w.attr("w:color", "auto")
			w.str("/>")
		}
		w.str("</w:tblBorders>")
	}
	w.str("<w:tblLayout")
	w.attr("w:type", "fixed")
	w.str("/>")
	w.str("</w:tblPr>")
}

func (r *Row) writeXML(w *xmlWriter) {
	w.str("<w:tr>")
	if r.trPrRaw != nil {
		w.raw(r.trPrRaw)
	}
	for _, c := range r.children {
		switch ch := c.(type) {
		case *Cell:
			ch.writeXML(w)
		case rawFrag:
			w.raw(ch)
		}
	}
	w.str("</w:tr>")
}

func (c *Cell) writeXML(w *xmlWriter) {
	w.str("<w:tc>")
	if c.tcPrRaw != nil {
		w.raw(c.tcPrRaw)
	} else if c.props != nil {
		c.props.writeXML(w)
	}
	wrote := false
	for _, ch := range c.children {
		switch v := ch.(type) {
		case *Paragraph:
			v.writeXML(w)
			wrote = true
		case rawFrag:
			w.raw(v)
		}
	}
	if !wrote {
		// Word rejects cells without a paragraph.
		w.str("<w:p/>")
	}
	w.str("</w:tc>")
}

func (cp *CellProps) writeXML(w *xmlWriter) {
	w.str("<w:tcPr>")
	if cp.WidthTwips > 0 {
		w.str("<w:tcW")
		w.attr("w:w", strconv.Itoa(cp.WidthTwips))
		w.attr("w:type", "dxa")
		w.str("/>")
	}
	switch cp.VMerge {
	case VMergeRestart:
		w.str("<w:vMerge")
		w.attr("w:val", "restart")
		w.str("/>")
	case VMergeContinue:
		w.str("<w:vMerge/>")
	}
	if cp.Shading != "" {
		w.str("<w:shd")
		w.attr("w:val", "clear")
		w.attr("w:color", "auto")
		w.attr("w:fill", cp.Shading)
		w.str("/>")
	}
	if cp.VAlign != "" {
		w.str("<w:vAlign")
		w.attr("w:val", cp.VAlign)
		w.str("/>")
	}
	w.str("</w:tcPr>")
}
