package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

// Load parses a DOCX byte buffer into a Document. Every zip part other
// than word/document.xml is kept verbatim for Save.
func Load(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening docx archive: %w", err)
	}

	doc := &Document{}
	var docXML []byte
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f.Name, err)
		}
		doc.parts = append(doc.parts, part{name: f.Name, data: b})
		if f.Name == "word/document.xml" {
			docXML = b
		}
	}
	if docXML == nil {
		return nil, fmt.Errorf("missing required file: word/document.xml")
	}

	if err := doc.parseBody(docXML); err != nil {
		return nil, fmt.Errorf("parsing document.xml: %w", err)
	}
	return doc, nil
}

// parseBody tokenizes word/document.xml. Offsets into data give byte-exact
// raw captures: the decoder returns inter-element whitespace as its own
// CharData token, so the offset recorded before a start element always
// points at its '<'.
func (d *Document) parseBody(data []byte) error {
	dec := xml.NewDecoder(bytes.NewReader(data))

	// Scan to the <w:body> open tag; everything before it is emitted
	// verbatim on save.
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return fmt.Errorf("no body element")
		}
		if err != nil {
			return err
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "body" {
			d.header = data[:dec.InputOffset()]
			break
		}
	}

	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				p, err := parseParagraph(dec, data)
				if err != nil {
					return err
				}
				p.raw = data[off:dec.InputOffset()]
				d.children = append(d.children, p)
			case "tbl":
				tbl, err := parseTable(dec, data)
				if err != nil {
					return err
				}
				tbl.raw = data[off:dec.InputOffset()]
				d.children = append(d.children, tbl)
			default:
				if err := dec.Skip(); err != nil {
					return err
				}
				d.children = append(d.children, rawBlock(data[off:dec.InputOffset()]))
			}
		case xml.EndElement:
			if t.Name.Local == "body" {
				d.trailer = data[off:]
				return nil
			}
		}
	}
	return fmt.Errorf("unterminated body element")
}

// skipRaw consumes the element that t opened and returns its exact source
// bytes, start tag included.
func skipRaw(dec *xml.Decoder, data []byte, off int64) (rawFrag, error) {
	if err := dec.Skip(); err != nil {
		return nil, err
	}
	return rawFrag(data[off:dec.InputOffset()]), nil
}

func parseParagraph(dec *xml.Decoder, data []byte) (*Paragraph, error) {
	p := &Paragraph{}
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				props, err := parseParaProps(dec, data)
				if err != nil {
					return nil, err
				}
				p.props = props
			case "r":
				r, err := parseRun(dec, data)
				if err != nil {
					return nil, err
				}
				r.parent = p
				p.children = append(p.children, r)
			default:
				raw, err := skipRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				p.children = append(p.children, raw)
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				return p, nil
			}
		}
	}
}

func parseParaProps(dec *xml.Decoder, data []byte) (*ParaProps, error) {
	props := &ParaProps{}
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "jc":
				props.Align = attrVal(t, "val")
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			case "ind":
				ind := &Indent{
					Left:    attrVal(t, "left"),
					Right:   attrVal(t, "right"),
					Hanging: attrVal(t, "hanging"),
				}
				if fl := attrVal(t, "firstLine"); fl != "" {
					ind.FirstLine = parseInt(fl)
					ind.hasFirstLine = true
				}
				props.Indent = ind
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			case "spacing":
				props.Spacing = &Spacing{
					Before:   parseInt(attrVal(t, "before")),
					After:    parseInt(attrVal(t, "after")),
					Line:     parseInt(attrVal(t, "line")),
					LineRule: attrVal(t, "lineRule"),
				}
				if err := dec.Skip(); err != nil {
					return nil, err
				}
			default:
				raw, err := skipRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				props.raws = append(props.raws, raw)
			}
		case xml.EndElement:
			if t.Name.Local == "pPr" {
				return props, nil
			}
		}
	}
}

func parseRun(dec *xml.Decoder, data []byte) (*Run, error) {
	r := &Run{}
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "rPr":
				raw, err := skipRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				r.rprRaw = raw
			case "t":
				var tx struct {
					Value string `xml:",chardata"`
				}
				if err := dec.DecodeElement(&tx, &t); err != nil {
					return nil, err
				}
				r.children = append(r.children, runText(tx.Value))
			default:
				raw, err := skipRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				r.children = append(r.children, raw)
			}
		case xml.EndElement:
			if t.Name.Local == "r" {
				return r, nil
			}
		}
	}
}

func parseTable(dec *xml.Decoder, data []byte) (*Table, error) {
	tbl := &Table{}
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tblPr":
				raw, err := skipRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				tbl.tblPrRaw = raw
			case "tblGrid":
				raw, err := skipRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				tbl.gridRaw = raw
			case "tr":
				row, err := parseRow(dec, data)
				if err != nil {
					return nil, err
				}
				row.parent = tbl
				tbl.children = append(tbl.children, row)
			default:
				raw, err := skipRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				tbl.children = append(tbl.children, raw)
			}
		case xml.EndElement:
			if t.Name.Local == "tbl" {
				return tbl, nil
			}
		}
	}
}

func parseRow(dec *xml.Decoder, data []byte) (*Row, error) {
	row := &Row{}
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "trPr":
				raw, err := skipRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				row.trPrRaw = raw
			case "tc":
				cell, err := parseCell(dec, data)
				if err != nil {
					return nil, err
				}
				cell.parent = row
				row.children = append(row.children, cell)
			default:
				raw, err := skipRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				row.children = append(row.children, raw)
			}
		case xml.EndElement:
			if t.Name.Local == "tr" {
				return row, nil
			}
		}
	}
}

func parseCell(dec *xml.Decoder, data []byte) (*Cell, error) {
	cell := &Cell{}
	for {
		off := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tcPr":
				raw, err := skipRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				cell.tcPrRaw = raw
				cell.vmerge, cell.span = inspectCellProps(raw)
			case "p":
				p, err := parseParagraph(dec, data)
				if err != nil {
					return nil, err
				}
				p.raw = data[off:dec.InputOffset()]
				p.parent = cell
				cell.children = append(cell.children, p)
			default:
				raw, err := skipRaw(dec, data, off)
				if err != nil {
					return nil, err
				}
				cell.children = append(cell.children, raw)
			}
		case xml.EndElement:
			if t.Name.Local == "tc" {
				return cell, nil
			}
		}
	}
}

// inspectCellProps pulls the merge-related values out of a captured tcPr
// fragment. The fragment itself still serializes verbatim.
func inspectCellProps(raw rawFrag) (VMergeState, int) {
	var pr struct {
		GridSpan struct {
			Val int `xml:"val,attr"`
		} `xml:"gridSpan"`
		VMerge *struct {
			Val string `xml:"val,attr"`
		} `xml:"vMerge"`
	}
	if err := xml.Unmarshal([]byte(raw), &pr); err != nil {
		return VMergeNone, 1
	}
	state := VMergeNone
	if pr.VMerge != nil {
		if pr.VMerge.Val == "restart" {
			state = VMergeRestart
		} else {
			// An empty or "continue" value continues the span above.
			state = VMergeContinue
		}
	}
	span := pr.GridSpan.Val
	if span < 1 {
		span = 1
	}
	return state, span
}

func attrVal(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// parseInt reads a numeric attribute value, 0 when absent or malformed.
func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
