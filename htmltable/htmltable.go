// Package htmltable extracts work records from an HTML table fragment.
// Upstream automations deliver the daily statistics both as structured
// JSON and as rendered HTML; this parser covers the latter.
package htmltable

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/chazai233/word-service/report"
)

// Parse reads the first <table> in the fragment and returns one record
// per data row, cells mapped by position: sequence, location, content,
// quantity, shift. Header rows (th cells, or a leading row starting with
// 序号) are skipped; short rows are padded with empty strings.
func Parse(r io.Reader) ([]report.Record, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	table := findFirst(root, "table")
	if table == nil {
		return nil, fmt.Errorf("no table element in fragment")
	}

	var recs []report.Record
	for _, tr := range findAll(table, "tr") {
		cells, isHeader := rowCells(tr)
		if len(cells) == 0 || isHeader {
			continue
		}
		if len(recs) == 0 && strings.Contains(cells[0], "序号") {
			continue
		}
		for len(cells) < 5 {
			cells = append(cells, "")
		}
		recs = append(recs, report.Record{
			Seq:      cells[0],
			Location: cells[1],
			Content:  cells[2],
			Quantity: cells[3],
			Shift:    cells[4],
		})
	}
	return recs, nil
}

// rowCells collects the trimmed text of a row's cells and reports whether
// the row is a header (any th cell).
func rowCells(tr *html.Node) ([]string, bool) {
	var cells []string
	isHeader := false
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "th":
			isHeader = true
			cells = append(cells, nodeText(c))
		case "td":
			cells = append(cells, nodeText(c))
		}
	}
	return cells, isHeader
}

func findFirst(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return out
}

// nodeText concatenates the text content beneath n, trimmed.
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
