package docx

import "strings"

// Block is a top-level body element: a *Paragraph, a *Table, or an opaque
// element the loader preserved verbatim.
type Block interface {
	writeXML(w *xmlWriter)
}

// part is one file inside the DOCX zip container, kept in archive order.
type part struct {
	name string
	data []byte
}

// Document is the in-memory form of one DOCX file. It is owned by a single
// operation invocation: load, mutate, save, discard.
type Document struct {
	parts    []part
	header   []byte // document.xml up to and including the <w:body> open tag
	trailer  []byte // from </w:body> to the end of document.xml
	children []Block
}

// rawBlock is a body element we do not model (sectPr, bookmarks, ...).
type rawBlock []byte

func (b rawBlock) writeXML(w *xmlWriter) { w.raw([]byte(b)) }

// Blocks returns the body elements in document order.
func (d *Document) Blocks() []Block {
	out := make([]Block, len(d.children))
	copy(out, d.children)
	return out
}

// Paragraphs returns the top-level paragraphs in document order. Paragraphs
// nested inside table cells are not included.
func (d *Document) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, b := range d.children {
		if p, ok := b.(*Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}

// Tables returns the top-level tables in document order.
func (d *Document) Tables() []*Table {
	var out []*Table
	for _, b := range d.children {
		if t, ok := b.(*Table); ok {
			out = append(out, t)
		}
	}
	return out
}

// NextSibling returns the block immediately following ref, or nil when ref
// is the last block or not part of the document.
func (d *Document) NextSibling(ref Block) Block {
	for i, b := range d.children {
		if b == ref && i+1 < len(d.children) {
			return d.children[i+1]
		}
	}
	return nil
}

// InsertAfter places b as the immediate successor of ref. It reports false
// when ref is not part of the document.
func (d *Document) InsertAfter(ref, b Block) bool {
	for i, c := range d.children {
		if c == ref {
			d.children = append(d.children, nil)
			copy(d.children[i+2:], d.children[i+1:])
			d.children[i+1] = b
			return true
		}
	}
	return false
}

// Remove deletes b from the body. It reports false when b is not present.
func (d *Document) Remove(b Block) bool {
	for i, c := range d.children {
		if c == b {
			d.children = append(d.children[:i], d.children[i+1:]...)
			return true
		}
	}
	return false
}

// Append adds b at the end of the body content, ahead of any trailing raw
// elements such as sectPr, which must stay last for Word compatibility.
func (d *Document) Append(b Block) {
	i := len(d.children)
	for i > 0 {
		if _, ok := d.children[i-1].(rawBlock); !ok {
			break
		}
		i--
	}
	d.children = append(d.children, nil)
	copy(d.children[i+1:], d.children[i:])
	d.children[i] = b
}

// rawFrag is a verbatim XML fragment captured at load time.
type rawFrag []byte

// Paragraph is an ordered sequence of runs plus formatting properties.
// Its text is derived from the runs, never stored independently.
type Paragraph struct {
	props    *ParaProps
	children []paraChild
	raw      []byte
	dirty    bool
	parent   *Cell // nil for body-level paragraphs
}

type paraChild interface{ isParaChild() }

func (*Run) isParaChild()    {}
func (rawFrag) isParaChild() {}

// NewParagraph creates an empty paragraph not yet attached to a document.
func NewParagraph() *Paragraph {
	return &Paragraph{props: &ParaProps{}}
}

func (p *Paragraph) touch() {
	p.dirty = true
	if p.parent != nil {
		p.parent.touch()
	}
}

// Text returns the concatenated text of the paragraph's runs.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, c := range p.children {
		if r, ok := c.(*Run); ok {
			sb.WriteString(r.Text())
		}
	}
	return sb.String()
}

// Runs returns the paragraph's runs in order.
func (p *Paragraph) Runs() []*Run {
	var out []*Run
	for _, c := range p.children {
		if r, ok := c.(*Run); ok {
			out = append(out, r)
		}
	}
	return out
}

// AppendRun adds r at the end of the paragraph.
func (p *Paragraph) AppendRun(r *Run) {
	r.parent = p
	p.children = append(p.children, r)
	p.touch()
}

// removeRunsExcept drops every run but keep, leaving raw fragments alone.
func (p *Paragraph) removeRunsExcept(keep *Run) {
	out := p.children[:0]
	changed := false
	for _, c := range p.children {
		if r, ok := c.(*Run); ok && r != keep {
			changed = true
			continue
		}
		out = append(out, c)
	}
	p.children = out
	if changed {
		p.touch()
	}
}

func (p *Paragraph) ensureProps() *ParaProps {
	if p.props == nil {
		p.props = &ParaProps{}
	}
	return p.props
}

// SetFirstLineIndent sets the first-line indent in twips. A hanging indent,
// if present, is cleared since the two are mutually exclusive.
func (p *Paragraph) SetFirstLineIndent(twips int) {
	pr := p.ensureProps()
	if pr.Indent == nil {
		pr.Indent = &Indent{}
	}
	pr.Indent.FirstLine = twips
	pr.Indent.hasFirstLine = true
	pr.Indent.Hanging = ""
	p.touch()
}

// FirstLineIndent returns the first-line indent in twips, or 0 when unset.
func (p *Paragraph) FirstLineIndent() int {
	if p.props == nil || p.props.Indent == nil {
		return 0
	}
	return p.props.Indent.FirstLine
}

// SetAlignment sets paragraph justification ("left", "center", "right",
// "both").
func (p *Paragraph) SetAlignment(val string) {
	p.ensureProps().Align = val
	p.touch()
}

// Alignment returns the paragraph justification, or "" when unset.
func (p *Paragraph) Alignment() string {
	if p.props == nil {
		return ""
	}
	return p.props.Align
}

// SetSpacing sets paragraph spacing before/after in twips and line spacing
// in 240ths of a line.
func (p *Paragraph) SetSpacing(before, after, line int, rule string) {
	p.ensureProps().Spacing = &Spacing{Before: before, After: after, Line: line, LineRule: rule}
	p.touch()
}

// ParaProps holds paragraph formatting. Elements the model does not
// interpret are preserved in raws.
type ParaProps struct {
	Align   string
	Indent  *Indent
	Spacing *Spacing
	raws    []rawFrag
}

// Indent mirrors w:ind. Attribute values other than FirstLine pass through
// untouched.
type Indent struct {
	Left         string
	Right        string
	Hanging      string
	FirstLine    int
	hasFirstLine bool
}

// Spacing mirrors w:spacing.
type Spacing struct {
	Before   int
	After    int
	Line     int
	LineRule string
}

// Run is a contiguous span of text sharing one style.
type Run struct {
	rprRaw   rawFrag   // existing style, emitted verbatim when set
	style    *RunStyle // style for freshly created runs
	children []runChild
	parent   *Paragraph
}

type runChild interface{ isRunChild() }

type runText string

func (runText) isRunChild() {}
func (rawFrag) isRunChild() {}

// NewRun creates a run with the given text and style.
func NewRun(text string, st RunStyle) *Run {
	s := st
	return &Run{style: &s, children: []runChild{runText(text)}}
}

func (r *Run) touch() {
	if r.parent != nil {
		r.parent.touch()
	}
}

// Text returns the run's text content.
func (r *Run) Text() string {
	var sb strings.Builder
	for _, c := range r.children {
		if t, ok := c.(runText); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}

// SetText replaces the run's text content. The run's style, whether loaded
// or fresh, is untouched.
func (r *Run) SetText(text string) {
	out := r.children[:0]
	replaced := false
	for _, c := range r.children {
		if _, ok := c.(runText); ok {
			if !replaced {
				out = append(out, runText(text))
				replaced = true
			}
			continue
		}
		out = append(out, c)
	}
	if !replaced {
		out = append(out, runText(text))
	}
	r.children = out
	r.touch()
}

// Bold reports whether a freshly styled run is bold. Runs loaded from a
// document keep their style opaque.
func (r *Run) Bold() bool {
	return r.style != nil && r.style.Bold
}

// Table is an ordered sequence of rows plus any table-level elements the
// model does not interpret (bookmarks, customXml), kept in place.
type Table struct {
	tblPrRaw rawFrag
	gridRaw  rawFrag
	style    *TableStyle // set for freshly built tables
	grid     []int       // column widths in twips, freshly built tables
	children []tblChild
	raw      []byte
	dirty    bool
}

type tblChild interface{ isTblChild() }

func (*Row) isTblChild()    {}
func (rawFrag) isTblChild() {}

func (t *Table) touch() { t.dirty = true }

// NewTable creates an empty table with the given column widths in twips.
func NewTable(colWidths []int, st TableStyle) *Table {
	s := st
	return &Table{style: &s, grid: colWidths}
}

// Rows returns the table's rows in order.
func (t *Table) Rows() []*Row {
	var out []*Row
	for _, c := range t.children {
		if r, ok := c.(*Row); ok {
			out = append(out, r)
		}
	}
	return out
}

// AddRow appends an empty row.
func (t *Table) AddRow() *Row {
	r := &Row{parent: t}
	t.children = append(t.children, r)
	t.touch()
	return r
}

// ColWidths returns the column widths in twips for freshly built tables,
// nil for loaded tables.
func (t *Table) ColWidths() []int { return t.grid }

// Row is an ordered sequence of cells plus uninterpreted row-level
// elements preserved verbatim.
type Row struct {
	trPrRaw  rawFrag
	children []rowChild
	parent   *Table
}

type rowChild interface{ isRowChild() }

func (*Cell) isRowChild()   {}
func (rawFrag) isRowChild() {}

func (r *Row) touch() {
	if r.parent != nil {
		r.parent.touch()
	}
}

// Cells returns the row's cells in order.
func (r *Row) Cells() []*Cell {
	var out []*Cell
	for _, c := range r.children {
		if cell, ok := c.(*Cell); ok {
			out = append(out, cell)
		}
	}
	return out
}

// AddCell appends a cell with the given properties and one empty paragraph.
// Every cell must hold at least one paragraph for Word to accept the file.
func (r *Row) AddCell(props CellProps) *Cell {
	c := &Cell{props: &props, parent: r}
	p := NewParagraph()
	p.parent = c
	c.children = append(c.children, p)
	r.children = append(r.children, c)
	r.touch()
	return c
}

// VMergeState describes a cell's participation in a vertical merge span.
type VMergeState int

const (
	VMergeNone VMergeState = iota
	VMergeRestart
	VMergeContinue
)

// Cell holds paragraphs plus cell-level properties.
type Cell struct {
	tcPrRaw  rawFrag
	props    *CellProps // set for freshly built cells
	vmerge   VMergeState
	span     int // gridSpan, 1 when absent
	children []cellChild
	parent   *Row
}

type cellChild interface{ isCellChild() }

func (*Paragraph) isCellChild() {}
func (rawFrag) isCellChild()    {}

// CellProps holds the declarative style applied to freshly built cells.
type CellProps struct {
	WidthTwips int
	VMerge     VMergeState
	Shading    string // background fill, hex without '#'
	VAlign     string // top, center, bottom
}

func (c *Cell) touch() {
	if c.parent != nil {
		c.parent.touch()
	}
}

// Paragraphs returns the cell's paragraphs in order.
func (c *Cell) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, ch := range c.children {
		if p, ok := ch.(*Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}

// Text returns the text of the cell's first paragraph, which is the text
// used for row matching.
func (c *Cell) Text() string {
	for _, ch := range c.children {
		if p, ok := ch.(*Paragraph); ok {
			return p.Text()
		}
	}
	return ""
}

// VMerge returns the cell's vertical-merge state.
func (c *Cell) VMerge() VMergeState {
	if c.props != nil {
		return c.props.VMerge
	}
	return c.vmerge
}

// GridSpan returns the number of grid columns the cell spans.
func (c *Cell) GridSpan() int {
	if c.span < 1 {
		return 1
	}
	return c.span
}

// AddParagraph appends a fresh paragraph to the cell.
func (c *Cell) AddParagraph() *Paragraph {
	p := NewParagraph()
	p.parent = c
	c.children = append(c.children, p)
	c.touch()
	return p
}

// Reset removes the cell's paragraphs. Non-paragraph content (nested
// tables) is preserved.
func (c *Cell) Reset() {
	out := c.children[:0]
	for _, ch := range c.children {
		if _, ok := ch.(*Paragraph); ok {
			continue
		}
		out = append(out, ch)
	}
	c.children = out
	c.touch()
}

// firstRun returns the first run in any of the cell's paragraphs.
func (c *Cell) firstRun() *Run {
	for _, p := range c.Paragraphs() {
		if runs := p.Runs(); len(runs) > 0 {
			return runs[0]
		}
	}
	return nil
}

// SetText replaces the cell's visible text. The first existing run keeps
// its style and only its text changes; when the cell has no run at all, a
// new run with the fallback style is created. All other runs are removed
// so exactly one value remains visible.
func (c *Cell) SetText(text string, fallback RunStyle) {
	if run := c.firstRun(); run != nil {
		run.SetText(text)
		for _, p := range c.Paragraphs() {
			p.removeRunsExcept(run)
		}
		return
	}
	paras := c.Paragraphs()
	var p *Paragraph
	if len(paras) > 0 {
		p = paras[0]
	} else {
		p = c.AddParagraph()
	}
	p.AppendRun(NewRun(text, fallback))
}
