package wordservice

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/chazai233/word-service/docx"
	"github.com/chazai233/word-service/report"
)

const docProlog = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`

const docEpilog = `</w:body></w:document>`

// buildDocx assembles a minimal DOCX archive around the given body XML.
func buildDocx(t *testing.T, bodyXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	write := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("creating %s: %v", name, err)
		}
		w.Write([]byte(content))
	}

	write("[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`)
	write("_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`)
	write("word/document.xml", docProlog+bodyXML+docEpilog)

	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}
	return buf.Bytes()
}

// documentXML extracts word/document.xml from a saved archive.
func documentXML(t *testing.T, data []byte) string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("reopening archive: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening document.xml: %v", err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("reading document.xml: %v", err)
		}
		return string(b)
	}
	t.Fatal("saved archive has no word/document.xml")
	return ""
}

func mustLoad(t *testing.T, data []byte) *docx.Document {
	t.Helper()
	doc, err := docx.Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return doc
}

func para(text string) string {
	return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func cell(text string) string {
	return `<w:tc>` + para(text) + `</w:tc>`
}

func TestEngine_FillTemplate(t *testing.T) {
	template := buildDocx(t, `<w:tbl><w:tr>`+cell("placeholder")+`</w:tr></w:tbl>`)

	out, err := NewEngine().FillTemplate(template, "1、临建工程\n人员投入：张三10人", 0, 0, 0)
	if err != nil {
		t.Fatalf("FillTemplate: %v", err)
	}

	filled := mustLoad(t, out).Tables()[0].Rows()[0].Cells()[0]
	paras := filled.Paragraphs()
	if len(paras) != 2 {
		t.Fatalf("got %d paragraphs, want 2", len(paras))
	}
	if got := paras[0].Text(); got != "1、临建工程" {
		t.Errorf("heading paragraph = %q", got)
	}
	if got := paras[1].FirstLineIndent(); got != report.IndentTwips {
		t.Errorf("stat paragraph indent = %d, want %d", got, report.IndentTwips)
	}
	if strings.Contains(documentXML(t, out), "placeholder") {
		t.Error("placeholder text survived the fill")
	}
}

func TestEngine_FillTemplate_OutOfRangeIsNoOp(t *testing.T) {
	body := `<w:tbl><w:tr>` + cell("keep") + `</w:tr></w:tbl>`
	template := buildDocx(t, body)

	out, err := NewEngine().FillTemplate(template, "text", 3, 0, 0)
	if err != nil {
		t.Fatalf("FillTemplate: %v", err)
	}
	if got := documentXML(t, out); got != docProlog+body+docEpilog {
		t.Error("out-of-range fill modified the document")
	}
}

func TestEngine_FillTemplate_Malformed(t *testing.T) {
	if _, err := NewEngine().FillTemplate([]byte("garbage"), "x", 0, 0, 0); err == nil {
		t.Fatal("expected error for malformed template")
	}
}

func TestEngine_UpdateDateWeather(t *testing.T) {
	docBytes := buildDocx(t, `<w:tbl><w:tr>`+cell("日期")+cell("中间")+cell("天气")+`</w:tr></w:tbl>`)

	out, err := NewEngine().UpdateDateWeather(docBytes, "2026年8月30日", "天气：晴  气温：20℃~30℃")
	if err != nil {
		t.Fatalf("UpdateDateWeather: %v", err)
	}

	cells := mustLoad(t, out).Tables()[0].Rows()[0].Cells()
	if got := cells[0].Text(); got != "2026年8月30日" {
		t.Errorf("date cell = %q", got)
	}
	if got := cells[1].Text(); got != "中间" {
		t.Errorf("middle cell = %q, want untouched", got)
	}
	if got := cells[2].Text(); got != "天气：晴  气温：20℃~30℃" {
		t.Errorf("weather cell = %q", got)
	}
}

func TestEngine_AppendPersonnelStats(t *testing.T) {
	docBytes := buildDocx(t, para("正文")+`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr>`)

	out, err := NewEngine().AppendPersonnelStats(docBytes, "人员：25人\n设备：挖机3台")
	if err != nil {
		t.Fatalf("AppendPersonnelStats: %v", err)
	}

	paras := mustLoad(t, out).Paragraphs()
	if len(paras) != 4 {
		t.Fatalf("got %d paragraphs, want original + marker + 2 lines", len(paras))
	}
	if got := paras[1].Text(); got != "【自动统计】" {
		t.Errorf("marker paragraph = %q", got)
	}
	if got := paras[2].Text(); got != "人员：25人" {
		t.Errorf("first stat line = %q", got)
	}

	xmlOut := documentXML(t, out)
	if i, j := strings.Index(xmlOut, "设备："), strings.Index(xmlOut, "<w:sectPr"); i > j {
		t.Error("appended content landed after sectPr")
	}
}

func TestEngine_UpdateAppendixTables(t *testing.T) {
	docBytes := buildDocx(t,
		`<w:tbl><w:tr>`+cell("序号")+cell("项目名称")+cell("今日完成")+cell("累计完成")+`</w:tr>`+
			`<w:tr>`+cell("1")+cell("土方开挖")+cell("")+cell("")+`</w:tr></w:tbl>`)

	patches := []RowPatch{
		{TableIndex: 0, RowLabel: "土方", Today: "12", Total: "300"},
		{TableIndex: 0, RowLabel: "不存在", Today: "1", Total: "1"},
		{TableIndex: 9, RowLabel: "土方", Today: "1", Total: "1"},
	}
	out, applied, err := NewEngine().UpdateAppendixTables(docBytes, patches)
	if err != nil {
		t.Fatalf("UpdateAppendixTables: %v", err)
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}
	cells := mustLoad(t, out).Tables()[0].Rows()[1].Cells()
	if got := cells[2].Text(); got != "12" {
		t.Errorf("today cell = %q", got)
	}
	if got := cells[3].Text(); got != "300" {
		t.Errorf("total cell = %q", got)
	}
}

func TestEngine_InsertDailyTable(t *testing.T) {
	recs := []report.Record{
		{Seq: "1", Location: "右岸", Content: "开挖", Quantity: "100方", Shift: "白班"},
	}

	t.Run("anchored", func(t *testing.T) {
		docBytes := buildDocx(t, para("当日施工统计表"))
		out, anchored, err := NewEngine().InsertDailyTable(docBytes, recs, "当日施工统计表", nil, true)
		if err != nil {
			t.Fatalf("InsertDailyTable: %v", err)
		}
		if !anchored {
			t.Error("anchored = false, heading is present")
		}
		tables := mustLoad(t, out).Tables()
		if len(tables) != 1 {
			t.Fatalf("got %d tables, want 1", len(tables))
		}
		if got := tables[0].Rows()[0].Cells()[0].Text(); got != "序号" {
			t.Errorf("header cell = %q", got)
		}
	})

	t.Run("no anchor appends", func(t *testing.T) {
		docBytes := buildDocx(t, para("unrelated"))
		out, anchored, err := NewEngine().InsertDailyTable(docBytes, recs, "当日施工统计表", nil, true)
		if err != nil {
			t.Fatalf("InsertDailyTable: %v", err)
		}
		if anchored {
			t.Error("anchored = true without a matching heading")
		}
		if got := len(mustLoad(t, out).Tables()); got != 1 {
			t.Errorf("got %d tables, want the appended one", got)
		}
	})
}
