package report

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/chazai233/word-service/docx"
)

// buildDoc assembles a minimal DOCX archive around bodyXML and loads it.
func buildDoc(t *testing.T, bodyXML string) *docx.Document {
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
	write("word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`+
		bodyXML+`</w:body></w:document>`)

	if err := zw.Close(); err != nil {
		t.Fatalf("closing zip: %v", err)
	}

	doc, err := docx.Load(buf.Bytes())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return doc
}

func para(text string) string {
	return `<w:p><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func oneCellTable(text string) string {
	return `<w:tbl><w:tr><w:tc>` + para(text) + `</w:tc></w:tr></w:tbl>`
}
