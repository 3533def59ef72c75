package extractor

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// buildPDF writes a minimal PDF with one text-showing content stream per page.
// An empty string produces a page with no text operators.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}

	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	for i, pageText := range pages {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		stream := ""
		if pageText != "" {
			stream = fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", pageText)
		}
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
	}

	xrefOffset := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xrefOffset)

	return buf.Bytes()
}

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
			body + `</w:body></w:document>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

/* ───────── PDF ───────── */

func TestFromPDF_PagesInOrder(t *testing.T) {
	data := buildPDF(t, "First page words", "Second page words")

	got, err := fromPDF(data)
	if err != nil {
		t.Fatalf("fromPDF() error = %v", err)
	}
	if got.PageCount != 2 {
		t.Errorf("PageCount = %d, want 2", got.PageCount)
	}
	first := strings.Index(got.Text, "First page")
	second := strings.Index(got.Text, "Second page")
	if first < 0 || second < 0 || first > second {
		t.Errorf("expected both pages in order, got %q", got.Text)
	}
	if got.WordCount != 6 {
		t.Errorf("WordCount = %d, want 6", got.WordCount)
	}
}

func TestFromPDF_PageWithoutText(t *testing.T) {
	data := buildPDF(t, "Only text here", "")

	got, err := fromPDF(data)
	if err != nil {
		t.Fatalf("fromPDF() error = %v", err)
	}
	if got.PageCount != 2 {
		t.Errorf("PageCount = %d, want 2", got.PageCount)
	}
	if strings.TrimSpace(got.Text) != "Only text here" {
		t.Errorf("Text = %q", got.Text)
	}
}

func TestFromPDF_NotAPDF(t *testing.T) {
	if _, err := fromPDF([]byte(strings.Repeat("garbage ", 40))); err == nil {
		t.Error("expected error for non-PDF input")
	}
}

/* ───────── DOCX ───────── */

func TestFromDOCX_Paragraphs(t *testing.T) {
	data := buildDOCX(t,
		`<w:p><w:r><w:t>First</w:t></w:r><w:r><w:tab/><w:t xml:space="preserve"> paragraph</w:t></w:r></w:p>`+
			`<w:p/>`+
			`<w:p><w:r><w:t>Second</w:t><w:br/><w:t>line</w:t></w:r></w:p>`)

	got, err := fromDOCX(data)
	if err != nil {
		t.Fatalf("fromDOCX() error = %v", err)
	}

	want := "First\t paragraph\n\nSecond\nline"
	if got.Text != want {
		t.Errorf("Text = %q, want %q", got.Text, want)
	}
	if got.WordCount != 4 {
		t.Errorf("WordCount = %d, want 4", got.WordCount)
	}
}

func TestFromDOCX_SkipsTableParagraphs(t *testing.T) {
	data := buildDOCX(t,
		`<w:p><w:r><w:t>Before</w:t></w:r></w:p>`+
			`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>Cell</w:t></w:r></w:p>`+
			`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>Nested</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`+
			`</w:tc></w:tr></w:tbl>`+
			`<w:p><w:r><w:t>After</w:t></w:r></w:p>`)

	got, err := fromDOCX(data)
	if err != nil {
		t.Fatalf("fromDOCX() error = %v", err)
	}
	if got.Text != "Before\nAfter" {
		t.Errorf("Text = %q, want %q", got.Text, "Before\nAfter")
	}
}

func TestFromDOCX_MissingDocumentPart(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/styles.xml")
	_, _ = w.Write([]byte("<styles/>"))
	_ = zw.Close()

	if _, err := fromDOCX(buf.Bytes()); err == nil {
		t.Error("expected error when word/document.xml is missing")
	}
}

func TestFromDOCX_MalformedXML(t *testing.T) {
	data := buildDOCX(t, `<w:p><w:r><w:t>unclosed`)

	if _, err := fromDOCX(data); err == nil {
		t.Error("expected error for malformed document XML")
	}
}
