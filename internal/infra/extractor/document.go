package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"briefly/internal/domain/entity"
	"briefly/internal/utils/text"

	"github.com/ledongthuc/pdf"
)

// fromPlainText decodes data as UTF-8, replacing invalid sequences. It never fails.
func fromPlainText(data []byte) *entity.ExtractedText {
	return entity.NewExtractedText(text.ToValidUTF8(string(data)), nil)
}

// fromPDF concatenates page text in page order. Pages without extractable
// text contribute an empty string; PageCount is the document's page count.
func fromPDF(data []byte) (out *entity.ExtractedText, err error) {
	// The PDF parser panics on some malformed object graphs.
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("unreadable PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	numPages := reader.NumPage()
	fonts := make(map[string]*pdf.Font)
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		pages = append(pages, pageText(reader.Page(i), fonts))
	}

	// one line break between pages keeps the last word of a page apart from the next
	extracted := entity.NewExtractedText(text.ToValidUTF8(strings.Join(pages, "\n")), nil)
	extracted.PageCount = numPages
	return extracted, nil
}

func pageText(p pdf.Page, fonts map[string]*pdf.Font) string {
	if p.V.IsNull() {
		return ""
	}
	for _, name := range p.Fonts() {
		if _, ok := fonts[name]; !ok {
			f := p.Font(name)
			fonts[name] = &f
		}
	}
	content, err := p.GetPlainText(fonts)
	if err != nil {
		return ""
	}
	return content
}

const wordprocessingNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// fromDOCX joins the text of every paragraph in document order with "\n".
// Runs are concatenated; w:tab becomes a tab and w:br/w:cr a newline.
func fromDOCX(data []byte) (*entity.ExtractedText, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open DOCX archive: %w", err)
	}

	var document *zip.File
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			document = f
			break
		}
	}
	if document == nil {
		return nil, errors.New("DOCX archive has no word/document.xml")
	}

	rc, err := document.Open()
	if err != nil {
		return nil, fmt.Errorf("open word/document.xml: %w", err)
	}
	defer func() {
		_ = rc.Close()
	}()

	paragraphs, err := docxParagraphs(rc)
	if err != nil {
		return nil, fmt.Errorf("parse word/document.xml: %w", err)
	}

	return entity.NewExtractedText(text.ToValidUTF8(strings.Join(paragraphs, "\n")), nil), nil
}

func docxParagraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		paragraphs []string
		current    strings.Builder
		depth      int // w:p nesting, text boxes can contain paragraphs
		tables     int // w:tbl nesting; table cells are not body paragraphs
		inText     bool
	)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordprocessingNS {
				continue
			}
			if t.Name.Local == "tbl" {
				tables++
			}
			if tables > 0 {
				continue
			}
			switch t.Name.Local {
			case "p":
				depth++
			case "t":
				inText = true
			case "tab":
				if depth > 0 {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if depth > 0 {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Space != wordprocessingNS {
				continue
			}
			if t.Name.Local == "tbl" {
				tables--
				continue
			}
			if tables > 0 {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if depth > 0 {
					depth--
				}
				if depth == 0 {
					paragraphs = append(paragraphs, current.String())
					current.Reset()
				}
			}
		case xml.CharData:
			if inText && depth > 0 {
				current.Write(t)
			}
		}
	}

	return paragraphs, nil
}
