package ingest

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"fiscal-service/internal/domain"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"
)

// ExtractPDFText returns the text layer of a PDF, one line per text row.
func ExtractPDFText(pdfData []byte) (text string, err error) {
	// the reader panics on some malformed cross-reference tables
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("PDF corrompido: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(pdfData), int64(len(pdfData)))
	if err != nil {
		return "", fmt.Errorf("erro ao abrir PDF: %w", err)
	}

	var textBuilder strings.Builder
	for pageIndex := 1; pageIndex <= r.NumPage(); pageIndex++ {
		p := r.Page(pageIndex)
		if p.V.IsNull() {
			continue
		}
		pageRows, err := p.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("erro ao ler página %d: %w", pageIndex, err)
		}
		for _, row := range pageRows {
			for _, word := range row.Content {
				textBuilder.WriteString(word.S)
			}
			textBuilder.WriteString("\n")
		}
	}
	return textBuilder.String(), nil
}

// LoadDocument wraps an uploaded file as a document. PDFs go through the text layer and
// .txt files are taken as is; a file that cannot be read keeps its error in Err.
func LoadDocument(filename string, data []byte) domain.Document {
	doc := domain.Document{ID: uuid.NewString(), Filename: filename}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		doc.Text, doc.Err = ExtractPDFText(data)
	case ".txt":
		doc.Text = string(data)
	default:
		doc.Err = fmt.Errorf("tipo de arquivo não suportado: %s", filename)
	}
	return doc
}
