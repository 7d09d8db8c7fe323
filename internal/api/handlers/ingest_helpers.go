package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"fiscal-service/internal/api/responses"
	"fiscal-service/internal/core/money"
	"fiscal-service/internal/core/rows"
	"fiscal-service/internal/domain"
	"fiscal-service/internal/ingest"

	"github.com/gin-gonic/gin"
)

var errMissingFile = errors.New("arquivo não enviado")

// readUpload returns the whole content of an uploaded file.
func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("não foi possível abrir o arquivo %s: %w", header.Filename, err)
	}
	defer file.Close()
	return io.ReadAll(file)
}

// documentsFromForm loads every file under formKey as a document. Unreadable files still
// produce a document, carrying the error, so the batch keeps one output per input.
func documentsFromForm(c *gin.Context, formKey string) ([]domain.Document, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("formulário inválido: %w", err)
	}
	headers := form.File[formKey]
	if len(headers) == 0 {
		return nil, errMissingFile
	}

	docs := make([]domain.Document, 0, len(headers))
	for _, header := range headers {
		data, err := readUpload(header)
		if err != nil {
			docs = append(docs, domain.Document{Filename: header.Filename, Err: err})
			continue
		}
		docs = append(docs, ingest.LoadDocument(header.Filename, data))
	}
	return docs, nil
}

// rowsFromForm reads the spreadsheet under formKey. A missing optional file yields no rows.
func rowsFromForm(c *gin.Context, formKey string, schema rows.Schema, required bool) ([]rows.Row, error) {
	header, err := c.FormFile(formKey)
	if err != nil {
		if required {
			return nil, errMissingFile
		}
		return nil, nil
	}
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("não foi possível abrir o arquivo %s: %w", header.Filename, err)
	}
	defer file.Close()
	return ingest.ReadRows(file, header.Filename, schema)
}

// yearFromForm parses the mandatory calendar year field.
func yearFromForm(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(c.PostForm("year")))
	if err != nil || year < 1900 || year > 9999 {
		responses.Error(c, http.StatusBadRequest, "Ano-calendário inválido ou ausente")
		return 0, false
	}
	return year, true
}

// moneyFromForm parses a locale-formatted amount field; absent fields are zero.
func moneyFromForm(c *gin.Context, formKey string) float64 {
	return money.ParseValue(c.PostForm(formKey))
}

// fileError writes the response for a failed upload of the given description.
func fileError(c *gin.Context, what string, err error) {
	if errors.Is(err, errMissingFile) {
		responses.Error(c, http.StatusBadRequest, fmt.Sprintf("%s não encontrado ou inválido", what))
		return
	}
	responses.Error(c, http.StatusUnprocessableEntity, fmt.Sprintf("Não foi possível ler %s", what), err.Error())
}
