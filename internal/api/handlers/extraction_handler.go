package handlers

import (
	"fmt"

	"fiscal-service/internal/api/responses"
	"fiscal-service/internal/core/extraction"
	"fiscal-service/internal/domain"

	"github.com/gin-gonic/gin"
)

// ExtractionHandler handles NFS-e and informe extraction requests.
type ExtractionHandler struct {
	service extraction.Service
}

// NewExtractionHandler creates a new extraction handler.
func NewExtractionHandler(service extraction.Service) *ExtractionHandler {
	return &ExtractionHandler{
		service: service,
	}
}

// HandleExtractInvoices extracts one record per uploaded NFS-e. With split=true every file
// is treated as a consolidated PDF holding several invoices.
func (h *ExtractionHandler) HandleExtractInvoices(c *gin.Context) {
	docs, err := documentsFromForm(c, "files")
	if err != nil {
		fileError(c, "Arquivo de NFS-e (.pdf, .txt)", err)
		return
	}

	var records []domain.InvoiceRecord
	if c.PostForm("split") == "true" {
		for _, doc := range docs {
			records = append(records, h.service.SplitInvoices(doc)...)
		}
	} else {
		records = h.service.ExtractInvoices(docs)
	}

	responses.Success(c, records, fmt.Sprintf("%d nota(s) processada(s)", len(records)))
}

// HandleExtractStatements extracts every worker block of the uploaded informes.
func (h *ExtractionHandler) HandleExtractStatements(c *gin.Context) {
	docs, err := documentsFromForm(c, "files")
	if err != nil {
		fileError(c, "Arquivo de informe de rendimentos (.pdf, .txt)", err)
		return
	}

	statements := h.service.ExtractStatements(docs)
	responses.Success(c, statements, fmt.Sprintf("%d informe(s) extraído(s)", len(statements)))
}
