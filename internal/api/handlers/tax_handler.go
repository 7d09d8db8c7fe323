package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"fiscal-service/internal/api/responses"
	"fiscal-service/internal/core/tax"
	"fiscal-service/internal/domain"

	"github.com/gin-gonic/gin"
)

// TaxHandler handles tax computation requests.
type TaxHandler struct {
	service tax.Service
	schemes []domain.TaxScheme
}

// NewTaxHandler creates a new tax handler. defaultSchemes is used when a request brings no
// scheme table.
func NewTaxHandler(service tax.Service, defaultSchemes []domain.TaxScheme) *TaxHandler {
	return &TaxHandler{
		service: service,
		schemes: defaultSchemes,
	}
}

// HandleCompute accepts either a JSON batch or a multipart form with the invoice sheet and
// optional scheme and charge files.
func (h *TaxHandler) HandleCompute(c *gin.Context) {
	var req tax.Request
	if strings.HasPrefix(c.ContentType(), "application/json") {
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido", err.Error())
			return
		}
		if err := tax.NormalizeSchemes(req.Schemes); err != nil {
			responses.Error(c, http.StatusBadRequest, "Tabela de esquemas inválida", err.Error())
			return
		}
	} else {
		var ok bool
		if req, ok = h.requestFromForm(c); !ok {
			return
		}
	}

	if len(req.Invoices) == 0 {
		responses.Error(c, http.StatusUnprocessableEntity, "Nenhuma nota encontrada para apuração")
		return
	}
	if len(req.Schemes) == 0 {
		req.Schemes = h.schemes
	}

	result := h.service.Compute(req)
	responses.Success(c, result, fmt.Sprintf("Apuração de %d nota(s) concluída", len(result.Invoices)))
}

func (h *TaxHandler) requestFromForm(c *gin.Context) (tax.Request, bool) {
	var req tax.Request

	invoiceRows, err := rowsFromForm(c, "invoicesFile", tax.InvoiceSchema, true)
	if err != nil {
		fileError(c, "Arquivo de notas (.csv, .xls, .xlsx)", err)
		return req, false
	}
	req.Invoices = tax.InvoicesFromRows(invoiceRows)

	if req.Schemes, err = h.schemesFromForm(c); err != nil {
		fileError(c, "Tabela de esquemas (.yaml, .csv, .xls, .xlsx)", err)
		return req, false
	}

	chargeRows, err := rowsFromForm(c, "chargesFile", tax.ChargeSchema, false)
	if err != nil {
		fileError(c, "Arquivo de antecipações (.csv, .xls, .xlsx)", err)
		return req, false
	}
	req.Charges = tax.ChargesFromRows(chargeRows)

	if c.PostForm("quarterly") == "true" {
		req.Quarterly = &domain.QuarterlyInput{
			InvestmentResult:  moneyFromForm(c, "investmentResult"),
			ExternalRetention: moneyFromForm(c, "externalRetention"),
		}
	}
	return req, true
}

// schemesFromForm reads the optional scheme table, as YAML or as a spreadsheet.
func (h *TaxHandler) schemesFromForm(c *gin.Context) ([]domain.TaxScheme, error) {
	header, err := c.FormFile("schemesFile")
	if err != nil {
		return nil, nil
	}

	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".yaml", ".yml":
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("não foi possível abrir o arquivo %s: %w", header.Filename, err)
		}
		defer file.Close()
		return tax.LoadSchemes(file)
	}

	schemeRows, err := rowsFromForm(c, "schemesFile", tax.SchemeSchema, false)
	if err != nil {
		return nil, err
	}
	return tax.SchemesFromRows(schemeRows), nil
}
