// internal/api/handlers/aggregation_handler.go
package handlers

import (
	"net/http"

	"fiscal-service/internal/api/responses"
	"fiscal-service/internal/core/aggregation"
	"fiscal-service/internal/core/crosscheck"
	"fiscal-service/internal/core/extraction"
	"fiscal-service/internal/domain"

	"github.com/gin-gonic/gin"
)

// AggregationHandler handles payroll aggregation and conference requests.
type AggregationHandler struct {
	service    aggregation.Service
	extraction extraction.Service
	crosscheck crosscheck.Service
}

// NewAggregationHandler creates a new aggregation handler.
func NewAggregationHandler(service aggregation.Service, extractionService extraction.Service, crosscheckService crosscheck.Service) *AggregationHandler {
	return &AggregationHandler{
		service:    service,
		extraction: extractionService,
		crosscheck: crosscheckService,
	}
}

// HandleAggregateLedger folds the uploaded payroll ledger into annual worker records.
func (h *AggregationHandler) HandleAggregateLedger(c *gin.Context) {
	year, ok := yearFromForm(c)
	if !ok {
		return
	}
	workers, ok := h.workersFromForm(c)
	if !ok {
		return
	}

	records := h.service.Aggregate(workers, year)
	responses.Success(c, records, "Folha agregada com sucesso")
}

// HandleCrossCheck aggregates the ledger and compares it with the uploaded informes.
func (h *AggregationHandler) HandleCrossCheck(c *gin.Context) {
	year, ok := yearFromForm(c)
	if !ok {
		return
	}
	workers, ok := h.workersFromForm(c)
	if !ok {
		return
	}
	docs, err := documentsFromForm(c, "informeFiles")
	if err != nil {
		fileError(c, "Arquivo de informe de rendimentos (.pdf, .txt)", err)
		return
	}

	records := h.service.Aggregate(workers, year)
	statements := h.extraction.ExtractStatements(docs)
	results := h.crosscheck.Compare(records, statements)

	responses.Success(c, results, "Conferência concluída com sucesso")
}

// workersFromForm reads the ledger, leave and dependent sheets. Only the ledger is required.
func (h *AggregationHandler) workersFromForm(c *gin.Context) ([]domain.Worker, bool) {
	ledgerRows, err := rowsFromForm(c, "ledgerFile", aggregation.LedgerSchema, true)
	if err != nil {
		fileError(c, "Arquivo da folha (.csv, .xls, .xlsx)", err)
		return nil, false
	}
	leaveRows, err := rowsFromForm(c, "leaveFile", aggregation.LeaveSchema, false)
	if err != nil {
		fileError(c, "Arquivo de férias (.csv, .xls, .xlsx)", err)
		return nil, false
	}
	dependentRows, err := rowsFromForm(c, "dependentsFile", aggregation.DependentSchema, false)
	if err != nil {
		fileError(c, "Arquivo de dependentes (.csv, .xls, .xlsx)", err)
		return nil, false
	}

	workers := aggregation.BuildWorkers(ledgerRows, leaveRows, dependentRows)
	if len(workers) == 0 {
		responses.Error(c, http.StatusUnprocessableEntity, "Nenhum trabalhador encontrado na folha")
		return nil, false
	}
	return workers, true
}
