// cmd/fiscal/main.go
package main

import (
	"os"

	"fiscal-service/internal/api/handlers"
	"fiscal-service/internal/api/responses"
	"fiscal-service/internal/config"
	"fiscal-service/internal/core/aggregation"
	"fiscal-service/internal/core/crosscheck"
	"fiscal-service/internal/core/extraction"
	"fiscal-service/internal/core/tax"
	"fiscal-service/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := responses.InitLogger(cfg.Log.Mode)
	defer logger.Sync()

	schemes, err := loadDefaultSchemes(cfg.Tax.SchemesFile)
	if err != nil {
		logger.Fatal("Falha ao carregar tabela de esquemas", zap.String("file", cfg.Tax.SchemesFile), zap.Error(err))
	}

	extractionService := extraction.NewService(extraction.WithLogger(logger.Named("extraction")))
	aggregationService := aggregation.NewService(aggregation.WithLogger(logger.Named("aggregation")))
	crosscheckService := crosscheck.NewService(crosscheck.WithLogger(logger.Named("crosscheck")))
	taxService := tax.NewService(tax.WithLogger(logger.Named("tax")))

	router := gin.Default()
	router.MaxMultipartMemory = cfg.Server.MaxUploadBytes()

	handlers.RegisterRoutes(router,
		handlers.NewExtractionHandler(extractionService),
		handlers.NewAggregationHandler(aggregationService, extractionService, crosscheckService),
		handlers.NewTaxHandler(taxService, schemes),
	)

	logger.Info("🚀 Fiscal Service (Go) iniciado", zap.String("port", cfg.Server.Port), zap.Int("schemes", len(schemes)))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Falha ao iniciar o servidor fiscal", zap.Error(err))
	}
}

func loadDefaultSchemes(path string) ([]domain.TaxScheme, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tax.LoadSchemes(f)
}
