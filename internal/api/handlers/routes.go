package handlers

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts every endpoint of the service on router.
func RegisterRoutes(router *gin.Engine, extractionHandler *ExtractionHandler, aggregationHandler *AggregationHandler, taxHandler *TaxHandler) {
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/extract/nfse", extractionHandler.HandleExtractInvoices)
		apiV1.POST("/extract/informes", extractionHandler.HandleExtractStatements)
		apiV1.POST("/aggregate/ledger", aggregationHandler.HandleAggregateLedger)
		apiV1.POST("/aggregate/crosscheck", aggregationHandler.HandleCrossCheck)
		apiV1.POST("/tax/compute", taxHandler.HandleCompute)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP", "service": "fiscal-service"})
	})
}
