package main

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pasarkita/pasar-backend/internal/httpx"
	"github.com/pasarkita/pasar-backend/internal/report"
	"github.com/pasarkita/pasar-backend/internal/trade"
)

// @Summary Export the transaction ledger as a workbook
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {file} binary
// @Router /reports/transactions.xlsx [get]
func exportLedgerHandler(trades trade.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "1000"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		transactions, err := trades.ListAll(c.Request.Context(), limit, offset)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		file, err := report.BuildLedger(transactions)
		if err != nil {
			httpx.Error(c, err)
			return
		}

		filename := fmt.Sprintf("transactions-%s.xlsx", time.Now().Format("2006-01-02"))
		c.Header("Content-Type", report.LedgerContentType)
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
		c.Status(http.StatusOK)
		if err := file.Write(c.Writer); err != nil {
			log.Printf("[report] ledger write aborted: %v", err)
		}
	}
}
