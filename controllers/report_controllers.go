package controllers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-ops/services"
	"github.com/yeremiapane/restaurant-ops/utils"
)

type ReportController struct {
	Reports *services.ReportService
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{Reports: reports}
}

func dateRange(c *gin.Context) (services.DateRange, error) {
	from, err := parseDate(c.Query("from"), "from")
	if err != nil {
		return services.DateRange{}, err
	}
	to, err := parseDate(c.Query("to"), "to")
	if err != nil {
		return services.DateRange{}, err
	}
	r := services.DateRange{From: from, To: to}
	return r, r.Validate()
}

// GetDashboard -> occupancy, open orders and low stock alerts
func (rc *ReportController) GetDashboard(c *gin.Context) {
	dash, err := rc.Reports.Dashboard(c.Request.Context())
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard", dash)
}

func (rc *ReportController) GetSalesReport(c *gin.Context) {
	r, err := dateRange(c)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	rows, err := rc.Reports.Sales(c.Request.Context(), r)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Sales report", rows)
}

func (rc *ReportController) GetInventoryReport(c *gin.Context) {
	r, err := dateRange(c)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	rows, err := rc.Reports.InventoryUsage(c.Request.Context(), r)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory report", rows)
}

func (rc *ReportController) GetStaffReport(c *gin.Context) {
	r, err := dateRange(c)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	rows, err := rc.Reports.StaffPerformance(c.Request.Context(), r)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Staff performance", rows)
}

func (rc *ReportController) GetRevenueReport(c *gin.Context) {
	r, err := dateRange(c)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	rows, err := rc.Reports.RevenueByCategory(c.Request.Context(), r)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Revenue analysis", rows)
}

// ExportPDF -> sales report as a PDF download
func (rc *ReportController) ExportPDF(c *gin.Context) {
	r, err := dateRange(c)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	rows, err := rc.Reports.Sales(c.Request.Context(), r)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := services.WriteSalesReportPDF(&buf, r, rows); err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("sales-%s-%s.pdf", r.From.Format(dateLayout), r.To.Format(dateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
