package controllers

import (
	"net/http"

	"github.com/Danibruno18/credix/services"
	"github.com/gin-gonic/gin"
)

// ReportController отдает месячные отчеты
type ReportController struct {
	reports *services.ReportService
	export  *services.ExportService
}

func NewReportController(reports *services.ReportService, export *services.ExportService) *ReportController {
	return &ReportController{reports: reports, export: export}
}

func period(ctx *gin.Context) (services.ReportPeriod, error) {
	month, err := optionalQueryInt(ctx, "month")
	if err != nil {
		return services.ReportPeriod{}, err
	}
	year, err := optionalQueryInt(ctx, "year")
	if err != nil {
		return services.ReportPeriod{}, err
	}
	return services.ReportPeriod{Month: month, Year: year}, nil
}

func (c *ReportController) Summary(ctx *gin.Context) {
	p, err := period(ctx)
	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	summary, err := c.reports.MonthlySummary(ctx.Request.Context(), userID(ctx), p)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, summary)
}

func (c *ReportController) ByCategory(ctx *gin.Context) {
	p, err := period(ctx)
	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	breakdown, err := c.reports.ExpensesByCategory(ctx.Request.Context(), userID(ctx), p)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, breakdown)
}

// ExportXML отдает сводку и разбивку по категориям одним XML документом
func (c *ReportController) ExportXML(ctx *gin.Context) {
	p, err := period(ctx)
	if err != nil {
		badRequest(ctx, err.Error())
		return
	}

	body, err := c.export.MonthlyReportXML(ctx.Request.Context(), userID(ctx), p)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, "application/xml; charset=utf-8", body)
}
