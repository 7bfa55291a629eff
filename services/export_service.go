package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/beevik/etree"
)

// ExportService выгружает месячный отчет в XML
type ExportService struct {
	reports *ReportService
	clock   Clock
}

func NewExportService(reports *ReportService, clock Clock) *ExportService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ExportService{reports: reports, clock: clock}
}

// MonthlyReportXML строит документ со сводкой и разбивкой расходов по категориям
func (s *ExportService) MonthlyReportXML(ctx context.Context, userID string, period ReportPeriod) ([]byte, error) {
	summary, err := s.reports.MonthlySummary(ctx, userID, period)
	if err != nil {
		return nil, err
	}
	breakdown, err := s.reports.ExpensesByCategory(ctx, userID, period)
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("MonthlyReport")
	root.CreateAttr("userId", userID)
	root.CreateAttr("month", strconv.Itoa(summary.Month))
	root.CreateAttr("year", strconv.Itoa(summary.Year))
	root.CreateAttr("generatedAt", s.clock.Now().Format("2006-01-02T15:04:05Z07:00"))

	sum := root.CreateElement("Summary")
	sum.CreateElement("TotalIncome").SetText(money(summary.TotalIncome))
	sum.CreateElement("TotalExpense").SetText(money(summary.TotalExpense))
	sum.CreateElement("NetBalance").SetText(money(summary.NetBalance))
	sum.CreateElement("TransactionCount").SetText(strconv.Itoa(summary.TransactionCount))

	expenses := root.CreateElement("Expenses")
	expenses.CreateAttr("total", money(breakdown.TotalExpense))
	for _, e := range breakdown.Expenses {
		cat := expenses.CreateElement("Category")
		if e.CategoryID != nil {
			cat.CreateAttr("id", *e.CategoryID)
		}
		cat.CreateElement("Name").SetText(e.CategoryName)
		cat.CreateElement("TotalAmount").SetText(money(e.TotalAmount))
		cat.CreateElement("TransactionCount").SetText(strconv.Itoa(e.TransactionCount))
		cat.CreateElement("Percentage").SetText(strconv.FormatFloat(e.Percentage, 'f', 2, 64))
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("write xml: %w", err)
	}
	return out, nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
