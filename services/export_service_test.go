package services

import (
	"context"
	"testing"
	"time"

	"github.com/Danibruno18/credix/models"
	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportService_MonthlyReportXML(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, "xml@example.com")
	food := createTestCategory(t, db, user.ID, "Food & Drinks")

	at := time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)
	addTransaction(t, db, user.ID, 300, models.TransactionTypeIncome, at, nil)
	addTransaction(t, db, user.ID, 120.5, models.TransactionTypeExpense, at.Add(time.Hour), &food.ID)

	clock := FixedClock{At: testNow}
	svc := NewExportService(NewReportService(db, clock), clock)

	out, err := svc.MonthlyReportXML(context.Background(), user.ID, ReportPeriod{Month: ptr(3), Year: ptr(2024)})
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))

	root := doc.SelectElement("MonthlyReport")
	require.NotNil(t, root)
	assert.Equal(t, "3", root.SelectAttrValue("month", ""))
	assert.Equal(t, "2024", root.SelectAttrValue("year", ""))

	summary := root.SelectElement("Summary")
	require.NotNil(t, summary)
	assert.Equal(t, "300.00", summary.SelectElement("TotalIncome").Text())
	assert.Equal(t, "120.50", summary.SelectElement("TotalExpense").Text())
	assert.Equal(t, "179.50", summary.SelectElement("NetBalance").Text())
	assert.Equal(t, "2", summary.SelectElement("TransactionCount").Text())

	categories := root.FindElements("./Expenses/Category")
	require.Len(t, categories, 1)
	assert.Equal(t, food.ID, categories[0].SelectAttrValue("id", ""))
	assert.Equal(t, "Food & Drinks", categories[0].SelectElement("Name").Text())
	assert.Equal(t, "100.00", categories[0].SelectElement("Percentage").Text())
}

func TestExportService_InvalidPeriod(t *testing.T) {
	db := setupTestDB(t)
	svc := NewExportService(NewReportService(db, nil), nil)

	_, err := svc.MonthlyReportXML(context.Background(), "u", ReportPeriod{Month: ptr(14)})
	assert.ErrorIs(t, err, ErrValidation)
}
