package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Danibruno18/credix/database"
	"github.com/Danibruno18/credix/models"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// UncategorizedName отображаемое имя группы транзакций без категории
const UncategorizedName = "Sem categoria"

// MonthlySummary сводка доходов и расходов за месяц
type MonthlySummary struct {
	TotalIncome      float64 `json:"total_income"`
	TotalExpense     float64 `json:"total_expense"`
	NetBalance       float64 `json:"net_balance"`
	TransactionCount int     `json:"transaction_count"`
	Month            int     `json:"month"`
	Year             int     `json:"year"`
}

// CategoryExpense расходы одной группы категорий
type CategoryExpense struct {
	CategoryID       *string `json:"category_id"`
	CategoryName     string  `json:"category_name"`
	TotalAmount      float64 `json:"total_amount"`
	TransactionCount int     `json:"transaction_count"`
	Percentage       float64 `json:"percentage"`
}

// CategoryBreakdown расходы месяца по категориям, по убыванию суммы
type CategoryBreakdown struct {
	Expenses     []CategoryExpense `json:"expenses"`
	TotalExpense float64           `json:"total_expense"`
	Month        int               `json:"month"`
	Year         int               `json:"year"`
}

// ReportPeriod месяц и год отчета. Пустые поля заменяются текущим месяцем UTC.
type ReportPeriod struct {
	Month *int `json:"month" validate:"omitnil,gte=1,max=12"`
	Year  *int `json:"year" validate:"omitnil,gte=2000,max=2100"`
}

// MonthWindow возвращает полуинтервал [первое число месяца, первое число следующего) в UTC
func MonthWindow(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// ReportService строит отчеты по журналу транзакций. Только чтение.
type ReportService struct {
	db    *database.Database
	clock Clock
}

// NewReportService создает новый экземпляр ReportService
func NewReportService(db *database.Database, clock Clock) *ReportService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ReportService{db: db, clock: clock}
}

// resolve проверяет период и подставляет текущий месяц/год
func (s *ReportService) resolve(period ReportPeriod) (int, int, error) {
	if err := validateDTO(newValidator(), period); err != nil {
		return 0, 0, err
	}

	now := s.clock.Now().UTC()
	month, year := int(now.Month()), now.Year()
	if period.Month != nil {
		month = *period.Month
	}
	if period.Year != nil {
		year = *period.Year
	}
	return month, year, nil
}

// MonthlySummary считает доходы, расходы и число активных транзакций за месяц.
// Переводы входят в transaction_count, но не в суммы.
func (s *ReportService) MonthlySummary(ctx context.Context, userID string, period ReportPeriod) (*MonthlySummary, error) {
	month, year, err := s.resolve(period)
	if err != nil {
		return nil, err
	}

	start, end := MonthWindow(year, month)
	transactions, err := s.db.ActiveTransactionsInWindow(ctx, userID, start, end, nil)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	income, expense := decimal.Zero, decimal.Zero
	for _, t := range transactions {
		switch t.Type {
		case models.TransactionTypeIncome:
			income = income.Add(decimal.NewFromFloat(t.Amount))
		case models.TransactionTypeExpense:
			expense = expense.Add(decimal.NewFromFloat(t.Amount))
		}
	}

	return &MonthlySummary{
		TotalIncome:      income.InexactFloat64(),
		TotalExpense:     expense.InexactFloat64(),
		NetBalance:       income.Sub(expense).InexactFloat64(),
		TransactionCount: len(transactions),
		Month:            month,
		Year:             year,
	}, nil
}

// ExpensesByCategory группирует расходы месяца по category_id.
// Транзакции без категории и с удаленной категорией получают имя "Sem categoria".
func (s *ReportService) ExpensesByCategory(ctx context.Context, userID string, period ReportPeriod) (*CategoryBreakdown, error) {
	month, year, err := s.resolve(period)
	if err != nil {
		return nil, err
	}

	start, end := MonthWindow(year, month)
	expenseType := models.TransactionTypeExpense

	var (
		transactions []models.Transaction
		names        map[string]string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.db.ActiveTransactionsInWindow(gctx, userID, start, end, &expenseType)
		if err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		names, err = s.db.ActiveCategoryNames(gctx, userID, nil)
		if err != nil {
			return fmt.Errorf("load category names: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	type group struct {
		categoryID *string
		total      decimal.Decimal
		count      int
	}

	// Порядок групп = порядок первого появления, чтобы стабильная сортировка была детерминированной
	var groups []*group
	index := make(map[string]*group)
	total := decimal.Zero
	for _, t := range transactions {
		key := ""
		if t.CategoryID != nil {
			key = *t.CategoryID
		}
		grp, ok := index[key]
		if !ok {
			grp = &group{categoryID: t.CategoryID, total: decimal.Zero}
			index[key] = grp
			groups = append(groups, grp)
		}
		amount := decimal.NewFromFloat(t.Amount)
		grp.total = grp.total.Add(amount)
		grp.count++
		total = total.Add(amount)
	}

	expenses := make([]CategoryExpense, 0, len(groups))
	for _, grp := range groups {
		name := UncategorizedName
		if grp.categoryID != nil {
			if n, ok := names[*grp.categoryID]; ok {
				name = n
			}
		}

		percentage := decimal.Zero
		if total.IsPositive() {
			percentage = grp.total.Div(total).Mul(decimal.NewFromInt(100))
		}

		expenses = append(expenses, CategoryExpense{
			CategoryID:       grp.categoryID,
			CategoryName:     name,
			TotalAmount:      grp.total.InexactFloat64(),
			TransactionCount: grp.count,
			Percentage:       percentage.InexactFloat64(),
		})
	}

	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].TotalAmount > expenses[j].TotalAmount
	})

	return &CategoryBreakdown{
		Expenses:     expenses,
		TotalExpense: total.InexactFloat64(),
		Month:        month,
		Year:         year,
	}, nil
}
