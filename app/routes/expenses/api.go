package expenses

import (
	"database/sql"
	"time"

	"zawadi-schools/app/database"
	"zawadi-schools/app/models"
	"zawadi-schools/app/routes/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ExpenseRequest is the body for creating or updating an expense.
type ExpenseRequest struct {
	Category string          `json:"category" validate:"required"`
	Title    string          `json:"title" validate:"required"`
	Amount   decimal.Decimal `json:"amount"`
	Date     time.Time       `json:"date" validate:"required"`
	Notes    string          `json:"notes"`
}

// CreateExpenseAPI records an operational expense.
func CreateExpenseAPI(c *fiber.Ctx, db *sql.DB) error {
	var req ExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := models.Validate(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, models.ValidationMessage(err))
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return fiber.NewError(fiber.StatusBadRequest, "Amount must be greater than zero")
	}

	expense := &models.Expense{
		TenantID: auth.TenantID(c),
		Category: req.Category,
		Title:    req.Title,
		Amount:   req.Amount,
		Date:     req.Date,
		Notes:    req.Notes,
	}
	if err := database.CreateExpense(db, expense); err != nil {
		logrus.WithError(err).Error("failed to create expense")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create expense")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    expense,
		"message": "Expense created successfully",
	})
}

// ListExpensesAPI returns tenant expenses filtered by category or month.
func ListExpensesAPI(c *fiber.Ctx, db *sql.DB) error {
	expenses, err := database.ListExpenses(db, auth.TenantID(c), c.Query("category"),
		c.QueryInt("month", 0), c.QueryInt("year", 0))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch expenses")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    expenses,
	})
}

// ExpenseSummaryAPI totals a month's expenses per category. Defaults to the
// current month.
func ExpenseSummaryAPI(c *fiber.Ctx, db *sql.DB) error {
	now := time.Now()
	month := time.Month(c.QueryInt("month", int(now.Month())))
	year := c.QueryInt("year", now.Year())

	summary, err := database.GetMonthlyExpenseSummary(db, auth.TenantID(c), month, year)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch expense summary")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    summary,
		"month":   int(month),
		"year":    year,
	})
}

// UpdateExpenseAPI edits an expense row.
func UpdateExpenseAPI(c *fiber.Ctx, db *sql.DB) error {
	var req ExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := models.Validate(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, models.ValidationMessage(err))
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return fiber.NewError(fiber.StatusBadRequest, "Amount must be greater than zero")
	}

	expense := &models.Expense{
		ID:       c.Params("id"),
		TenantID: auth.TenantID(c),
		Category: req.Category,
		Title:    req.Title,
		Amount:   req.Amount,
		Date:     req.Date,
		Notes:    req.Notes,
	}
	if err := database.UpdateExpense(db, expense); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Expense not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update expense")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Expense updated successfully",
	})
}

// DeleteExpenseAPI hides an expense from listings and summaries.
func DeleteExpenseAPI(c *fiber.Ctx, db *sql.DB) error {
	err := database.SoftDeleteExpense(db, auth.TenantID(c), c.Params("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Expense not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete expense")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Expense deleted successfully",
	})
}
