package database

import (
	"database/sql"
	"fmt"
	"time"

	"zawadi-schools/app/models"
)

// CreateExpense records an operational expense.
func CreateExpense(db *sql.DB, e *models.Expense) error {
	query := `INSERT INTO expenses (tenant_id, category, title, amount, date, notes)
			  VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
			  RETURNING id, created_at, updated_at`
	return db.QueryRow(query, e.TenantID, e.Category, e.Title, e.Amount, e.Date, e.Notes).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// ListExpenses returns tenant expenses, optionally limited to a category or month.
func ListExpenses(db *sql.DB, tenantID, category string, month, year int) ([]*models.Expense, error) {
	query := `SELECT id, tenant_id, category, title, amount, date, COALESCE(notes, ''), created_at, updated_at
			  FROM expenses WHERE tenant_id = $1 AND deleted_at IS NULL`
	args := []interface{}{tenantID}

	if category != "" {
		args = append(args, category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if month != 0 && year != 0 {
		args = append(args, month, year)
		query += fmt.Sprintf(" AND EXTRACT(MONTH FROM date) = $%d AND EXTRACT(YEAR FROM date) = $%d", len(args)-1, len(args))
	}
	query += " ORDER BY date DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		e := &models.Expense{}
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Category, &e.Title, &e.Amount, &e.Date, &e.Notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// UpdateExpense edits an expense row.
func UpdateExpense(db *sql.DB, e *models.Expense) error {
	res, err := db.Exec(`UPDATE expenses
		SET category = $1, title = $2, amount = $3, date = $4, notes = NULLIF($5, ''), updated_at = NOW()
		WHERE tenant_id = $6 AND id = $7 AND deleted_at IS NULL`,
		e.Category, e.Title, e.Amount, e.Date, e.Notes, e.TenantID, e.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SoftDeleteExpense hides an expense from listings and summaries.
func SoftDeleteExpense(db *sql.DB, tenantID, expenseID string) error {
	res, err := db.Exec(`UPDATE expenses SET deleted_at = NOW(), updated_at = NOW()
						 WHERE tenant_id = $1 AND id = $2 AND deleted_at IS NULL`,
		tenantID, expenseID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetMonthlyExpenseSummary totals a month's expenses per category.
func GetMonthlyExpenseSummary(db *sql.DB, tenantID string, month time.Month, year int) ([]*models.ExpenseCategorySummary, error) {
	rows, err := db.Query(`SELECT category, COALESCE(SUM(amount), 0), COUNT(*)
		FROM expenses
		WHERE tenant_id = $1 AND deleted_at IS NULL
		  AND EXTRACT(MONTH FROM date) = $2 AND EXTRACT(YEAR FROM date) = $3
		GROUP BY category
		ORDER BY 2 DESC`,
		tenantID, int(month), year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*models.ExpenseCategorySummary
	for rows.Next() {
		s := &models.ExpenseCategorySummary{}
		if err := rows.Scan(&s.Category, &s.Total, &s.Count); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
