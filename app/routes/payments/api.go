package payments

import (
	"database/sql"
	"errors"
	"time"

	"zawadi-schools/app/database"
	"zawadi-schools/app/models"
	"zawadi-schools/app/routes/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// paramID validates the :id path segment so malformed ids fail fast instead
// of surfacing as cast errors from the database.
func paramID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if err := uuid.Validate(id); err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "Invalid payment id")
	}
	return id, nil
}

// CreatePaymentRequest is the body for creating a billing obligation.
type CreatePaymentRequest struct {
	StudentID string          `json:"student_id" validate:"required,uuid"`
	Type      string          `json:"type" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
	DueDate   time.Time       `json:"due_date" validate:"required"`
	Notes     string          `json:"notes"`
}

// InstallmentRequest is the body for recording a partial payment.
type InstallmentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	Note   string          `json:"note"`
}

// BulkStatusRequest selects payments for a forced status change.
type BulkStatusRequest struct {
	PaymentIDs []string `json:"payment_ids" validate:"required,min=1,dive,uuid"`
	Status     string   `json:"status" validate:"required"`
}

// CreatePaymentAPI creates a billing obligation for a student.
func CreatePaymentAPI(c *fiber.Ctx, db *sql.DB) error {
	var req CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := models.Validate(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, models.ValidationMessage(err))
	}
	if !models.ValidPaymentType(models.PaymentType(req.Type)) {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown payment type")
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return fiber.NewError(fiber.StatusBadRequest, "Amount must be greater than zero")
	}

	tenantID := auth.TenantID(c)
	if _, err := database.GetStudent(db, tenantID, req.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Student not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to look up student")
	}

	payment := &models.Payment{
		TenantID:  tenantID,
		StudentID: req.StudentID,
		Type:      models.PaymentType(req.Type),
		Amount:    req.Amount,
		DueDate:   req.DueDate,
		Notes:     req.Notes,
	}
	if err := database.CreatePayment(db, payment); err != nil {
		logrus.WithError(err).Error("failed to create payment")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create payment")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    payment,
		"message": "Payment created successfully",
	})
}

// ListPaymentsAPI returns tenant payments with optional filters.
func ListPaymentsAPI(c *fiber.Ctx, db *sql.DB) error {
	filters := database.PaymentFilters{
		StudentID: c.Query("student_id"),
		Status:    c.Query("status"),
		Type:      c.Query("type"),
		Month:     c.QueryInt("month", 0),
		Year:      c.QueryInt("year", 0),
		Limit:     c.QueryInt("limit", 50),
		Offset:    c.QueryInt("offset", 0),
	}

	payments, err := database.ListPayments(db, auth.TenantID(c), filters)
	if err != nil {
		logrus.WithError(err).Error("failed to list payments")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch payments")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    payments,
	})
}

// GetPaymentAPI returns one payment with its student name.
func GetPaymentAPI(c *fiber.Ctx, db *sql.DB) error {
	paymentID, err := paramID(c)
	if err != nil {
		return err
	}

	payment, err := database.GetPayment(db, auth.TenantID(c), paymentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Payment not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch payment")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    payment,
	})
}

// GetLedgerAPI returns the installment history of a payment.
func GetLedgerAPI(c *fiber.Ctx, db *sql.DB) error {
	paymentID, err := paramID(c)
	if err != nil {
		return err
	}
	tenantID := auth.TenantID(c)

	if _, err := database.GetPayment(db, tenantID, paymentID); err != nil {
		if err == sql.ErrNoRows {
			return fiber.NewError(fiber.StatusNotFound, "Payment not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch payment")
	}

	entries, err := database.GetPaymentLedger(db, tenantID, paymentID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch ledger")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    entries,
	})
}

// AddInstallmentAPI records a partial payment against a payment row.
func AddInstallmentAPI(c *fiber.Ctx, db *sql.DB) error {
	var req InstallmentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return fiber.NewError(fiber.StatusBadRequest, "Amount must be greater than zero")
	}
	paymentID, err := paramID(c)
	if err != nil {
		return err
	}

	claims := auth.Claims(c)
	result, err := database.AddInstallment(db, claims.TenantID, paymentID, req.Amount, req.Method, req.Note, claims.UserID)
	if err != nil {
		return installmentError(err)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"data":         result.Payment,
		"student_name": result.StudentName,
		"message":      result.Message,
	})
}

func installmentError(err error) error {
	var overpay *models.OverpaymentError
	switch {
	case err == sql.ErrNoRows:
		return fiber.NewError(fiber.StatusNotFound, "Payment not found")
	case errors.As(err, &overpay):
		return fiber.NewError(fiber.StatusBadRequest, overpay.Error())
	case errors.Is(err, models.ErrPaymentCompleted),
		errors.Is(err, models.ErrPaymentClosed),
		errors.Is(err, models.ErrNonPositiveAmount):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrVersionConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		logrus.WithError(err).Error("installment failed")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to record installment")
	}
}

// BulkStatusAPI forces a set of payments into a target status.
func BulkStatusAPI(c *fiber.Ctx, db *sql.DB) error {
	var req BulkStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := models.Validate(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, models.ValidationMessage(err))
	}
	status := models.PaymentStatus(req.Status)
	if !models.ValidPaymentStatus(status) {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown payment status")
	}

	claims := auth.Claims(c)
	changed, err := database.BulkChangeStatus(db, claims.TenantID, req.PaymentIDs, status, claims.UserID)
	if err != nil {
		if errors.Is(err, database.ErrVersionConflict) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		logrus.WithError(err).Error("bulk status change failed")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to change payment status")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"changed": changed,
		"message": "Payment status updated",
	})
}

// OverrideStatusAPI applies an administrative FAILED/REFUNDED override to a
// single payment; routed through the bulk path so amounts stay consistent and
// the ledger records the change.
func OverrideStatusAPI(c *fiber.Ctx, db *sql.DB) error {
	type OverrideRequest struct {
		Status string `json:"status" validate:"required"`
	}
	var req OverrideRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	status := models.PaymentStatus(req.Status)
	if status != models.PaymentFailed && status != models.PaymentRefunded {
		return fiber.NewError(fiber.StatusBadRequest, "Status override only supports failed or refunded")
	}
	paymentID, err := paramID(c)
	if err != nil {
		return err
	}

	claims := auth.Claims(c)
	changed, err := database.BulkChangeStatus(db, claims.TenantID, []string{paymentID}, status, claims.UserID)
	if err != nil {
		logrus.WithError(err).Error("status override failed")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to override status")
	}
	if changed == 0 {
		return fiber.NewError(fiber.StatusNotFound, "Payment not found or already in that status")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Payment status overridden",
	})
}

// UpdatePaymentAPI edits the total owed; allowed only while pending.
func UpdatePaymentAPI(c *fiber.Ctx, db *sql.DB) error {
	type UpdateRequest struct {
		Amount  decimal.Decimal `json:"amount"`
		DueDate time.Time       `json:"due_date" validate:"required"`
	}
	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	paymentID, err := paramID(c)
	if err != nil {
		return err
	}

	err = database.UpdatePaymentAmount(db, auth.TenantID(c), paymentID, req.Amount, req.DueDate)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNonPositiveAmount):
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		case err == sql.ErrNoRows:
			return fiber.NewError(fiber.StatusNotFound, "Payment not found or not editable")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to update payment")
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Payment updated successfully",
	})
}

// DeletePaymentAPI soft-deletes a payment unless it is completed.
func DeletePaymentAPI(c *fiber.Ctx, db *sql.DB) error {
	paymentID, err := paramID(c)
	if err != nil {
		return err
	}

	err = database.SoftDeletePayment(db, auth.TenantID(c), paymentID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDeleteCompleted):
			return fiber.NewError(fiber.StatusConflict, err.Error())
		case err == sql.ErrNoRows:
			return fiber.NewError(fiber.StatusNotFound, "Payment not found")
		default:
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete payment")
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Payment deleted successfully",
	})
}

// PaymentStatsAPI returns the tenant's payment totals, optionally per month.
func PaymentStatsAPI(c *fiber.Ctx, db *sql.DB) error {
	stats, err := database.GetPaymentStats(db, auth.TenantID(c), c.QueryInt("month", 0), c.QueryInt("year", 0))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch payment stats")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}
