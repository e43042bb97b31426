package payments

import (
	"testing"
	"time"

	"zawadi-schools/app/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePaymentRequestValidation(t *testing.T) {
	valid := CreatePaymentRequest{
		StudentID: "7f6c1f2e-9f6e-4c62-9a9a-3f1f2f7e9a10",
		Type:      "tuition",
		Amount:    decimal.NewFromInt(100000),
		DueDate:   time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
	}
	assert.NoError(t, models.Validate(valid))

	missingStudent := valid
	missingStudent.StudentID = ""
	assert.Error(t, models.Validate(missingStudent))

	badUUID := valid
	badUUID.StudentID = "not-a-uuid"
	assert.Error(t, models.Validate(badUUID))

	noDueDate := valid
	noDueDate.DueDate = time.Time{}
	assert.Error(t, models.Validate(noDueDate))
}

func TestBulkStatusRequestValidation(t *testing.T) {
	valid := BulkStatusRequest{
		PaymentIDs: []string{"7f6c1f2e-9f6e-4c62-9a9a-3f1f2f7e9a10"},
		Status:     "completed",
	}
	require.NoError(t, models.Validate(valid))

	empty := BulkStatusRequest{Status: "completed"}
	assert.Error(t, models.Validate(empty))

	badID := BulkStatusRequest{PaymentIDs: []string{"nope"}, Status: "completed"}
	assert.Error(t, models.Validate(badID))
}

func TestValidationMessageListsFields(t *testing.T) {
	err := models.Validate(CreatePaymentRequest{})
	require.Error(t, err)
	msg := models.ValidationMessage(err)
	assert.Contains(t, msg, "StudentID")
	assert.Contains(t, msg, "required")
}
