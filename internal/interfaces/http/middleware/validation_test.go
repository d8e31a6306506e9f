package middleware

import (
	"testing"

	"github.com/finbooks/backend/internal/interfaces/http/dto"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationTestInput struct {
	Code     string `json:"code" validate:"required,max=5"`
	Name     string `json:"name" validate:"required"`
	Page     int    `json:"page" validate:"gte=1"`
	Kind     string `json:"kind" validate:"omitempty,oneof=INVOICE BILL"`
	TargetID string `json:"target_id" validate:"omitempty,uuid"`
}

func TestFormatValidationErrors(t *testing.T) {
	v := validator.New()

	input := validationTestInput{
		Code: "too-long-code",
		Page: 0,
		Kind: "RECEIPT",
	}
	err := v.Struct(input)
	require.Error(t, err)

	resp := FormatValidationErrors(err, "req-789")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 4)

	messages := make(map[string]string)
	for _, d := range resp.Error.Details {
		messages[d.Field] = d.Message
	}
	assert.Equal(t, "Must be at most 5 characters", messages["Code"])
	assert.Equal(t, "This field is required", messages["Name"])
	assert.Equal(t, "Must be greater than or equal to 1", messages["Page"])
	assert.Equal(t, "Must be one of: INVOICE BILL", messages["Kind"])
}

func TestFormatValidationErrorsUUID(t *testing.T) {
	v := validator.New()

	input := validationTestInput{
		Code:     "4000",
		Name:     "Revenue",
		Page:     1,
		TargetID: "not-a-uuid",
	}
	err := v.Struct(input)
	require.Error(t, err)

	resp := FormatValidationErrors(err, "")

	require.NotNil(t, resp.Error)
	require.Len(t, resp.Error.Details, 1)
	assert.Equal(t, "Invalid UUID format", resp.Error.Details[0].Message)
}

func TestFormatValidationErrorsNonValidatorError(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError, "req-1")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}
