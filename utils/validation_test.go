package utils

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleLine struct {
	Quantity int `json:"quantity" binding:"gt=0"`
}

type sampleRequest struct {
	Email  string       `json:"customer_email" binding:"omitempty,email"`
	Method string       `json:"payment_method" binding:"omitempty,oneof=cash upi card"`
	Items  []sampleLine `json:"items" binding:"required,min=1,dive"`
}

func TestValidationMessagesUseJSONNames(t *testing.T) {
	UseJSONFieldNames()

	err := binding.Validator.ValidateStruct(&sampleRequest{
		Email:  "not-an-email",
		Method: "cheque",
		Items:  []sampleLine{{Quantity: 0}},
	})
	require.Error(t, err)

	msgs := ValidationMessages(err)
	assert.Equal(t, "enter a valid email address", msgs["customer_email"])
	assert.Equal(t, "must be one of: cash upi card", msgs["payment_method"])
	assert.Equal(t, "must be greater than 0", msgs["items[0].quantity"])
}

func TestValidationMessagesIgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, ValidationMessages(errors.New("boom")))
}
