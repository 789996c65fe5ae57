package response_test

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/donation-gateway/internal/http/response"
)

func TestOKWithData(t *testing.T) {
	resp := response.OKWithData(map[string]string{"reference": "ref_1"})

	assert.Equal(t, response.StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.NotNil(t, resp.Data)
}

func TestError(t *testing.T) {
	resp := response.Error("something went wrong")

	assert.Equal(t, response.StatusError, resp.Status)
	assert.Equal(t, "something went wrong", resp.Error)
}

func TestValidationError(t *testing.T) {
	type payload struct {
		Email  string `validate:"required,email"`
		Amount int64  `validate:"required,gte=100"`
	}

	validate := validator.New()

	tests := []struct {
		name     string
		input    payload
		contains []string
	}{
		{
			name:     "missing required fields",
			input:    payload{},
			contains: []string{"field Email is a required field", "field Amount is a required field"},
		},
		{
			name:     "invalid email and small amount",
			input:    payload{Email: "not-an-email", Amount: 50},
			contains: []string{"field Email must be a valid email", "field Amount must be at least 100"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.input)
			require.Error(t, err)

			validateErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok)

			resp := response.ValidationError(validateErrs)
			assert.Equal(t, response.StatusError, resp.Status)
			for _, msg := range tt.contains {
				assert.Contains(t, resp.Error, msg)
			}
		})
	}
}
