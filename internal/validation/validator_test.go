package validation_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/readtrailapp/readtrail-server/internal/errors"
	"github.com/readtrailapp/readtrail-server/internal/validation"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=1024"`
	Name     string `json:"name" validate:"required,max=50"`
	Rating   int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	req := registerRequest{
		Email:    "reader@example.com",
		Password: "secret123",
		Name:     "Test Reader",
	}

	assert.NoError(t, v.Validate(req))
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       registerRequest
		wantField string
	}{
		{
			name: "missing required field",
			req: registerRequest{
				Email:    "reader@example.com",
				Password: "secret123",
				Name:     "",
			},
			wantField: "name",
		},
		{
			name: "invalid email",
			req: registerRequest{
				Email:    "not-an-email",
				Password: "secret123",
				Name:     "Test",
			},
			wantField: "email",
		},
		{
			name: "password too short",
			req: registerRequest{
				Email:    "reader@example.com",
				Password: "abc",
				Name:     "Test",
			},
			wantField: "password",
		},
		{
			name: "rating out of range",
			req: registerRequest{
				Email:    "reader@example.com",
				Password: "secret123",
				Name:     "Test",
				Rating:   9,
			},
			wantField: "rating",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			require.Error(t, err)

			var domainErr *domainerrors.Error
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())

			// Field-level detail uses the JSON tag name.
			details, ok := domainErr.Details.(map[string]string)
			require.True(t, ok, "details should be a field error map")
			assert.Contains(t, details, tt.wantField)
		})
	}
}
