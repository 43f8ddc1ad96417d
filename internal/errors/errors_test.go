package appErrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/uttu25/AdGenius-AI-Campaigner/internal/errors"
)

func TestAuthClassification(t *testing.T) {
	tests := []struct {
		msg  string
		auth bool
	}{
		{"API key not valid. Please pass a valid API key.", true},
		{"googleapi: Error 403: permission denied", true},
		{"401 Unauthorized", true},
		{"requested entity was not found", true},
		{"model overloaded, try again later", false},
		{"context deadline exceeded", false},
	}

	for _, tt := range tests {
		err := appErrors.NewCreativeGeneration(errors.New(tt.msg))
		assert.Equal(t, tt.auth, appErrors.IsAuth(err), "message: %s", tt.msg)
	}
}

func TestAuthSurvivesWrapping(t *testing.T) {
	inner := appErrors.NewCreativeGeneration(errors.New("API key expired"))
	wrapped := fmt.Errorf("phase 1: %w", inner)
	assert.True(t, appErrors.IsAuth(wrapped))
}

func TestValidationError(t *testing.T) {
	err := appErrors.NewValidation("no products selected")
	assert.True(t, appErrors.IsValidation(err))
	assert.Contains(t, err.Error(), "no products selected")
	assert.False(t, appErrors.IsAuth(err))
}
