package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomyMatchesWithAs(t *testing.T) {
	var validation *ValidationError
	assert.ErrorAs(t, NewValidationError("budget", "must be positive"), &validation)
	assert.Equal(t, "budget", validation.Field)

	var notFound *NotFoundError
	assert.ErrorAs(t, NewNotFoundError("recipe", "r1"), &notFound)

	var insufficient *InsufficientDataError
	assert.ErrorAs(t, NewInsufficientDataError("store prices"), &insufficient)
}

func TestStorageErrorUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("save plan", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "save plan")
}

func TestExternalServiceErrorSurvivesWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("estimating route: %w", NewExternalServiceError("routing", cause))

	var external *ExternalServiceError
	assert.ErrorAs(t, err, &external)
	assert.Equal(t, "routing", external.Service)
	assert.ErrorIs(t, err, cause)
}
