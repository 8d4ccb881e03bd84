package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		kind       error
		statusCode int
	}{
		{"validation", Validation("name is required"), ErrValidation, http.StatusBadRequest},
		{"not found", NotFound("product %d not found", 7), ErrNotFound, http.StatusNotFound},
		{"conflict", Conflict("tax id already registered"), ErrConflict, http.StatusBadRequest},
		{"insufficient stock", InsufficientStock("only %s left", "3"), ErrInsufficientStock, http.StatusBadRequest},
		{"wrapped", fmt.Errorf("create sale: %w", NotFound("customer 1 not found")), ErrNotFound, http.StatusNotFound},
		{"storage failure", errors.New("connection reset"), nil, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.kind != nil {
				assert.ErrorIs(t, tc.err, tc.kind)
				assert.True(t, IsDomain(tc.err))
			} else {
				assert.False(t, IsDomain(tc.err))
			}
			assert.Equal(t, tc.statusCode, Status(tc.err))
		})
	}
}

func TestInsufficientStockIsValidation(t *testing.T) {
	err := InsufficientStock("only 95 available")
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "only 95 available", err.Error())
}
