package service

import (
	"testing"

	"go-bakery-pos/internal/model"
	"go-bakery-pos/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		kind    model.Kind
		raw     string
		want    model.Status
		wantErr bool
	}{
		{model.KindSale, "finalized", model.StatusFinalized, false},
		{model.KindSale, " CANCELLED ", model.StatusCancelled, false},
		{model.KindSale, "READY", "", true},
		{model.KindCommission, "in_progress", model.StatusInProgress, false},
		{model.KindCommission, "FINALIZED", "", true},
		{model.KindCommission, "SHIPPED", "", true},
		{model.Kind("REFUND"), "CANCELLED", "", true},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+tt.raw, func(t *testing.T) {
			got, err := parseStatus(tt.kind, tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperror.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		name string
		kind model.Kind
		from model.Status
		to   model.Status
		ok   bool
	}{
		{"commission next step", model.KindCommission, model.StatusPending, model.StatusConfirmed, true},
		{"commission skips ahead", model.KindCommission, model.StatusConfirmed, model.StatusDelivered, true},
		{"commission backwards", model.KindCommission, model.StatusReady, model.StatusConfirmed, false},
		{"commission cancel", model.KindCommission, model.StatusInProgress, model.StatusCancelled, true},
		{"commission delivered is terminal", model.KindCommission, model.StatusDelivered, model.StatusCancelled, false},
		{"commission cancelled is terminal", model.KindCommission, model.StatusCancelled, model.StatusPending, false},
		{"sale cancel", model.KindSale, model.StatusFinalized, model.StatusCancelled, true},
		{"sale cancelled is terminal", model.KindSale, model.StatusCancelled, model.StatusFinalized, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkTransition(tt.kind, tt.from, tt.to)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, apperror.ErrValidation)
			}
		})
	}
}
