package service

import (
	"strings"

	"go-bakery-pos/internal/model"
	"go-bakery-pos/pkg/apperror"
)

// commissionFlow is the forward order of commission statuses.
var commissionFlow = []model.Status{
	model.StatusPending,
	model.StatusConfirmed,
	model.StatusInProgress,
	model.StatusReady,
	model.StatusDelivered,
}

func flowIndex(s model.Status) int {
	for i, f := range commissionFlow {
		if f == s {
			return i
		}
	}
	return -1
}

// parseStatus accepts only the statuses defined for kind.
func parseStatus(kind model.Kind, raw string) (model.Status, error) {
	s := model.Status(strings.ToUpper(strings.TrimSpace(raw)))
	switch kind {
	case model.KindSale:
		if s == model.StatusFinalized || s == model.StatusCancelled {
			return s, nil
		}
	case model.KindCommission:
		if s == model.StatusCancelled || flowIndex(s) >= 0 {
			return s, nil
		}
	default:
		return "", apperror.Validation("unknown transaction kind %q", kind)
	}
	return "", apperror.Validation("invalid status %q for %s", raw, strings.ToLower(string(kind)))
}

func isTerminal(kind model.Kind, s model.Status) bool {
	if s == model.StatusCancelled {
		return true
	}
	return kind == model.KindCommission && s == model.StatusDelivered
}

// checkTransition validates from -> to. Commissions move forward only and
// may skip steps; any non-terminal state may be cancelled.
func checkTransition(kind model.Kind, from, to model.Status) error {
	if isTerminal(kind, from) {
		return apperror.Validation("%s is %s and can no longer change status", strings.ToLower(string(kind)), from)
	}
	if to == model.StatusCancelled {
		return nil
	}
	if kind == model.KindCommission && flowIndex(to) > flowIndex(from) {
		return nil
	}
	return apperror.Validation("cannot change %s status from %s to %s", strings.ToLower(string(kind)), from, to)
}
