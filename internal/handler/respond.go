package handler

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"go-bakery-pos/internal/middleware"
	"go-bakery-pos/internal/model"
	"go-bakery-pos/internal/service"
	"go-bakery-pos/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// respondError maps domain errors onto status codes. Anything unexpected is
// logged and reported without detail.
func respondError(c *fiber.Ctx, log *slog.Logger, err error) error {
	status := apperror.Status(err)
	if status == fiber.StatusInternalServerError {
		log.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
			"err", err,
		)
		return c.Status(status).JSON(fiber.Map{"error": "Internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// Helper untuk ambil operator dari JWT context (set by RequireAuth)
func getActor(c *fiber.Ctx) model.Actor {
	return middleware.CurrentActor(c)
}

func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("invalid %s %q", param, c.Params(param))
	}
	return uint(id), nil
}

// parseDay reads a YYYY-MM-DD date in the server's local time.
func parseDay(raw, field string) (time.Time, error) {
	day, err := time.ParseInLocation(service.DateLayout, strings.TrimSpace(raw), time.Local)
	if err != nil {
		return time.Time{}, apperror.Validation("%s must be a date in YYYY-MM-DD format", field)
	}
	return day, nil
}

// parsePeriod reads ?inicio=&fim= as whole days, so fim is inclusive.
// Missing bounds default to today when allowDefault is set.
func parsePeriod(c *fiber.Ctx, allowDefault bool) (service.Period, error) {
	rawStart, rawEnd := c.Query("inicio"), c.Query("fim")
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)

	if rawStart == "" && rawEnd == "" && allowDefault {
		return service.Period{Start: today, End: today.AddDate(0, 0, 1)}, nil
	}
	if rawStart == "" || rawEnd == "" {
		return service.Period{}, apperror.Validation("inicio and fim are required")
	}
	start, err := parseDay(rawStart, "inicio")
	if err != nil {
		return service.Period{}, err
	}
	end, err := parseDay(rawEnd, "fim")
	if err != nil {
		return service.Period{}, err
	}
	return service.Period{Start: start, End: end.AddDate(0, 0, 1)}, nil
}

type quantityBody struct {
	Quantidade *decimal.Decimal `json:"quantidade"`
}

// readQuantity takes quantidade from the JSON body, falling back to the
// query string.
func readQuantity(c *fiber.Ctx) (decimal.Decimal, error) {
	if len(c.Body()) > 0 {
		var body quantityBody
		if err := c.BodyParser(&body); err != nil {
			return decimal.Zero, apperror.Validation("invalid JSON")
		}
		if body.Quantidade != nil {
			return *body.Quantidade, nil
		}
	}
	raw := c.Query("quantidade")
	if raw == "" {
		return decimal.Zero, apperror.Validation("quantidade is required")
	}
	qty, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperror.Validation("quantidade must be a number")
	}
	return qty, nil
}
