package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sestako/eunio-core/internal/services"
)

func (handler *Handler) GetOvulationConfirmation(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return badRequest(c, err)
	}
	if c.Query("from") == "" || c.Query("to") == "" {
		return badRequest(c, errMissingDateRange)
	}
	from, err := parseDateParam(c, "from", handler.location)
	if err != nil {
		return badRequest(c, err)
	}
	to, err := parseDateParam(c, "to", handler.location)
	if err != nil {
		return badRequest(c, err)
	}

	cycleID := uint(0)
	if raw := c.Query("cycle_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return badRequest(c, errInvalidCycleID)
		}
		cycleID = uint(parsed)
	}

	confirmation, err := handler.ovulation.ConfirmOvulation(c.Context(), userID, cycleID, from, to)
	if err != nil {
		if isValidationError(err) {
			return badRequest(c, err)
		}
		return handler.internalError(c, err)
	}
	return c.JSON(confirmation)
}

func (handler *Handler) GetFertilityWindow(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return badRequest(c, err)
	}

	var futureStart *time.Time
	if raw := c.Query("start"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, handler.location)
		if err != nil {
			return badRequest(c, err)
		}
		futureStart = &parsed
	}

	window, err := handler.fertility.Calculate(c.Context(), userID, futureStart)
	if err != nil {
		if errors.Is(err, services.ErrNoCycleForPrediction) {
			return notFound(c, "no active cycle; pass a start date for a hypothetical prediction")
		}
		return handler.internalError(c, err)
	}
	return c.JSON(window)
}
