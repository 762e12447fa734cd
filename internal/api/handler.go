package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sestako/eunio-core/internal/logging"
	"github.com/sestako/eunio-core/internal/services"
)

// Handler is the thin transport layer over the analytic services. It
// only decodes parameters and encodes results; every decision lives in
// the services package.
type Handler struct {
	days      *services.DayService
	cycles    *services.CycleService
	ovulation *services.OvulationService
	fertility *services.FertilityService
	insights  *InsightEndpoints
	location  *time.Location
	logger    *logging.Logger
}

func NewHandler(
	days *services.DayService,
	cycles *services.CycleService,
	ovulation *services.OvulationService,
	fertility *services.FertilityService,
	insights *InsightEndpoints,
	location *time.Location,
	logger *logging.Logger,
) *Handler {
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{
		days:      days,
		cycles:    cycles,
		ovulation: ovulation,
		fertility: fertility,
		insights:  insights,
		location:  location,
		logger:    logger,
	}
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func parseUserID(c *fiber.Ctx) (uint, error) {
	raw, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || raw == 0 {
		return 0, errors.New("invalid user id")
	}
	return uint(raw), nil
}

func parseDateParam(c *fiber.Ctx, name string, location *time.Location) (time.Time, error) {
	raw := c.Params(name)
	if raw == "" {
		raw = c.Query(name)
	}
	parsed, err := time.ParseInLocation("2006-01-02", raw, location)
	if err != nil {
		return time.Time{}, errors.New("invalid date, expected YYYY-MM-DD")
	}
	return parsed, nil
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": message})
}

func (handler *Handler) internalError(c *fiber.Ctx, err error) error {
	handler.logger.Error("request failed", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}

// isValidationError distinguishes caller mistakes from storage failures
// so they map onto 400 versus 500.
func isValidationError(err error) bool {
	switch {
	case errors.Is(err, services.ErrInvalidDateRange),
		errors.Is(err, services.ErrStartDateInFuture),
		errors.Is(err, services.ErrEndBeforeStart),
		errors.Is(err, services.ErrImplausibleCycleLength),
		errors.Is(err, services.ErrInvalidFlow),
		errors.Is(err, services.ErrInvalidMucusCategory),
		errors.Is(err, services.ErrInvalidOvulationTest),
		errors.Is(err, services.ErrInvalidTemperature):
		return true
	default:
		return false
	}
}
