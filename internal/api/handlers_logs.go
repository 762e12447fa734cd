package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sestako/eunio-core/internal/services"
)

var (
	errInvalidCycleID   = errors.New("invalid cycle id")
	errInvalidUserID    = errors.New("invalid user id")
	errInvalidInsightID = errors.New("invalid insight id")
	errMissingDateRange = errors.New("from and to query parameters are required")
)

func (handler *Handler) GetLogs(c *fiber.Ctx) error {
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

	logs, err := handler.days.FetchLogsInRange(c.Context(), userID, from, to)
	if err != nil {
		if isValidationError(err) {
			return badRequest(c, err)
		}
		return handler.internalError(c, err)
	}
	return c.JSON(logs)
}

type upsertLogRequest struct {
	Flow            string   `json:"flow"`
	Symptoms        []string `json:"symptoms"`
	Mood            string   `json:"mood"`
	Temperature     *float64 `json:"temperature"`
	TemperatureUnit string   `json:"temperature_unit"`
	CervicalMucus   string   `json:"cervical_mucus"`
	OvulationTest   string   `json:"ovulation_test"`
	Notes           string   `json:"notes"`
}

func (handler *Handler) UpsertLog(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return badRequest(c, err)
	}
	day, err := parseDateParam(c, "date", handler.location)
	if err != nil {
		return badRequest(c, err)
	}

	payload := upsertLogRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, err)
	}

	entry, created, err := handler.days.UpsertDayEntry(c.Context(), userID, day, services.DayEntryInput{
		Flow:            payload.Flow,
		Symptoms:        payload.Symptoms,
		Mood:            payload.Mood,
		Temperature:     payload.Temperature,
		TemperatureUnit: payload.TemperatureUnit,
		CervicalMucus:   payload.CervicalMucus,
		OvulationTest:   payload.OvulationTest,
		Notes:           payload.Notes,
	})
	if err != nil {
		if isValidationError(err) {
			return badRequest(c, err)
		}
		return handler.internalError(c, err)
	}

	status := fiber.StatusOK
	if created {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(entry)
}
