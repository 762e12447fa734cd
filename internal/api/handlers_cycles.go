package api

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sestako/eunio-core/internal/services"
)

func (handler *Handler) GetCurrentCycle(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return badRequest(c, err)
	}

	info, found, err := handler.cycles.CurrentCycleInfo(c.Context(), userID, time.Now().In(handler.location))
	if err != nil {
		return handler.internalError(c, err)
	}
	if !found {
		return notFound(c, "no cycle on record")
	}
	return c.JSON(info)
}

type startCycleRequest struct {
	StartDate string `json:"start_date"`
}

func (handler *Handler) StartCycle(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return badRequest(c, err)
	}

	payload := startCycleRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, err)
	}
	startDate, err := time.ParseInLocation("2006-01-02", payload.StartDate, handler.location)
	if err != nil {
		return badRequest(c, err)
	}

	cycle, err := handler.cycles.StartNewCycle(c.Context(), userID, startDate, time.Now().In(handler.location))
	if err != nil {
		if isValidationError(err) {
			return badRequest(c, err)
		}
		return handler.internalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cycle)
}

type completeCycleRequest struct {
	EndDate string `json:"end_date"`
}

func (handler *Handler) CompleteCycle(c *fiber.Ctx) error {
	rawID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || rawID == 0 {
		return badRequest(c, errInvalidCycleID)
	}

	payload := completeCycleRequest{}
	if err := c.BodyParser(&payload); err != nil {
		return badRequest(c, err)
	}
	endDate, err := time.ParseInLocation("2006-01-02", payload.EndDate, handler.location)
	if err != nil {
		return badRequest(c, err)
	}

	cycle, err := handler.cycles.CompleteCycle(c.Context(), uint(rawID), endDate)
	if err != nil {
		if isValidationError(err) {
			return badRequest(c, err)
		}
		if errors.Is(err, services.ErrCycleNotFound) {
			return notFound(c, "cycle not found")
		}
		return handler.internalError(c, err)
	}
	return c.JSON(cycle)
}
