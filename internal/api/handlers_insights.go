package api

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sestako/eunio-core/internal/models"
	"github.com/sestako/eunio-core/internal/services"
)

type InsightReader interface {
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.Insight, error)
	MarkRead(ctx context.Context, insightID string) error
}

// InsightEndpoints bundles the read/toggle surface with the manual run
// trigger used for diagnostics.
type InsightEndpoints struct {
	reader    InsightReader
	engine    *services.InsightEngine
	scheduler *services.InsightScheduler
}

func NewInsightEndpoints(reader InsightReader, engine *services.InsightEngine, scheduler *services.InsightScheduler) *InsightEndpoints {
	return &InsightEndpoints{
		reader:    reader,
		engine:    engine,
		scheduler: scheduler,
	}
}

func (handler *Handler) GetInsights(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return badRequest(c, err)
	}

	limit := c.QueryInt("limit", 50)
	insights, err := handler.insights.reader.ListByUser(c.Context(), userID, limit)
	if err != nil {
		return handler.internalError(c, err)
	}
	return c.JSON(insights)
}

func (handler *Handler) MarkInsightRead(c *fiber.Ctx) error {
	insightID := strings.TrimSpace(c.Params("id"))
	if insightID == "" {
		return badRequest(c, errInvalidInsightID)
	}
	if err := handler.insights.reader.MarkRead(c.Context(), insightID); err != nil {
		return handler.internalError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RunInsightGeneration triggers insight generation on demand: for one
// user when user_id is given, otherwise for the whole population. The
// scheduled daily run uses the same pipeline.
func (handler *Handler) RunInsightGeneration(c *fiber.Ctx) error {
	now := time.Now().In(handler.location)

	if raw := c.Query("user_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || parsed == 0 {
			return badRequest(c, errInvalidUserID)
		}
		written, err := handler.insights.engine.RunForUser(c.Context(), uint(parsed), now)
		if err != nil {
			return handler.internalError(c, err)
		}
		return c.JSON(fiber.Map{"insights_written": written})
	}

	report, err := handler.insights.scheduler.RunOnce(c.Context())
	if err != nil {
		return handler.internalError(c, err)
	}
	return c.JSON(report)
}
