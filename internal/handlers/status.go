package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/campus-market/internal/config"
	"github.com/localnerve/campus-market/internal/logger"
	"github.com/localnerve/campus-market/internal/services"
	"github.com/localnerve/campus-market/internal/store"
	"github.com/localnerve/campus-market/internal/utils"
)

// Banner is the body of GET /
const Banner = "Campus Market Server is running"

// StatusHandler handles the service status routes
type StatusHandler struct {
	Store   *store.FailoverStore
	Config  *config.Config
	Timeout time.Duration
}

// Root handles GET /
// @Summary Service banner
// @Tags Status
// @Produce plain
// @Success 200 {string} string
// @Router / [get]
func (h *StatusHandler) Root(c *fiber.Ctx) error {
	return c.SendString(Banner)
}

// DBStatus handles GET /db-status
// @Summary Listing store status
// @Description Reports whether a persistent store is connected and whether reads are served from the bundled listings
// @Tags Status
// @Produce json
// @Success 200 {object} store.Status
// @Router /db-status [get]
func (h *StatusHandler) DBStatus(c *fiber.Ctx) error {
	return utils.SuccessResponse(c, h.Store.Status(), fiber.StatusOK)
}

// Health handles GET /health
// @Summary Health check
// @Tags Status
// @Produce json
// @Success 200 {object} services.HealthCheckResult
// @Failure 503 {object} services.HealthCheckResult
// @Router /health [get]
func (h *StatusHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := storeContext(c, h.Timeout)
	defer cancel()

	result := services.HealthCheck(ctx, h.Config, h.Store, h.Store.Status(), logger.FromContext(c))

	status := fiber.StatusOK
	if result.Status == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}
	return utils.SuccessResponse(c, result, status)
}
