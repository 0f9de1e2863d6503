// app.go
//
// A student marketplace backend for listings, browsing and user profiles
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of campus-market.
// campus-market is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// campus-market is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with campus-market.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package server

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/localnerve/campus-market/internal/config"
	"github.com/localnerve/campus-market/internal/handlers"
	"github.com/localnerve/campus-market/internal/middleware"
	"github.com/localnerve/campus-market/internal/services"
	"github.com/localnerve/campus-market/internal/store"
	"go.uber.org/zap"

	_ "github.com/localnerve/campus-market/docs/api" // Swagger docs
)

// New creates the fiber app with middleware and every route mounted.
// fiberprometheus registers its collectors globally, so New is called once per process.
func New(cfg *config.Config, log *zap.Logger, s *store.FailoverStore, auth services.Authenticator) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		AppName:      "campus-market",
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID(log))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("campus_market")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	handlers.SetupRoutes(app, handlers.Routes{
		Products: &handlers.ProductHandler{Listings: services.NewListingService(s), Timeout: cfg.StoreTimeout},
		Users:    &handlers.UserHandler{Users: services.NewUserService(s), Timeout: cfg.StoreTimeout},
		Status:   &handlers.StatusHandler{Store: s, Config: cfg, Timeout: cfg.StoreTimeout},
		Auth:     auth,
	})

	// 404 handler
	app.Use(handlers.NotFound)

	return app
}
