// main.go
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

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/localnerve/campus-market/internal/config"
	"github.com/localnerve/campus-market/internal/logger"
	"github.com/localnerve/campus-market/internal/server"
	"github.com/localnerve/campus-market/internal/services"
	"go.uber.org/zap"
)

// @title Campus Market API
// @version 1.0.0
// @description Student marketplace listings, browsing and user profiles
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/localnerve/campus-market
// @contact.email info@localnerve.com

// @license.name AGPL-3.0
// @license.url https://www.gnu.org/licenses/agpl-3.0.html

// @host localhost:5001
// @BasePath /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name cookie_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog := logger.InitLogger(cfg)
	defer zlog.Sync()

	// Persistent store, cache and bundled fallback
	st, err := server.OpenStore(context.Background(), cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to open listing store", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := st.Close(ctx); err != nil {
			zlog.Warn("Failed to close listing store", zap.Error(err))
		}
	}()

	auth := services.NewAuthenticator(cfg, "http://localhost:"+cfg.Port)
	if len(auth) == 0 {
		zlog.Warn("No identity provider configured, write routes will reject every request")
	}

	app := server.New(cfg, zlog, st, auth)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		zlog.Info("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	zlog.Info("Starting server",
		zap.String("port", cfg.Port),
		zap.String("store", st.Name()),
		zap.Bool("usingFallback", st.Status().UsingFallback))
	if err := app.Listen(":" + cfg.Port); err != nil {
		zlog.Fatal("Failed to start server", zap.Error(err))
	}

	zlog.Info("Server stopped")
}
