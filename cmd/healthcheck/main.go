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
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/localnerve/campus-market/internal/config"
	"github.com/localnerve/campus-market/internal/server"
	"github.com/localnerve/campus-market/internal/services"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*cfg.StoreTimeout)
	defer cancel()

	// Connect the same store stack the server uses
	st, err := server.OpenStore(ctx, cfg, zap.NewNop())
	if err != nil {
		log.Fatalf("Failed to open listing store: %v", err)
	}
	defer st.Close(context.Background())

	// Perform health check
	result := services.HealthCheck(ctx, cfg, st, st.Status(), zap.NewNop())

	// Output result as JSON
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}

	fmt.Println(string(output))

	// Serving bundled listings is degraded, not down
	if result.Status == "unhealthy" {
		os.Exit(1)
	}
	os.Exit(0)
}
