// common.go
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

package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/campus-market/internal/logger"
	"github.com/localnerve/campus-market/internal/types"
	"github.com/localnerve/campus-market/internal/utils"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single store call when a handler has none configured
const DefaultTimeout = 5 * time.Second

// storeContext derives the context for a store call from the request context
func storeContext(c *fiber.Ctx, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(c.UserContext(), timeout)
}

// respondError maps the error taxonomy onto HTTP responses
func respondError(c *fiber.Ctx, err error, operation string) error {
	switch {
	case errors.Is(err, types.ErrValidation):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, operation)
	case errors.Is(err, types.ErrNotFound):
		return utils.ErrorResponse(c, "Invalid id", fiber.StatusBadRequest, operation)
	case errors.Is(err, types.ErrUnauthorized):
		return utils.ErrorResponse(c, "Authentication required", fiber.StatusUnauthorized, operation)
	case errors.Is(err, types.ErrForbidden):
		return utils.ErrorResponse(c, err.Error(), fiber.StatusForbidden, operation)
	case errors.Is(err, types.ErrStoreUnavailable), errors.Is(err, context.DeadlineExceeded):
		logger.FromContext(c).Warn("Store unavailable", zap.String("operation", operation), zap.Error(err))
		return utils.ErrorResponse(c, "Store unavailable", fiber.StatusServiceUnavailable, operation)
	}

	logger.FromContext(c).Error("Request failed", zap.String("operation", operation), zap.Error(err))
	return utils.ErrorResponse(c, "Server error", fiber.StatusInternalServerError, operation)
}

// bodyError reports a request body that could not be parsed
func bodyError(c *fiber.Ctx, operation string) error {
	return utils.ErrorResponse(c, "Invalid request body", fiber.StatusBadRequest, operation)
}

// ErrorHandler is the fiber error handler for errors that escape a route
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Server error"
	errorType := "internal"

	var e *fiber.Error
	var ce *types.CustomError
	switch {
	case errors.As(err, &ce):
		code = ce.Code
		message = ce.Message
		errorType = ce.Type
	case errors.As(err, &e):
		code = e.Code
		message = e.Message
		errorType = "fiber"
	}

	log := logger.FromContext(c)
	if code >= fiber.StatusInternalServerError {
		log.Error("Unhandled error",
			zap.Int("status", code),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	} else {
		log.Debug("Request rejected",
			zap.Int("status", code),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	return utils.ErrorResponse(c, message, code, errorType)
}

// NotFound answers requests that matched no route
func NotFound(c *fiber.Ctx) error {
	return utils.NotFoundResponse(c, "Resource not found")
}
