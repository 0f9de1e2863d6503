package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/campus-market/internal/middleware"
	"github.com/localnerve/campus-market/internal/models"
	"github.com/localnerve/campus-market/internal/services"
	"github.com/localnerve/campus-market/internal/utils"
)

// UserHandler handles user profile routes
type UserHandler struct {
	Users   *services.UserService
	Timeout time.Duration
}

// CreateUser handles POST /users
// @Summary Register a user
// @Description Registering an existing email changes nothing and reports "user already exists"
// @Tags Users
// @Accept json
// @Produce json
// @Param body body models.User true "User"
// @Success 200 {object} utils.CreatedResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /users [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		return bodyError(c, "createUser")
	}

	ctx, cancel := storeContext(c, h.Timeout)
	defer cancel()

	id, created, err := h.Users.Register(ctx, &user)
	if err != nil {
		return respondError(c, err, "createUser")
	}
	if !created {
		return utils.MessageResponse(c, "user already exists")
	}
	return utils.CreatedResponse(c, id)
}

// GetUser handles GET /users/:email
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} models.User
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /users/{email} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	ctx, cancel := storeContext(c, h.Timeout)
	defer cancel()

	user, err := h.Users.Get(ctx, c.Params("email"))
	if err != nil {
		return respondError(c, err, "getUser")
	}
	if user == nil {
		return utils.EmptyResponse(c)
	}
	return utils.SuccessResponse(c, user, fiber.StatusOK)
}

// GetUserProfile handles GET /user-by-email/:email
// @Summary Get a public user profile
// @Tags Users
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} models.PublicProfile
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /user-by-email/{email} [get]
func (h *UserHandler) GetUserProfile(c *fiber.Ctx) error {
	ctx, cancel := storeContext(c, h.Timeout)
	defer cancel()

	profile, err := h.Users.Profile(ctx, c.Params("email"))
	if err != nil {
		return respondError(c, err, "getUserProfile")
	}
	if profile == nil {
		return utils.EmptyResponse(c)
	}
	return utils.SuccessResponse(c, profile, fiber.StatusOK)
}

// UpdateUser handles PUT /users/:email
// @Summary Create or update the caller's profile
// @Tags Users
// @Accept json
// @Produce json
// @Param email path string true "User email"
// @Param body body models.UserUpdate true "Profile fields"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /users/{email} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	var update models.UserUpdate
	if err := c.BodyParser(&update); err != nil {
		return bodyError(c, "updateUser")
	}

	ctx, cancel := storeContext(c, h.Timeout)
	defer cancel()

	affected, err := h.Users.Update(ctx, middleware.Principal(c), c.Params("email"), &update)
	if err != nil {
		return respondError(c, err, "updateUser")
	}
	return utils.MutationSuccessResponse(c, affected)
}

// DeleteUser handles DELETE /users/:email
// @Summary Delete the caller's user record
// @Description Listings of the user are kept
// @Tags Users
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /users/{email} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	ctx, cancel := storeContext(c, h.Timeout)
	defer cancel()

	affected, err := h.Users.Delete(ctx, middleware.Principal(c), c.Params("email"))
	if err != nil {
		return respondError(c, err, "deleteUser")
	}
	return utils.MutationSuccessResponse(c, affected)
}
