package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/campus-market/internal/middleware"
	"github.com/localnerve/campus-market/internal/models"
	"github.com/localnerve/campus-market/internal/query"
	"github.com/localnerve/campus-market/internal/services"
	"github.com/localnerve/campus-market/internal/utils"
)

// ProductHandler handles listing routes
type ProductHandler struct {
	Listings *services.ListingService
	Timeout  time.Duration
}

// viewRequest is the body the web client sends with a view
type viewRequest struct {
	UserEmail string `json:"userEmail"`
}

func listingsOrEmpty(listings []models.Listing) []models.Listing {
	if listings == nil {
		return []models.Listing{}
	}
	return listings
}

// GetProducts handles GET /products
// @Summary Browse listings
// @Description Filter by category, search titles and sort. "All" or an absent category means every category.
// @Tags Products
// @Produce json
// @Param category query string false "Category or All"
// @Param search query string false "Case-insensitive title substring"
// @Param sort query string false "newest, price-low or price-high"
// @Param limit query int false "Maximum number of listings"
// @Success 200 {array} models.Listing
// @Failure 503 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /products [get]
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	params := query.Params{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Limit:    c.QueryInt("limit", 0),
	}

	ctx, cancel := storeContext(c, h.Timeout)
	defer cancel()

	listings, err := h.Listings.List(ctx, params)
	if err != nil {
		return respondError(c, err, "getProducts")
	}
	return utils.SuccessResponse(c, listingsOrEmpty(listings), fiber.StatusOK)
}

// GetProduct handles GET /products/:id
// @Summary Get a listing
// @Description Returns the listing, or an empty object when no listing has the id
// @Tags Products
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} models.Listing
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	ctx, cancel := storeContext(c, h.Timeout)
	defer cancel()

	listing, err := h.Listings.Get(ctx, c.Params("id"))
	if err != nil {
		return respondError(c, err, "getProduct")
	}
	if listing == nil {
		return utils.EmptyResponse(c)
	}
	return utils.SuccessResponse(c, listing, fiber.StatusOK)
}

// GetSellerProducts handles GET /my-products/:email
// @Summary List a seller's listings
// @Tags Products
// @Produce json
// @Param email path string true "Seller email"
// @Success 200 {array} models.Listing
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /my-products/{email} [get]
func (h *ProductHandler) GetSellerProducts(c *fiber.Ctx) error {
	ctx, cancel := storeContext(c, h.Timeout)
	defer cancel()

	listings, err := h.Listings.ListBySeller(ctx, c.Params("email"))
	if err != nil {
		return respondError(c, err, "getSellerProducts")
	}
	return utils.SuccessResponse(c, listingsOrEmpty(listings), fiber.StatusOK)
}

// CreateProduct handles POST /products
// @Summary Create a listing
// @Description Views start at zero and the creation time is assigned by the server. The seller email is the caller's identity.
// @Tags Products
// @Accept json
// @Produce json
// @Param body body services.ListingInput true "Listing"
// @Success 200 {object} utils.CreatedResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /products [post]
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var in services.ListingInput
	if err := c.BodyParser(&in); err != nil {
		return bodyError(c, "createProduct")
	}

	ctx, cancel := storeContext(c, h.Timeout)
	defer cancel()

	id, err := h.Listings.Create(ctx, middleware.Principal(c), &in)
	if err != nil {
		return respondError(c, err, "createProduct")
	}
	return utils.CreatedResponse(c, id)
}

// UpdateProduct handles PUT /products/:id
// @Summary Update a listing
// @Description Overwrites the editable fields of a listing owned by the caller. A missing listing affects no rows.
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Param body body models.ListingUpdate true "Editable fields"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	var update models.ListingUpdate
	if err := c.BodyParser(&update); err != nil {
		return bodyError(c, "updateProduct")
	}

	ctx, cancel := storeContext(c, h.Timeout)
	defer cancel()

	affected, err := h.Listings.Update(ctx, middleware.Principal(c), c.Params("id"), &update)
	if err != nil {
		return respondError(c, err, "updateProduct")
	}
	return utils.MutationSuccessResponse(c, affected)
}

// DeleteProduct handles DELETE /products/:id
// @Summary Delete a listing
// @Tags Products
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 401 {object} utils.ErrorResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	ctx, cancel := storeContext(c, h.Timeout)
	defer cancel()

	affected, err := h.Listings.Delete(ctx, middleware.Principal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, "deleteProduct")
	}
	return utils.MutationSuccessResponse(c, affected)
}

// ViewProduct handles POST /products/:id/view
// @Summary Count a view
// @Description Adds one view unless the viewer is the seller. The viewer is the caller's identity, or userEmail from the body for anonymous callers.
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Listing ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 503 {object} utils.ErrorResponseStruct
// @Router /products/{id}/view [post]
func (h *ProductHandler) ViewProduct(c *fiber.Ctx) error {
	viewer := middleware.Principal(c)
	if viewer == "" && len(c.Body()) > 0 {
		var body viewRequest
		if err := c.BodyParser(&body); err != nil {
			return bodyError(c, "viewProduct")
		}
		viewer = body.UserEmail
	}

	ctx, cancel := storeContext(c, h.Timeout)
	defer cancel()

	affected, err := h.Listings.RecordView(ctx, viewer, c.Params("id"))
	if err != nil {
		return respondError(c, err, "viewProduct")
	}
	return utils.MutationSuccessResponse(c, affected)
}
