package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/munera-collective/munera-platform/internal/api/middleware"
	"github.com/munera-collective/munera-platform/internal/errors"
	"github.com/munera-collective/munera-platform/internal/models"
	service "github.com/munera-collective/munera-platform/internal/services"
	"github.com/munera-collective/munera-platform/internal/utils"
	"github.com/munera-collective/munera-platform/internal/utils/response"
)

const defaultProductPageSize = 12

type ProductHandler struct {
	productService service.ProductService
	validator      *validator.Validate
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService, validator: validator.New()}
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	logger := middleware.LoggerFromContext(r.Context())

	page, pageSize := utils.ParsePagination(r, defaultProductPageSize)

	products, total, err := h.productService.ListProducts(r.Context(), activeOnly, page, pageSize)
	if err != nil {
		logger.Error("Failed to list products", slog.String("error", err.Error()))
		response.Error(w, err)
		return
	}

	response.Success(w, http.StatusOK, models.PaginatedResponse{
		Data:     products,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// ListProducts godoc
//	@Summary		List products in the shop
//	@Tags			Products
//	@Produce		json
//	@Param			page		query		int													false	"Page number (default: 1)"				minimum(1)
//	@Param			pageSize	query		int													false	"Items per page (default: 12, max: 100)"	minimum(1)	maximum(100)
//	@Success		200			{object}	models.PaginatedResponse{Data=[]models.Product}	"Active products"
//	@Router			/products [get]
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.list(w, r, true)
	}
}

// ListAllProducts godoc
//	@Summary		List every product
//	@Tags			Admin
//	@Produce		json
//	@Param			page		query		int													false	"Page number (default: 1)"
//	@Param			pageSize	query		int													false	"Items per page (default: 12, max: 100)"
//	@Success		200			{object}	models.PaginatedResponse{Data=[]models.Product}	"Products"
//	@Security		BearerAuth
//	@Router			/admin/products [get]
func (h *ProductHandler) ListAllProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.list(w, r, false)
	}
}

// GetProduct godoc
//	@Summary		Get a product
//	@Tags			Products
//	@Produce		json
//	@Param			id	path		string					true	"Product ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Product			"Product"
//	@Failure		404	{object}	response.ErrorResponse	"Product not found"
//	@Router			/products/{id} [get]
func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		product, err := h.productService.GetProductByID(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		if !product.Active {
			response.Error(w, errors.NotFoundError("Product not found"))
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// CreateProduct godoc
//	@Summary		Create a product
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			product	body		models.CreateProductRequest	true	"Product"
//	@Success		201		{object}	models.Product				"Created"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Security		BearerAuth
//	@Router			/admin/products [post]
func (h *ProductHandler) CreateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid create product input")
			return
		}

		product, err := h.productService.CreateProduct(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create product", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger.Info("Product created", slog.String("productId", product.ID.String()))
		response.Success(w, http.StatusCreated, product)
	}
}

// UpdateProduct godoc
//	@Summary		Update a product
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Product ID (UUID)"	Format(uuid)
//	@Param			product	body		models.UpdateProductRequest	true	"Changed fields"
//	@Success		200		{object}	models.Product				"Updated"
//	@Failure		404		{object}	response.ErrorResponse		"Product not found"
//	@Security		BearerAuth
//	@Router			/admin/products/{id} [put]
func (h *ProductHandler) UpdateProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		var req models.UpdateProductRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		product, err := h.productService.UpdateProduct(r.Context(), id, &req)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// ToggleActive godoc
//	@Summary		Show or hide a product in the shop
//	@Tags			Admin
//	@Produce		json
//	@Param			id	path		string			true	"Product ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Product	"Updated"
//	@Security		BearerAuth
//	@Router			/admin/products/{id}/toggle [post]
func (h *ProductHandler) ToggleActive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		product, err := h.productService.ToggleActive(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}

// DeleteProduct godoc
//	@Summary		Delete a product
//	@Tags			Admin
//	@Param			id	path	string	true	"Product ID (UUID)"	Format(uuid)
//	@Success		204
//	@Security		BearerAuth
//	@Router			/admin/products/{id} [delete]
func (h *ProductHandler) DeleteProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		if err := h.productService.DeleteProduct(r.Context(), id); err != nil {
			response.Error(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// UploadImage godoc
//	@Summary		Add a product image
//	@Tags			Admin
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		string					true	"Product ID (UUID)"	Format(uuid)
//	@Param			file	formData	file					true	"Image"
//	@Success		200		{object}	models.Product			"Updated"
//	@Failure		415		{object}	response.ErrorResponse	"Not an image"
//	@Security		BearerAuth
//	@Router			/admin/products/{id}/images [post]
func (h *ProductHandler) UploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		upload, done, err := readUpload(w, r, "file")
		if err != nil {
			response.Error(w, err)
			return
		}
		defer done()

		product, err := h.productService.UploadImage(r.Context(), id, upload)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}
