package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/munera-collective/munera-platform/internal/api/handlers"
	"github.com/munera-collective/munera-platform/internal/cart"
	appErrors "github.com/munera-collective/munera-platform/internal/errors"
	"github.com/munera-collective/munera-platform/internal/models"
	"github.com/munera-collective/munera-platform/internal/services/mocks"
	"github.com/munera-collective/munera-platform/internal/testutils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCartHandler_Session(t *testing.T) {
	t.Run("Success - Issues a session when missing", func(t *testing.T) {
		// Arrange
		cartService := mocks.NewCartService(t)
		handler := handlers.NewCartHandler(cartService, time.Hour, false)

		cartService.On("GetCart", mock.Anything, mock.AnythingOfType("string")).Return(cart.View{Items: []cart.Item{}}).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/cart", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.GetCart().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		issued := rr.Header().Get(handlers.CartSessionHeader)
		_, err := uuid.Parse(issued)
		require.NoError(t, err)

		cookies := rr.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, handlers.CartSessionCookie, cookies[0].Name)
		assert.Equal(t, issued, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("Success - Reuses the header session", func(t *testing.T) {
		// Arrange
		cartService := mocks.NewCartService(t)
		handler := handlers.NewCartHandler(cartService, time.Hour, false)
		session := uuid.NewString()

		cartService.On("GetCart", mock.Anything, session).Return(cart.View{Count: 2}).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/cart", nil, nil)
		req.Header.Set(handlers.CartSessionHeader, session)
		rr := httptest.NewRecorder()

		// Act
		handler.GetCart().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Result().Cookies())

		var view cart.View
		decodeData(t, rr.Body.Bytes(), &view)
		assert.Equal(t, 2, view.Count)
	})

	t.Run("Success - Replaces a malformed cookie", func(t *testing.T) {
		// Arrange
		cartService := mocks.NewCartService(t)
		handler := handlers.NewCartHandler(cartService, time.Hour, false)

		cartService.On("GetCart", mock.Anything, mock.MatchedBy(func(s string) bool { return s != "../etc" })).Return(cart.View{}).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/cart", nil, nil)
		req.AddCookie(&http.Cookie{Name: handlers.CartSessionCookie, Value: "../etc"})
		rr := httptest.NewRecorder()

		// Act
		handler.GetCart().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.NotEmpty(t, rr.Header().Get(handlers.CartSessionHeader))
	})
}

func TestCartHandler_AddItem(t *testing.T) {
	productID := uuid.New()
	session := uuid.NewString()

	t.Run("Success - Item added", func(t *testing.T) {
		// Arrange
		cartService := mocks.NewCartService(t)
		handler := handlers.NewCartHandler(cartService, time.Hour, false)

		body := models.AddItemRequest{ProductID: productID, Variant: "M"}
		view := cart.View{
			Items: []cart.Item{{ProductID: productID, Name: "Tee", Price: decimal.RequireFromString("25"), Quantity: 1, Variant: "M"}},
			Total: decimal.RequireFromString("25"),
			Count: 1,
		}
		cartService.On("AddItem", mock.Anything, session, &body).Return(view, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/cart/items", jsonBody(t, body), nil)
		req.Header.Set(handlers.CartSessionHeader, session)
		rr := httptest.NewRecorder()

		// Act
		handler.AddItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var got cart.View
		decodeData(t, rr.Body.Bytes(), &got)
		assert.Equal(t, 1, got.Count)
		assert.True(t, got.Total.Equal(decimal.RequireFromString("25")))
	})

	t.Run("Failure - Missing product", func(t *testing.T) {
		// Arrange
		cartService := mocks.NewCartService(t)
		handler := handlers.NewCartHandler(cartService, time.Hour, false)

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/cart/items", jsonBody(t, map[string]string{"variant": "M"}), nil)
		req.Header.Set(handlers.CartSessionHeader, session)
		rr := httptest.NewRecorder()

		// Act
		handler.AddItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		cartService.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Product not found", func(t *testing.T) {
		// Arrange
		cartService := mocks.NewCartService(t)
		handler := handlers.NewCartHandler(cartService, time.Hour, false)

		body := models.AddItemRequest{ProductID: productID}
		cartService.On("AddItem", mock.Anything, session, &body).Return(cart.View{}, appErrors.NotFoundError("Product not found")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/api/v1/cart/items", jsonBody(t, body), nil)
		req.Header.Set(handlers.CartSessionHeader, session)
		rr := httptest.NewRecorder()

		// Act
		handler.AddItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestCartHandler_UpdateRemoveClear(t *testing.T) {
	productID := uuid.New()
	session := uuid.NewString()

	t.Run("Success - Quantity changed", func(t *testing.T) {
		// Arrange
		cartService := mocks.NewCartService(t)
		handler := handlers.NewCartHandler(cartService, time.Hour, false)

		body := models.UpdateQuantityRequest{ProductID: productID, Variant: "M", Delta: -1}
		cartService.On("UpdateQuantity", mock.Anything, session, &body).Return(cart.View{Count: 1}, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodPatch, "/api/v1/cart/items", jsonBody(t, body), nil)
		req.Header.Set(handlers.CartSessionHeader, session)
		rr := httptest.NewRecorder()

		// Act
		handler.UpdateQuantity().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Zero delta", func(t *testing.T) {
		// Arrange
		cartService := mocks.NewCartService(t)
		handler := handlers.NewCartHandler(cartService, time.Hour, false)

		body := models.UpdateQuantityRequest{ProductID: productID, Delta: 0}

		req := testutils.CreateTestRequestWithoutContext(http.MethodPatch, "/api/v1/cart/items", jsonBody(t, body), nil)
		req.Header.Set(handlers.CartSessionHeader, session)
		rr := httptest.NewRecorder()

		// Act
		handler.UpdateQuantity().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Success - Line removed", func(t *testing.T) {
		// Arrange
		cartService := mocks.NewCartService(t)
		handler := handlers.NewCartHandler(cartService, time.Hour, false)

		body := models.RemoveItemRequest{ProductID: productID, Variant: "M"}
		cartService.On("RemoveItem", mock.Anything, session, &body).Return(cart.View{}, nil).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodDelete, "/api/v1/cart/items", jsonBody(t, body), nil)
		req.Header.Set(handlers.CartSessionHeader, session)
		rr := httptest.NewRecorder()

		// Act
		handler.RemoveItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Clear cart storage error", func(t *testing.T) {
		// Arrange
		cartService := mocks.NewCartService(t)
		handler := handlers.NewCartHandler(cartService, time.Hour, false)

		cartService.On("ClearCart", mock.Anything, session).Return(cart.View{}, appErrors.InternalError("Failed to save cart")).Once()

		req := testutils.CreateTestRequestWithoutContext(http.MethodDelete, "/api/v1/cart", nil, nil)
		req.Header.Set(handlers.CartSessionHeader, session)
		rr := httptest.NewRecorder()

		// Act
		handler.ClearCart().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
