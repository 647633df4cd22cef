// Package handler exposes the catalog, discount and cart services as a JSON
// API on net/http.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"multitoko-be/internal/apperror"
	"multitoko-be/internal/auth"
	"multitoko-be/internal/cart"
	"multitoko-be/internal/category"
	"multitoko-be/internal/discount"
	"multitoko-be/internal/logger"
	"multitoko-be/internal/middleware"
	"multitoko-be/internal/product"
	"multitoko-be/internal/store"
	"multitoko-be/internal/utils"

	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	Stores     store.Service
	Categories category.Service
	Products   product.Service
	Discounts  discount.Service
	Cart       cart.Service
	// CartTTL bounds the lifetime of an issued cart session cookie.
	CartTTL time.Duration
}

// Register mounts every route on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	owner := middleware.RequireRole(auth.RoleOwner)
	editor := middleware.RequireRole(auth.RoleEditor)

	mux.HandleFunc("GET /health", Health)

	mux.HandleFunc("GET /stores/{slug}", h.GetStore)
	mux.Handle("POST /stores", owner(http.HandlerFunc(h.CreateStore)))
	mux.Handle("PATCH /stores/{storeID}", owner(http.HandlerFunc(h.UpdateStore)))
	mux.Handle("DELETE /stores/{storeID}", owner(http.HandlerFunc(h.DeleteStore)))

	mux.HandleFunc("GET /categories", h.ListCategories)
	mux.Handle("POST /categories", editor(http.HandlerFunc(h.CreateCategory)))

	mux.HandleFunc("GET /products/{slug}", h.GetProduct)
	mux.HandleFunc("GET /products/{slug}/quote", h.QuoteProduct)
	mux.HandleFunc("POST /products", h.CreateProduct)
	mux.HandleFunc("PATCH /products/{productID}", h.RenameProduct)
	mux.HandleFunc("PATCH /products/{productID}/variants/{variantID}", h.UpdateVariant)

	mux.HandleFunc("GET /discounts", h.ListDiscounts)
	mux.HandleFunc("POST /discounts", h.CreateDiscount)
	mux.Handle("DELETE /discounts/{id}", owner(http.HandlerFunc(h.DeleteDiscount)))

	mux.HandleFunc("GET /cart", h.GetCart)
	mux.HandleFunc("DELETE /cart", h.ClearCart)
	mux.HandleFunc("POST /cart/items", h.AddCartItem)
	mux.HandleFunc("PATCH /cart/stores/{storeID}/items/{itemID}", h.SetCartQuantity)
	mux.HandleFunc("DELETE /cart/stores/{storeID}/items/{itemID}", h.RemoveCartItem)
	mux.HandleFunc("DELETE /cart/stores/{storeID}", h.ClearCartStore)
	mux.HandleFunc("POST /cart/stores/{storeID}/checkout", h.Checkout)
}

func Health(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, map[string]string{"status": "OK"}, http.StatusOK)
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps an error kind to its HTTP status and a stable code clients
// can branch on.
func statusFor(err error) (int, string) {
	switch apperror.Kind(err) {
	case apperror.ErrValidation:
		return http.StatusBadRequest, "VALIDATION"
	case apperror.ErrIncompleteSelection:
		return http.StatusUnprocessableEntity, "INCOMPLETE_SELECTION"
	case apperror.ErrNotFound:
		return http.StatusNotFound, "NOT_FOUND"
	case apperror.ErrConflict:
		return http.StatusConflict, "CONFLICT"
	case apperror.ErrOutOfStock:
		return http.StatusConflict, "OUT_OF_STOCK"
	}
	return http.StatusInternalServerError, "INTERNAL"
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, kind := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		logger.FromCtx(r.Context()).Error("request failed",
			zap.String("layer", "handler"),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		msg = "internal server error"
	}
	utils.WriteJSON(w, errorBody{Error: msg, Code: kind}, code)
}

func writeForbidden(w http.ResponseWriter) {
	utils.WriteJSON(w, errorBody{Error: "insufficient role", Code: "FORBIDDEN"}, http.StatusForbidden)
}

var errBadJSON = apperror.Validation("invalid JSON body")

func decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperror.Validation("request body too large")
		}
		return errBadJSON
	}
	return nil
}
