package handler

import (
	"net/http"

	"multitoko-be/internal/cart"
	"multitoko-be/internal/utils"
)

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	r, session := cartSession(w, r, h.CartTTL)

	c, err := h.Cart.Get(r.Context(), session)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, c, http.StatusOK)
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	r, session := cartSession(w, r, h.CartTTL)

	var in cart.AddItemInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.Cart.AddItem(r.Context(), session, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, c, http.StatusOK)
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) SetCartQuantity(w http.ResponseWriter, r *http.Request) {
	r, session := cartSession(w, r, h.CartTTL)

	var req setQuantityRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.Cart.SetQuantity(r.Context(), session, r.PathValue("storeID"), r.PathValue("itemID"), req.Quantity)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, c, http.StatusOK)
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	r, session := cartSession(w, r, h.CartTTL)

	c, err := h.Cart.RemoveItem(r.Context(), session, r.PathValue("storeID"), r.PathValue("itemID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, c, http.StatusOK)
}

func (h *Handler) ClearCartStore(w http.ResponseWriter, r *http.Request) {
	r, session := cartSession(w, r, h.CartTTL)

	c, err := h.Cart.ClearStore(r.Context(), session, r.PathValue("storeID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, c, http.StatusOK)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	r, session := cartSession(w, r, h.CartTTL)

	if err := h.Cart.Clear(r.Context(), session); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	r, session := cartSession(w, r, h.CartTTL)

	var customer cart.Customer
	if err := decode(w, r, &customer); err != nil {
		writeError(w, r, err)
		return
	}

	order, err := h.Cart.Checkout(r.Context(), session, r.PathValue("storeID"), customer)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, order, http.StatusCreated)
}
