package handler

import (
	"net/http"

	"multitoko-be/internal/auth"
	"multitoko-be/internal/discount"
	"multitoko-be/internal/utils"
)

// ownerStore is the store whose OWNER may manage d; GLOBAL discounts need a
// global OWNER.
func (h *Handler) ownerStore(r *http.Request, d *discount.Discount) (string, error) {
	switch {
	case d.StoreID != nil:
		return *d.StoreID, nil
	case d.ProductID != nil && *d.ProductID != "":
		p, err := h.Products.GetGraph(r.Context(), *d.ProductID)
		if err != nil {
			return "", err
		}
		return p.StoreID, nil
	}
	return "", nil
}

func (h *Handler) CreateDiscount(w http.ResponseWriter, r *http.Request) {
	var d discount.Discount
	if err := decode(w, r, &d); err != nil {
		writeError(w, r, err)
		return
	}
	if err := d.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	storeID, err := h.ownerStore(r, &d)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !authorize(w, r, storeID, auth.RoleOwner) {
		return
	}

	created, err := h.Discounts.Create(r.Context(), d)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) ListDiscounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	scope := discount.Scope(q.Get("scope"))
	targetID := q.Get("target_id")

	storeID := ""
	if scope == discount.ScopeStore {
		storeID = targetID
	}
	if !authorize(w, r, storeID, auth.RoleViewer) {
		return
	}

	list, err := h.Discounts.List(r.Context(), scope, targetID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, list, http.StatusOK)
}

func (h *Handler) DeleteDiscount(w http.ResponseWriter, r *http.Request) {
	if err := h.Discounts.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
