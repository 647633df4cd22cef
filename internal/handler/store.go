package handler

import (
	"net/http"

	"multitoko-be/internal/auth"
	"multitoko-be/internal/middleware"
	"multitoko-be/internal/store"
	"multitoko-be/internal/utils"
)

// GetStore serves the storefront profile. Inactive stores are only visible
// to their staff.
func (h *Handler) GetStore(w http.ResponseWriter, r *http.Request) {
	st, err := h.Stores.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !st.Active && !middleware.HasRole(r.Context(), st.ID, auth.RoleViewer) {
		writeError(w, r, store.ErrStoreNotFound)
		return
	}
	utils.WriteJSON(w, st, http.StatusOK)
}

func (h *Handler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var in store.NewStoreInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	st, err := h.Stores.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, st, http.StatusCreated)
}

func (h *Handler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	var in store.UpdateStoreInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	in.ID = r.PathValue("storeID")

	st, err := h.Stores.Update(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, st, http.StatusOK)
}

func (h *Handler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	if err := h.Stores.Delete(r.Context(), r.PathValue("storeID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
