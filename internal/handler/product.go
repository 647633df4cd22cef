package handler

import (
	"net/http"
	"strings"

	"multitoko-be/internal/apperror"
	"multitoko-be/internal/auth"
	"multitoko-be/internal/product"
	"multitoko-be/internal/utils"
	"multitoko-be/internal/variant"
)

// parseSelection reads repeated option=<typeId>:<valueId> query values.
func parseSelection(values []string) (variant.Selection, error) {
	sel := make(variant.Selection, len(values))
	for _, raw := range values {
		typeID, valueID, ok := strings.Cut(raw, ":")
		if !ok || typeID == "" {
			return nil, apperror.Validation("option %q must be <typeId>:<valueId>", raw)
		}
		sel[typeID] = valueID
	}
	return sel, nil
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r.URL.Query()["option"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	detail, err := h.Products.GetDetail(r.Context(), r.PathValue("slug"), sel)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, detail, http.StatusOK)
}

func (h *Handler) QuoteProduct(w http.ResponseWriter, r *http.Request) {
	variantID := r.URL.Query().Get("variant_id")
	if variantID == "" {
		writeError(w, r, apperror.Validation("variant_id is required"))
		return
	}

	q, err := h.Products.Quote(r.Context(), r.PathValue("slug"), variantID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, q, http.StatusOK)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in product.NewProductInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if !authorize(w, r, in.StoreID, auth.RoleEditor) {
		return
	}

	p, err := h.Products.Create(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, p, http.StatusCreated)
}

type renameProductRequest struct {
	Name string `json:"name"`
}

func (h *Handler) RenameProduct(w http.ResponseWriter, r *http.Request) {
	var req renameProductRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	current, err := h.Products.GetGraph(r.Context(), r.PathValue("productID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !authorize(w, r, current.StoreID, auth.RoleEditor) {
		return
	}

	p, err := h.Products.Rename(r.Context(), current.ID, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, p, http.StatusOK)
}

func (h *Handler) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	var in product.UpdateVariantInput
	if err := decode(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.Products.GetGraph(r.Context(), r.PathValue("productID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if p.VariantByID(r.PathValue("variantID")) == nil {
		writeError(w, r, product.ErrVariantNotFound)
		return
	}
	if !authorize(w, r, p.StoreID, auth.RoleEditor) {
		return
	}

	in.ID = r.PathValue("variantID")
	v, err := h.Products.UpdateVariant(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, v, http.StatusOK)
}
