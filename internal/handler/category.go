package handler

import (
	"net/http"
	"strconv"

	"multitoko-be/internal/apperror"
	"multitoko-be/internal/utils"
)

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter *string
	if f := q.Get("filter"); f != "" {
		filter = &f
	}

	limit, err := queryInt32(q.Get("limit"), "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := queryInt32(q.Get("page"), "page")
	if err != nil {
		writeError(w, r, err)
		return
	}

	list, err := h.Categories.List(r.Context(), filter, limit, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, list, http.StatusOK)
}

type createCategoryRequest struct {
	Name string `json:"name"`
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.Categories.Create(r.Context(), req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.WriteJSON(w, c, http.StatusCreated)
}

func queryInt32(raw, name string) (*int32, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return nil, apperror.Validation("%s must be an integer", name)
	}
	v := int32(n)
	return &v, nil
}
