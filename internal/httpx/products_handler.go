package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type ProductReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

type ProductsHandler struct {
	Store ProductStore
}

func (h *ProductsHandler) Register(r chi.Router) {
	r.Post("/products", h.create)
	r.Get("/products", h.list)
	r.Get("/products/{id}", h.get)
	r.Put("/products/{id}", h.update)
	r.Delete("/products/{id}", h.delete)
}

func (h *ProductsHandler) create(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeProduct(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeoutCtx(r)
	defer cancel()

	p, err := h.Store.Create(ctx, req.Name, req.Description, req.Price, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *ProductsHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeoutCtx(r)
	defer cancel()

	skip, limit := pageParams(r)
	out, err := h.Store.List(ctx, skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ProductsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, detail("invalid id"))
		return
	}
	ctx, cancel := timeoutCtx(r)
	defer cancel()

	p, err := h.Store.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, detail("invalid id"))
		return
	}
	req, ok := decodeProduct(w, r)
	if !ok {
		return
	}
	ctx, cancel := timeoutCtx(r)
	defer cancel()

	p, err := h.Store.Update(ctx, id, req.Name, req.Description, req.Price, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProductsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, detail("invalid id"))
		return
	}
	ctx, cancel := timeoutCtx(r)
	defer cancel()

	if err := h.Store.Delete(ctx, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

func decodeProduct(w http.ResponseWriter, r *http.Request) (ProductReq, bool) {
	var req ProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, detail("invalid json"))
		return req, false
	}
	if req.Name == "" || req.Quantity < 0 {
		writeJSON(w, http.StatusBadRequest, detail("missing fields"))
		return req, false
	}
	return req, true
}

func timeoutCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), 3*time.Second)
}
