package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type ClientReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ClientsHandler struct {
	Store ClientStore
}

func (h *ClientsHandler) Register(r chi.Router) {
	r.Post("/clients", h.create)
	r.Get("/clients", h.list)
	r.Get("/clients/{id}", h.get)
	r.Put("/clients/{id}", h.update)
	r.Delete("/clients/{id}", h.delete)
}

func (h *ClientsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req ClientReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, detail("invalid json"))
		return
	}
	if req.Name == "" || req.Email == "" {
		writeJSON(w, http.StatusBadRequest, detail("missing fields"))
		return
	}
	ctx, cancel := timeoutCtx(r)
	defer cancel()

	c, err := h.Store.Create(ctx, req.Name, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *ClientsHandler) list(w http.ResponseWriter, r *http.Request) {
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

func (h *ClientsHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, detail("invalid id"))
		return
	}
	ctx, cancel := timeoutCtx(r)
	defer cancel()

	c, err := h.Store.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ClientsHandler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, detail("invalid id"))
		return
	}
	var req ClientReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, detail("invalid json"))
		return
	}
	ctx, cancel := timeoutCtx(r)
	defer cancel()

	c, err := h.Store.Update(ctx, id, req.Name, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ClientsHandler) delete(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, http.StatusOK, map[string]string{"message": "Client deleted"})
}
