package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/nroussel/orderdesk/internal/events"
	"github.com/nroussel/orderdesk/internal/metrics"
	"github.com/nroussel/orderdesk/internal/orders"
	"github.com/nroussel/orderdesk/internal/redisx"
)

type CreateOrderReq struct {
	CustomerName string             `json:"customer_name"`
	TotalAmount  float64            `json:"total_amount"`
	OrderDetails []orders.LineInput `json:"order_details"`
}

type CreateLineReq struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type OrdersHandler struct {
	Store    OrderStore
	Notifier OrderNotifier
	Cache    *redis.Client // optional; nil skips the read-through cache
	Metrics  *metrics.Registry
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Post("/orders", h.create)
	r.Get("/orders", h.list)
	r.Get("/orders/{id}", h.get)
	r.Put("/orders/{id}", h.replace)
	r.Delete("/orders/{id}", h.delete)
	r.Post("/orders/{id}/details", h.insertLine)
	r.Get("/orders/{id}/details", h.listLines)
}

func (h *OrdersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, detail("invalid json"))
		return
	}
	if req.CustomerName == "" || len(req.OrderDetails) == 0 {
		writeJSON(w, http.StatusBadRequest, detail("missing fields"))
		return
	}
	for _, l := range req.OrderDetails {
		if l.Quantity <= 0 {
			writeJSON(w, http.StatusBadRequest, detail(fmt.Sprintf("invalid quantity for product id %d", l.ProductID)))
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	start := time.Now()
	o, err := h.Store.Create(ctx, req.CustomerName, req.TotalAmount, req.OrderDetails)
	if err != nil {
		if h.Metrics != nil {
			h.Metrics.OrdersRejected.WithLabelValues(rejectReason(err)).Inc()
		}
		writeError(w, err)
		return
	}
	if h.Metrics != nil {
		h.Metrics.OrdersCreated.Inc()
		h.Metrics.OrderCreateSec.Observe(time.Since(start).Seconds())
	}

	h.cacheSet(ctx, o)

	// Notification only after the transaction committed. Fire-and-forget:
	// a publish failure never turns a created order into an error.
	items := make([]events.ItemQty, 0, len(o.Details))
	for _, l := range o.Details {
		items = append(items, events.ItemQty{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	h.Notifier.OrderCreated(o.ID, o.CustomerName, o.TotalAmount, string(o.Status), items)

	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	skip, limit := pageParams(r)
	out, err := h.Store.List(ctx, skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, detail("invalid id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if h.Cache != nil {
		key := fmt.Sprintf(redisx.KeyOrder, id)
		if s, err := h.Cache.Get(ctx, key).Result(); err == nil && s != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(s))
			return
		}
	}

	o, err := h.Store.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cacheSet(ctx, o)
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) replace(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, detail("invalid id"))
		return
	}
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, detail("invalid json"))
		return
	}
	if req.CustomerName == "" {
		writeJSON(w, http.StatusBadRequest, detail("missing fields"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Store.Replace(ctx, id, req.CustomerName, req.TotalAmount)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cacheSet(ctx, o)
	h.Notifier.OrderUpdated(o.ID, o.TotalAmount, string(o.Status))
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, detail("invalid id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.Delete(ctx, id); err != nil {
		writeError(w, err)
		return
	}
	h.cacheDel(ctx, id)
	h.Notifier.OrderDeleted(id)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Order deleted"})
}

// insertLine is the legacy detail endpoint: it appends a line without any
// stock validation or reservation. Kept for old clients only.
func (h *OrdersHandler) insertLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, detail("invalid id"))
		return
	}
	var req CreateLineReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, detail("invalid json"))
		return
	}
	if req.Quantity <= 0 {
		writeJSON(w, http.StatusBadRequest, detail(fmt.Sprintf("invalid quantity for product id %d", req.ProductID)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	l, err := h.Store.InsertLine(ctx, id, req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	h.cacheDel(ctx, id)
	writeJSON(w, http.StatusCreated, l)
}

func (h *OrdersHandler) listLines(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusBadRequest, detail("invalid id"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	out, err := h.Store.Lines(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) cacheSet(ctx context.Context, o *orders.Order) {
	if h.Cache == nil {
		return
	}
	b, err := json.Marshal(o)
	if err != nil {
		return
	}
	_ = h.Cache.Set(ctx, fmt.Sprintf(redisx.KeyOrder, o.ID), b, redisx.TTLOrderCache).Err()
}

func (h *OrdersHandler) cacheDel(ctx context.Context, id int64) {
	if h.Cache == nil {
		return
	}
	_ = h.Cache.Del(ctx, fmt.Sprintf(redisx.KeyOrder, id)).Err()
}
