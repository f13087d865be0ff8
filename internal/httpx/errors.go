package httpx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/nroussel/orderdesk/internal/auth"
	"github.com/nroussel/orderdesk/internal/clients"
	"github.com/nroussel/orderdesk/internal/inventory"
	"github.com/nroussel/orderdesk/internal/orders"
)

// writeError maps domain errors onto the HTTP taxonomy: 401 unauthorized,
// 404 not found, 400 invalid request, 409 reservation conflict. Every rejected
// request gets a typed response naming the offending entity.
func writeError(w http.ResponseWriter, err error) {
	var notFound *inventory.ProductNotFoundError
	var shortStock *inventory.InsufficientStockError

	switch {
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, detail(fmt.Sprintf("Product with id %d not found", notFound.ProductID)))
	case errors.As(err, &shortStock):
		writeJSON(w, http.StatusBadRequest, detail(fmt.Sprintf("Not enough quantity for product id %d", shortStock.ProductID)))
	case errors.Is(err, orders.ErrNotFound):
		writeJSON(w, http.StatusNotFound, detail("Order not found"))
	case errors.Is(err, clients.ErrNotFound):
		writeJSON(w, http.StatusNotFound, detail("Client not found"))
	case errors.Is(err, orders.ErrConflict):
		writeJSON(w, http.StatusConflict, detail("Order rejected by concurrent reservation, retry"))
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, detail("Invalid credentials"))
	default:
		writeJSON(w, http.StatusInternalServerError, detail("internal error"))
	}
}

func detail(msg string) map[string]string { return map[string]string{"detail": msg} }

// rejectReason labels rejected order creations for metrics.
func rejectReason(err error) string {
	var notFound *inventory.ProductNotFoundError
	var shortStock *inventory.InsufficientStockError
	switch {
	case errors.As(err, &notFound):
		return "product_not_found"
	case errors.As(err, &shortStock):
		return "insufficient_stock"
	case errors.Is(err, orders.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
