package orders

type Order struct {
	ID           int64   `json:"id"`
	CustomerName string  `json:"customer_name"`
	TotalAmount  float64 `json:"total_amount"`
	Status       Status  `json:"status"`
	Details      []Line  `json:"order_details"`
}

// Line is one (product, quantity) pair within an order. Owned by its order;
// references the product by id only.
type Line struct {
	ID        int64 `json:"id"`
	OrderID   int64 `json:"order_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// LineInput is a requested line before it has been reserved and persisted.
type LineInput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}
