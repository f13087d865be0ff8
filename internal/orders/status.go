package orders

type Status string

const (
	StatusPending Status = "pending"
	StatusUpdated Status = "updated"
	StatusDeleted Status = "deleted"
)
