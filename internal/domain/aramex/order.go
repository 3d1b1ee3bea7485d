package aramex

import "github.com/Notes591/complaints/internal/domain/record"

// The shipment-delay follow-up workflow is independent of the complaint
// lifecycle: two collections, pending and archived, no approval step,
// moved with the same append-then-delete protocol.
const (
	CollectionPending record.Collection = "AramexPending"
	CollectionArchive record.Collection = "AramexArchive"
)

// Order is one delayed-shipment follow-up entry.
type Order struct {
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	Action    string `json:"action"`
}

const (
	CellOrderID = iota
	CellStatus
	CellCreatedAt
	CellAction
	cellWidth
)

func DecodeRow(row record.Row) Order {
	for len(row) < cellWidth {
		row = append(row, "")
	}
	return Order{
		OrderID:   row[CellOrderID],
		Status:    row[CellStatus],
		CreatedAt: row[CellCreatedAt],
		Action:    row[CellAction],
	}
}

func EncodeRow(o Order) record.Row {
	return record.Row{o.OrderID, o.Status, o.CreatedAt, o.Action}
}
