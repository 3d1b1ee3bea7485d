package aramex

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Notes591/complaints/internal/domain/aramex"
	"github.com/Notes591/complaints/internal/domain/complaint"
	"github.com/Notes591/complaints/internal/domain/record"
)

var ErrMissingFields = errors.New("aramex: order id, status and action are all required")

// Usecase runs the shipment-delay follow-up list: a flat pending
// collection whose entries get edited in place and eventually archived
// with the same append-then-delete move the complaint lifecycle uses.
type Usecase struct {
	store record.Store
	log   zerolog.Logger
	now   func() time.Time
}

func NewUsecase(store record.Store, log zerolog.Logger) *Usecase {
	return &Usecase{store: store, log: log, now: time.Now}
}

type CreateInput struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Action  string `json:"action"`
}

// Create registers a pending follow-up entry. All three fields are
// required, there is no blank-action routing here.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*aramex.Order, error) {
	if strings.TrimSpace(in.OrderID) == "" || strings.TrimSpace(in.Status) == "" || strings.TrimSpace(in.Action) == "" {
		return nil, ErrMissingFields
	}
	o := aramex.Order{
		OrderID:   strings.TrimSpace(in.OrderID),
		Status:    in.Status,
		CreatedAt: complaint.FormatCreatedAt(u.now().UTC()),
		Action:    in.Action,
	}
	if _, err := u.store.AppendRow(ctx, aramex.CollectionPending, aramex.EncodeRow(o)); err != nil {
		return nil, err
	}
	return &o, nil
}

type FieldUpdates struct {
	Status *string `json:"status"`
	Action *string `json:"action"`
}

// Edit updates status and action of a pending entry in place.
func (u *Usecase) Edit(ctx context.Context, orderID string, upd FieldUpdates) (*aramex.Order, error) {
	pos, cur, err := u.find(ctx, aramex.CollectionPending, orderID)
	if err != nil {
		return nil, err
	}
	cells := map[int]string{}
	if upd.Status != nil {
		cells[aramex.CellStatus] = *upd.Status
		cur.Status = *upd.Status
	}
	if upd.Action != nil {
		cells[aramex.CellAction] = *upd.Action
		cur.Action = *upd.Action
	}
	if len(cells) == 0 {
		return &cur, nil
	}
	if err := u.store.UpdateCells(ctx, aramex.CollectionPending, pos, cells); err != nil {
		return nil, err
	}
	return &cur, nil
}

// Archive moves a pending entry into the aramex archive, fields carried
// unchanged. A delete failure after the append surfaces the duplicate
// explicitly.
func (u *Usecase) Archive(ctx context.Context, orderID string) (*aramex.Order, error) {
	pos, cur, err := u.find(ctx, aramex.CollectionPending, orderID)
	if err != nil {
		return nil, err
	}
	err = record.Move(ctx, u.store, aramex.CollectionPending, pos, aramex.CollectionArchive, aramex.EncodeRow(cur))
	if err != nil {
		if errors.Is(err, record.ErrPartialMove) {
			u.log.Warn().Str("order_id", orderID).Err(err).Msg("order archived but duplicate remains in pending list")
			return nil, fmt.Errorf("order %s: %w", orderID, err)
		}
		return nil, err
	}
	return &cur, nil
}

// Pending lists the open follow-up entries.
func (u *Usecase) Pending(ctx context.Context) ([]aramex.Order, error) {
	return u.list(ctx, aramex.CollectionPending)
}

// Archived lists the closed ones.
func (u *Usecase) Archived(ctx context.Context) ([]aramex.Order, error) {
	return u.list(ctx, aramex.CollectionArchive)
}

func (u *Usecase) list(ctx context.Context, col record.Collection) ([]aramex.Order, error) {
	rows, err := u.store.ListRows(ctx, col)
	if err != nil {
		return nil, err
	}
	out := make([]aramex.Order, 0, len(rows))
	for _, row := range rows {
		o := aramex.DecodeRow(row)
		if o.OrderID == "" {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

func (u *Usecase) find(ctx context.Context, col record.Collection, orderID string) (record.Position, aramex.Order, error) {
	rows, err := u.store.ListRows(ctx, col)
	if err != nil {
		return 0, aramex.Order{}, err
	}
	for i, row := range rows {
		if len(row) > 0 && row[0] == orderID {
			return record.FirstDataRow + record.Position(i), aramex.DecodeRow(row), nil
		}
	}
	return 0, aramex.Order{}, fmt.Errorf("%w: %s in %s", complaint.ErrNotFound, orderID, col)
}
