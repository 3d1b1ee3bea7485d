// Package enrich serves the read-only lookups shown next to a complaint:
// the returned-goods warehouse record and the original order's shipping
// status. Both read side collections and never write anything.
package enrich

import (
	"context"
	"errors"
	"strings"

	"github.com/Notes591/complaints/internal/domain/record"
)

const (
	CollectionReturnWarehouse record.Collection = "ReturnWarehouse"
	CollectionOrderNumbers    record.Collection = "OrderNumber"
)

var ErrNoRecord = errors.New("enrich: no matching record")

// Order status descriptions derived from the delegate cell of the
// OrderNumber collection.
const (
	OrderShippedAramex = "original order shipped with Aramex"
	OrderUnderFollowUp = "original order under follow-up"
	orderCourierPrefix = "original order shipped with courier "
)

// WarehouseRecord is one row of the ReturnWarehouse collection.
type WarehouseRecord struct {
	OrderID     string `json:"order_id"`
	Invoice     string `json:"invoice"`
	Date        string `json:"date"`
	Customer    string `json:"customer"`
	Amount      string `json:"amount"`
	AWB         string `json:"awb"`
	Description string `json:"description"`
}

type Service struct {
	store record.Store
}

func NewService(store record.Store) *Service { return &Service{store: store} }

// ReturnWarehouse looks the order id up in the warehouse returns list.
func (s *Service) ReturnWarehouse(ctx context.Context, orderID string) (*WarehouseRecord, error) {
	rows, err := s.store.ListRows(ctx, CollectionReturnWarehouse)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if len(row) > 0 && row[0] == orderID {
			for len(row) < 7 {
				row = append(row, "")
			}
			return &WarehouseRecord{
				OrderID:     row[0],
				Invoice:     row[1],
				Date:        row[2],
				Customer:    row[3],
				Amount:      row[4],
				AWB:         row[5],
				Description: row[6],
			}, nil
		}
	}
	return nil, ErrNoRecord
}

// OrderStatus derives a display status from the OrderNumber collection.
// The order id sits in the second cell, the delegate name in the fourth:
// "aramex" means shipped with Aramex, any other non-blank value names a
// local courier, blank means still under follow-up.
func (s *Service) OrderStatus(ctx context.Context, orderID string) (string, error) {
	rows, err := s.store.ListRows(ctx, CollectionOrderNumbers)
	if err != nil {
		return "", err
	}
	for _, row := range rows {
		if len(row) > 1 && row[1] == orderID {
			delegate := ""
			if len(row) > 3 {
				delegate = strings.TrimSpace(row[3])
			}
			switch {
			case strings.EqualFold(delegate, "aramex"):
				return OrderShippedAramex, nil
			case delegate != "":
				return orderCourierPrefix + delegate, nil
			default:
				return OrderUnderFollowUp, nil
			}
		}
	}
	return OrderUnderFollowUp, nil
}
