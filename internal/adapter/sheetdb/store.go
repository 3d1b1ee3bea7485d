// Package sheetdb implements the row store on a relational table that
// mimics worksheet semantics: per-collection insertion order, 1-based
// positions with the header at row 1, and position shifts on delete.
package sheetdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Notes591/complaints/internal/domain/record"
)

type sheetRow struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	Collection string `gorm:"size:64;index:idx_sheet_rows_collection_seq,priority:1"`
	Seq        int64  `gorm:"index:idx_sheet_rows_collection_seq,priority:2"`
	Cells      string `gorm:"type:text"` // JSON-encoded cell array
}

func (sheetRow) TableName() string { return "sheet_rows" }

type Store struct{ db *gorm.DB }

// New migrates the backing table and returns the store.
func New(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&sheetRow{}); err != nil {
		return nil, fmt.Errorf("sheetdb: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) ListRows(ctx context.Context, col record.Collection) ([]record.Row, error) {
	var stored []sheetRow
	res := s.db.WithContext(ctx).
		Where("collection = ?", string(col)).
		Order("seq ASC").
		Find(&stored)
	if res.Error != nil {
		return nil, &record.TransientError{Op: "list " + string(col), Err: res.Error}
	}
	out := make([]record.Row, 0, len(stored))
	for _, sr := range stored {
		row, err := decodeCells(sr.Cells)
		if err != nil {
			return nil, fmt.Errorf("sheetdb: row %d in %s: %w", sr.ID, col, err)
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *Store) AppendRow(ctx context.Context, col record.Collection, row record.Row) (record.Position, error) {
	cells, err := json.Marshal([]string(row))
	if err != nil {
		return 0, fmt.Errorf("sheetdb: encode row: %w", err)
	}
	var pos record.Position
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxSeq int64
		if err := tx.Model(&sheetRow{}).
			Where("collection = ?", string(col)).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&maxSeq).Error; err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&sheetRow{}).
			Where("collection = ?", string(col)).
			Count(&count).Error; err != nil {
			return err
		}
		if err := tx.Create(&sheetRow{Collection: string(col), Seq: maxSeq + 1, Cells: string(cells)}).Error; err != nil {
			return err
		}
		pos = record.FirstDataRow + record.Position(count)
		return nil
	})
	if err != nil {
		return 0, &record.TransientError{Op: "append to " + string(col), Err: err}
	}
	return pos, nil
}

func (s *Store) UpdateCells(ctx context.Context, col record.Collection, pos record.Position, cells map[int]string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sr, err := rowAt(tx, col, pos)
		if err != nil {
			return err
		}
		row, err := decodeCells(sr.Cells)
		if err != nil {
			return fmt.Errorf("sheetdb: row %d in %s: %w", sr.ID, col, err)
		}
		for idx, val := range cells {
			if idx < 0 {
				return fmt.Errorf("sheetdb: negative cell index %d", idx)
			}
			for len(row) <= idx {
				row = append(row, "")
			}
			row[idx] = val
		}
		encoded, err := json.Marshal([]string(row))
		if err != nil {
			return fmt.Errorf("sheetdb: encode row: %w", err)
		}
		res := tx.Model(&sheetRow{}).Where("id = ?", sr.ID).Update("cells", string(encoded))
		if res.Error != nil {
			return &record.TransientError{Op: "update " + string(col), Err: res.Error}
		}
		return nil
	})
}

func (s *Store) DeleteRow(ctx context.Context, col record.Collection, pos record.Position) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sr, err := rowAt(tx, col, pos)
		if err != nil {
			return err
		}
		res := tx.Delete(&sheetRow{}, sr.ID)
		if res.Error != nil {
			return &record.TransientError{Op: "delete from " + string(col), Err: res.Error}
		}
		return nil
	})
}

// rowAt resolves a sheet position to the nth stored row. Position 2 is
// the first data row; anything before that addresses the header and is a
// caller bug surfaced as not-found.
func rowAt(tx *gorm.DB, col record.Collection, pos record.Position) (*sheetRow, error) {
	if pos < record.FirstDataRow {
		return nil, record.ErrRowNotFound
	}
	var sr sheetRow
	res := tx.Where("collection = ?", string(col)).
		Order("seq ASC").
		Offset(int(pos - record.FirstDataRow)).
		Limit(1).
		Take(&sr)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, record.ErrRowNotFound
		}
		return nil, &record.TransientError{Op: "lookup in " + string(col), Err: res.Error}
	}
	return &sr, nil
}

func decodeCells(raw string) (record.Row, error) {
	if raw == "" {
		return record.Row{}, nil
	}
	var cells []string
	if err := json.Unmarshal([]byte(raw), &cells); err != nil {
		return nil, fmt.Errorf("decode cells: %w", err)
	}
	return record.Row(cells), nil
}
