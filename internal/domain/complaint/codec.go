package complaint

import "github.com/Notes591/complaints/internal/domain/record"

// Cell indexes shared by every complaint collection. PendingApproval rows
// carry two extra trailing cells; the other collections may carry an
// optional trailing signature cell.
const (
	CellID = iota
	CellType
	CellNotes
	CellAction
	CellCreatedAt
	CellRestoredMarker
	CellOutboundAWB
	CellInboundAWB
	cellWidth // minimum row width after padding
)

const (
	CellSignature        = 8 // Complaints/Responded/Archive only
	CellSourceCollection = 8 // PendingApproval only
	CellSubmittedAt      = 9 // PendingApproval only
)

func pad(row record.Row, width int) record.Row {
	for len(row) < width {
		row = append(row, "")
	}
	return row
}

// DecodeRow turns a raw sheet row from col into a Complaint. Short rows
// are padded, never rejected; a row with a blank ID cell decodes to a
// Complaint with an empty ID and is skipped by lookups.
func DecodeRow(col record.Collection, row record.Row) Complaint {
	row = pad(row, cellWidth)
	c := Complaint{
		ID:             row[CellID],
		Type:           row[CellType],
		Notes:          row[CellNotes],
		Action:         row[CellAction],
		CreatedAt:      row[CellCreatedAt],
		RestoredMarker: row[CellRestoredMarker],
		OutboundAWB:    row[CellOutboundAWB],
		InboundAWB:     row[CellInboundAWB],
	}
	if col == CollectionPendingApproval {
		row = pad(row, CellSubmittedAt+1)
		c.SourceCollection = record.Collection(row[CellSourceCollection])
		c.SubmittedAt = row[CellSubmittedAt]
	} else if len(row) > CellSignature {
		c.ApprovalSignature = row[CellSignature]
	}
	return c
}

// EncodeRow renders c as a row for col. The base layout is 8 cells;
// PendingApproval appends source collection and submission time, the
// other collections append the signature cell only when one is present.
func EncodeRow(col record.Collection, c Complaint) record.Row {
	row := record.Row{
		c.ID,
		c.Type,
		c.Notes,
		c.Action,
		c.CreatedAt,
		c.RestoredMarker,
		c.OutboundAWB,
		c.InboundAWB,
	}
	if col == CollectionPendingApproval {
		row = append(row, string(c.SourceCollection), c.SubmittedAt)
	} else if c.ApprovalSignature != "" {
		row = append(row, c.ApprovalSignature)
	}
	return row
}
