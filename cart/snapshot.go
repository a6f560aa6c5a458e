package cart

import (
	"encoding/json"

	"github.com/Nikhil-10404/Food-Delivery-App/models"
)

// SchemaVersion tags cart snapshots so devices can migrate later without
// losing data. Decoding anything it does not recognise falls back to an
// empty cart rather than an error.
const SchemaVersion = 1

type snapshot struct {
	Version int            `json:"version"`
	Lines   []snapshotLine `json:"lines"`
}

type snapshotLine struct {
	RestaurantID   string `json:"restaurantId"`
	RestaurantName string `json:"restaurantName"`
	Item           Item   `json:"item"`
	Qty            int    `json:"qty"`
}

// EncodeSnapshot serialises cart lines into the versioned sync payload.
func EncodeSnapshot(lines []models.CartLine) ([]byte, error) {
	s := snapshot{Version: SchemaVersion, Lines: make([]snapshotLine, 0, len(lines))}
	for _, l := range lines {
		s.Lines = append(s.Lines, snapshotLine{
			RestaurantID:   l.RestaurantID,
			RestaurantName: l.RestaurantName,
			Item:           Item{ID: l.ItemID, Name: l.ItemName, Price: l.ItemPrice, PhotoID: l.PhotoID},
			Qty:            l.Qty,
		})
	}
	return json.Marshal(s)
}

// DecodeSnapshot parses a sync payload back into cart lines. Corrupt JSON,
// an empty payload, or an unknown schema version all decode to an empty
// cart; devices must never be locked out of their cart by bad local state.
func DecodeSnapshot(data []byte) []models.CartLine {
	if len(data) == 0 {
		return nil
	}
	var s snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	if s.Version != SchemaVersion {
		return nil
	}
	var lines []models.CartLine
	for _, sl := range s.Lines {
		if sl.Item.ID == "" || sl.Qty < 1 {
			continue
		}
		lines = Add(lines, sl.RestaurantID, sl.RestaurantName, sl.Item, sl.Qty)
	}
	return lines
}
