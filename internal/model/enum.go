package model

import (
	"encoding/json"
	"fmt"
)

// PurchaseStatuses lists every purchase status in index order.
var PurchaseStatuses = []PurchaseStatus{PurchasePending, PurchaseActive, PurchaseCompleted, PurchaseCancelled}

// UnmarshalJSON accepts the section letter or its index (0 for A to 3 for D).
func (s *Section) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, len(Sections), func(i int) string { return string(Sections[i]) })
	if err != nil {
		return fmt.Errorf("section: %w", err)
	}
	*s = Section(v)
	return nil
}

// UnmarshalJSON accepts the status name or its index (0 for Pending to 3 for Cancelled).
func (s *PurchaseStatus) UnmarshalJSON(data []byte) error {
	v, err := decodeEnum(data, len(PurchaseStatuses), func(i int) string { return string(PurchaseStatuses[i]) })
	if err != nil {
		return fmt.Errorf("purchase status: %w", err)
	}
	*s = PurchaseStatus(v)
	return nil
}

// decodeEnum reads a JSON string as is, or maps a JSON integer to its name.
// Unknown names are left for Valid to reject.
func decodeEnum(data []byte, n int, name func(int) string) (string, error) {
	var idx int
	if err := json.Unmarshal(data, &idx); err == nil {
		if idx < 0 || idx >= n {
			return "", fmt.Errorf("index %d out of range", idx)
		}
		return name(idx), nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", err
	}
	return s, nil
}
