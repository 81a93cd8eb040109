package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionValid(t *testing.T) {
	tests := []struct {
		section  Section
		expected bool
	}{
		{SectionA, true},
		{SectionB, true},
		{SectionC, true},
		{SectionD, true},
		{"E", false},
		{"a", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.section.Valid(), "Section(%q).Valid()", tt.section)
	}
}

func TestPurchaseStatus(t *testing.T) {
	tests := []struct {
		status PurchaseStatus
		valid  bool
		open   bool
	}{
		{PurchasePending, true, true},
		{PurchaseActive, true, true},
		{PurchaseCompleted, true, false},
		{PurchaseCancelled, true, false},
		{"pending", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.valid, tt.status.Valid(), "PurchaseStatus(%q).Valid()", tt.status)
		assert.Equal(t, tt.open, tt.status.Open(), "PurchaseStatus(%q).Open()", tt.status)
	}
}

func TestSectionsCoverCapacityModel(t *testing.T) {
	assert.Len(t, Sections, 4)
	assert.Equal(t, 4000, len(Sections)*SectionCapacityUnits)
}

func TestEnumJSON(t *testing.T) {
	var body struct {
		Section Section        `json:"section"`
		Status  PurchaseStatus `json:"status"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"section":2,"status":3}`), &body))
	assert.Equal(t, SectionC, body.Section)
	assert.Equal(t, PurchaseCancelled, body.Status)

	require.NoError(t, json.Unmarshal([]byte(`{"section":"D","status":"Active"}`), &body))
	assert.Equal(t, SectionD, body.Section)
	assert.Equal(t, PurchaseActive, body.Status)

	require.NoError(t, json.Unmarshal([]byte(`{"section":"Z"}`), &body))
	assert.False(t, body.Section.Valid())

	assert.Error(t, json.Unmarshal([]byte(`{"section":4}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"status":-1}`), &body))
	assert.Error(t, json.Unmarshal([]byte(`{"section":true}`), &body))

	out, err := json.Marshal(InventoryItem{Section: SectionB})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"section":"B"`)
}
