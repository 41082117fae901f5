package entities

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestParseBlendStatus(t *testing.T) {
	for _, status := range AllBlendStatuses() {
		parsed, err := ParseBlendStatus(string(status))
		if err != nil {
			t.Fatalf("ParseBlendStatus(%s) failed: %v", status, err)
		}
		if parsed != status {
			t.Errorf("ParseBlendStatus(%s) = %s", status, parsed)
		}
	}

	for _, raw := range []string{"BOGUS", "", "blending", "DONE"} {
		_, err := ParseBlendStatus(raw)
		if !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("ParseBlendStatus(%q) error = %v, want ErrInvalidStatus", raw, err)
		}
	}

	parsed, err := ParseBlendStatus("  TESTING ")
	if err != nil || parsed != StatusTesting {
		t.Errorf("Expected surrounding whitespace to be trimmed, got %q, %v", parsed, err)
	}
}

func TestIsActive(t *testing.T) {
	tests := []struct {
		status BlendStatus
		want   bool
	}{
		{StatusCreated, false},
		{StatusQueued, true},
		{StatusAssembling, true},
		{StatusBlending, true},
		{StatusTesting, true},
		{StatusAdjusting, true},
		{StatusPassed, false},
		{StatusFlagged, true},
		{StatusPushed, false},
		{StatusComplete, false},
		{BlendStatus("BOGUS"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := IsActive(tt.status); got != tt.want {
				t.Errorf("IsActive(%s) = %v, want %v", tt.status, got, tt.want)
			}
			if got := tt.status.IsActive(); got != tt.want {
				t.Errorf("%s.IsActive() = %v, want %v", tt.status, got, tt.want)
			}
		})
	}

	if n := len(ActiveBlendStatuses()); n != 6 {
		t.Errorf("Expected 6 active statuses, got %d", n)
	}
	if n := len(AllBlendStatuses()); n != 10 {
		t.Errorf("Expected 10 statuses, got %d", n)
	}
}

func TestActiveBlendStatuses_ReturnsCopy(t *testing.T) {
	active := ActiveBlendStatuses()
	active[0] = StatusComplete

	if IsActive(StatusComplete) {
		t.Error("Mutating the returned slice must not change the active set")
	}
}

func TestBlendStatus_Ordinal(t *testing.T) {
	if StatusCreated.Ordinal() != 0 {
		t.Errorf("Expected CREATED first, got %d", StatusCreated.Ordinal())
	}
	if StatusComplete.Ordinal() != 9 {
		t.Errorf("Expected COMPLETE last, got %d", StatusComplete.Ordinal())
	}
	if BlendStatus("BOGUS").Ordinal() != -1 {
		t.Error("Expected unknown status ordinal -1")
	}
}

func TestBlendStatus_UnmarshalJSON(t *testing.T) {
	var payload struct {
		Status BlendStatus `json:"status"`
	}
	if err := json.Unmarshal([]byte(`{"status":"BLENDING"}`), &payload); err != nil {
		t.Fatalf("Expected valid status to decode: %v", err)
	}
	if payload.Status != StatusBlending {
		t.Errorf("Expected BLENDING, got %s", payload.Status)
	}

	err := json.Unmarshal([]byte(`{"status":"BOGUS"}`), &payload)
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
}

func TestNewBlend_Validation(t *testing.T) {
	customer := uuid.New()
	qty := decimal.NewFromInt(500)

	blend, err := NewBlend("BL000001", "GLYCOL-50", "T1", customer, qty, "")
	if err != nil {
		t.Fatalf("Expected valid blend creation to succeed: %v", err)
	}
	if blend.Status != StatusCreated {
		t.Errorf("Expected new blend in CREATED, got %s", blend.Status)
	}
	if blend.IsActive() {
		t.Error("Expected new blend to be inactive")
	}

	testCases := []struct {
		name        string
		lot         LotCode
		product     ProductCode
		tank        TankCode
		customer    uuid.UUID
		quantity    decimal.Decimal
		expectError string
	}{
		{"empty lot", "", "P", "T", customer, qty, "lot code cannot be empty"},
		{"empty product", "BL1", "", "T", customer, qty, "product code cannot be empty"},
		{"empty tank", "BL1", "P", "", customer, qty, "tank code cannot be empty"},
		{"nil customer", "BL1", "P", "T", uuid.Nil, qty, "customer id cannot be empty"},
		{"zero quantity", "BL1", "P", "T", customer, decimal.Zero, "quantity must be positive, got 0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBlend(tc.lot, tc.product, tc.tank, tc.customer, tc.quantity, "")
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}
