package lifecycle

import (
	"encoding/json"
	"testing"
)

func TestStateScan(t *testing.T) {
	tests := []struct {
		src  interface{}
		want State
	}{
		{true, Active},
		{false, Inactive},
		{int64(1), Active},
		{int64(0), Inactive},
		{[]byte("1"), Active},
		{"false", Inactive},
		{nil, Inactive},
	}
	for _, tt := range tests {
		var s State
		if err := s.Scan(tt.src); err != nil {
			t.Fatalf("Scan(%v) returned error: %v", tt.src, err)
		}
		if s != tt.want {
			t.Errorf("Scan(%v): expected %v, got %v", tt.src, tt.want, s)
		}
	}
}

func TestStateScanRejectsGarbage(t *testing.T) {
	var s State
	if err := s.Scan("maybe"); err == nil {
		t.Errorf("Expected error scanning %q", "maybe")
	}
	if err := s.Scan(3.5); err == nil {
		t.Errorf("Expected error scanning a float")
	}
}

func TestStateJSON(t *testing.T) {
	out, err := json.Marshal(struct {
		IsActive State `json:"is_active"`
	}{Active})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"is_active":true}` {
		t.Errorf("Expected plain boolean, got %s", out)
	}
}
