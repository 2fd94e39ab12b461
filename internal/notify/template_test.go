package notify

import (
	"testing"
	"time"
)

func TestRender_Counts(t *testing.T) {
	result, err := Render(`{{ .Upgradable }} updates ({{ .Upgrade }} upgrade, {{ .NotUpgraded }} held)`, updatesData())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "5 updates (3 upgrade, 2 held)" {
		t.Errorf("result = %q", result)
	}
}

func TestRender_Sprig(t *testing.T) {
	data := Data{Failed: true, Message: " no network available"}
	result, err := Render(`{{ if .Failed }}{{ .Message | trim | upper }}{{ end }}`, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "NO NETWORK AVAILABLE" {
		t.Errorf("result = %q, want %q", result, "NO NETWORK AVAILABLE")
	}
}

func TestRender_Time(t *testing.T) {
	data := Data{Time: time.Date(2011, 1, 15, 10, 30, 0, 0, time.UTC)}
	result, err := Render(`{{ .Time.Format "2006-01-02" }}`, data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "2011-01-15" {
		t.Errorf("result = %q, want %q", result, "2011-01-15")
	}
}

func TestRender_ParseError(t *testing.T) {
	if _, err := Render(`{{ .Upgrade`, Data{}); err == nil {
		t.Error("expected parse error")
	}
}
