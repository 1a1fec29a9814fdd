package learning

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewEventClipsClientFields(t *testing.T) {
	at := time.Date(2024, 5, 6, 9, 30, 0, 0, time.UTC)
	ev := NewEvent(uuid.New(), ActionView, at, ClientInfo{
		DeviceInfo: strings.Repeat("d", 250),
		IPAddress:  "203.0.113.9",
		UserAgent:  strings.Repeat("é", 600),
	})
	if len(ev.DeviceInfo) != 200 {
		t.Fatalf("device info: want 200 got %d", len(ev.DeviceInfo))
	}
	if ev.IPAddress != "203.0.113.9" {
		t.Fatalf("ip should be kept: %q", ev.IPAddress)
	}
	if n := len([]rune(ev.UserAgent)); n != 500 {
		t.Fatalf("user agent runes: want 500 got %d", n)
	}
	if ev.ActionType != ActionView || !ev.Timestamp.Equal(at) {
		t.Fatalf("unexpected event: %+v", ev)
	}
}
