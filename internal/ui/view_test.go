package ui

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/taskcal/taskcal/internal/client"
	"github.com/taskcal/taskcal/internal/entity"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	cache := client.NewCacheAt(filepath.Join(t.TempDir(), "tasks.json"))
	return NewApp(nil, client.NewState(cache))
}

func TestPriorityBadge(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		priority entity.Priority
		want     string
	}{
		{entity.PriorityLow, "l"},
		{entity.PriorityMedium, "m"},
		{entity.PriorityHigh, "h"},
		// A cache written before priorities existed yields empty strings;
		// those render as the default rather than panicking.
		{"", "m"},
	}
	for _, tt := range tests {
		badge := app.priorityBadge(tt.priority)
		if !strings.Contains(badge, tt.want) {
			t.Errorf("priorityBadge(%q) = %q, want it to contain %q", tt.priority, badge, tt.want)
		}
	}
}
