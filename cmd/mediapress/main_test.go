package main

import (
	"strings"
	"testing"

	"mediapress/internal/media"
)

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status media.Status
		want   string
	}{
		{media.StatusAccepted, "Accepted"},
		{media.StatusNotFound, "Not Found"},
		{media.StatusOptimizing, "Optimizing"},
	}
	for _, tt := range tests {
		if got := statusLabel(tt.status); got != tt.want {
			t.Errorf("statusLabel(%s) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"Post", "Status"}, [][]string{{"42"}})
	if !strings.Contains(out, "42") {
		t.Errorf("rendered table missing row value:\n%s", out)
	}
	if !strings.Contains(out, "Post") || !strings.Contains(out, "Status") {
		t.Errorf("rendered table missing headers:\n%s", out)
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCommand()
	for _, name := range []string{"run", "submit", "status", "config"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("subcommand %q not registered: %v", name, err)
		}
	}
}
