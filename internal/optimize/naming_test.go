package optimize

import "testing"

func TestNewMediaID(t *testing.T) {
	tests := []struct {
		name      string
		mediaID   string
		targetExt string
		want      string
	}{
		{"different extension appended", "2024/07/clip.mp4", ".webm", "2024/07/clip.mp4.webm"},
		{"same extension gets infix", "2024/07/clip.webm", ".webm", "2024/07/clip.optimized.webm"},
		{"extension without dot", "clip.mp4", "webm", "clip.mp4.webm"},
		{"case insensitive match", "clip.WEBM", ".webm", "clip.optimized.WEBM"},
		{"no source extension", "clip", ".webm", "clip.webm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewMediaID(tt.mediaID, tt.targetExt); got != tt.want {
				t.Errorf("NewMediaID(%q, %q) = %q, want %q", tt.mediaID, tt.targetExt, got, tt.want)
			}
		})
	}
}

func TestResultImproved(t *testing.T) {
	if !(Result{InputSize: 100, OutputSize: 60}).Improved() {
		t.Error("smaller output should report improved")
	}
	if (Result{InputSize: 100, OutputSize: 100}).Improved() {
		t.Error("equal size should not report improved")
	}
	if (Result{InputSize: 100, OutputSize: 0}).Improved() {
		t.Error("empty output should not report improved")
	}
}
