package v4l2sink

import "testing"

func TestIsDevicePath(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"/dev/video10", true},
		{"OBS Virtual Camera", false},
		{"", false},
		{"video10", false},
	}
	for _, tt := range tests {
		if got := IsDevicePath(tt.in); got != tt.want {
			t.Errorf("IsDevicePath(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMatchLabel(t *testing.T) {
	if !matchLabel("OBS Virtual Camera\n", "obs virtual camera") {
		t.Error("expected case-insensitive match")
	}
	if matchLabel("Dummy video device (0x0000)", "OBS Virtual Camera") {
		t.Error("unexpected match")
	}
}
