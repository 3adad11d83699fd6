package camera

import (
	"errors"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	for _, name := range PresetNames() {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %q missing", name)
		}
		if errs := cfg.Validate(); len(errs) != 0 {
			t.Errorf("preset %q invalid: %v", name, errs)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr int
	}{
		{"native", Config{Device: "0"}, 0},
		{"no device", Config{}, 1},
		{"tiny width", Config{Device: "0", Width: 10}, 1},
		{"huge height", Config{Device: "0", Height: 5000}, 1},
		{"bad fps", Config{Device: "0", FPS: 500}, 1},
		{"everything wrong", Config{Width: 1, Height: 1, FPS: -1}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Validate(); len(got) != tt.wantErr {
				t.Errorf("Validate() = %v, want %d errors", got, tt.wantErr)
			}
		})
	}
}

func TestGetPresetUnknown(t *testing.T) {
	if GetPreset("8k") != nil {
		t.Error("unknown preset should be nil")
	}
}

func TestMediaAccessError(t *testing.T) {
	cause := errors.New("permission denied")
	err := error(&MediaAccessError{Device: "0", Err: cause})

	if !errors.Is(err, cause) {
		t.Error("MediaAccessError should unwrap to its cause")
	}
	if !IsMediaAccess(err) {
		t.Error("IsMediaAccess should detect MediaAccessError")
	}
	if IsMediaAccess(cause) {
		t.Error("plain error is not a media access error")
	}
}
