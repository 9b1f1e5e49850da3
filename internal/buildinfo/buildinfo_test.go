package buildinfo

import "testing"

func stamp(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
	Version, Commit, Date = version, commit, date
}

func TestShortAndDescribe(t *testing.T) {
	tests := []struct {
		version, commit, date string
		short, describe       string
	}{
		{"dev", "unknown", "unknown", "dev", "dev"},
		{"dev", "1a2b3c", "unknown", "1a2b3c", "1a2b3c"},
		{"v0.3.0", "1a2b3c", "2026-10-01", "v0.3.0", "v0.3.0 commit=1a2b3c date=2026-10-01"},
		{"", "", "", "dev", "dev"},
	}
	for _, tt := range tests {
		stamp(t, tt.version, tt.commit, tt.date)
		if got := Short(); got != tt.short {
			t.Fatalf("Short() with %q/%q = %q, want %q", tt.version, tt.commit, got, tt.short)
		}
		if got := Describe(); got != tt.describe {
			t.Fatalf("Describe() with %q/%q/%q = %q, want %q", tt.version, tt.commit, tt.date, got, tt.describe)
		}
	}
}
