package proto

import "testing"

func TestKindString(t *testing.T) {
	for k, want := range map[Kind]string{
		MsgLogLine:      "log_line",
		MsgConsoleWrite: "console_write",
		MsgConsoleClear: "console_clear",
		Kind(0):         "unknown",
	} {
		if got := k.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}

func TestLogLinePayload(t *testing.T) {
	tests := []struct {
		line string
		max  int
		want string
	}{
		{"abc", 8, "abc"},
		{"abc\r\n", 8, "abc"},
		{"abcdef", 4, "abcd"},
		{"日本語", 7, "日本"},
		{"日本語", 2, ""},
		{"", 8, ""},
	}
	for _, tt := range tests {
		if got := string(LogLinePayload(tt.line, tt.max)); got != tt.want {
			t.Fatalf("LogLinePayload(%q, %d) = %q, want %q", tt.line, tt.max, got, tt.want)
		}
	}
}
