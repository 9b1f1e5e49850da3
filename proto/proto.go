// Package proto lists the IPC message kinds exchanged between tasks.
package proto

import (
	"strings"
	"unicode/utf8"
)

// Kind identifies the message type carried in kernel.Message.Kind.
type Kind uint16

const (
	MsgLogLine Kind = iota + 1
	MsgConsoleWrite
	MsgConsoleClear
)

func (k Kind) String() string {
	switch k {
	case MsgLogLine:
		return "log_line"
	case MsgConsoleWrite:
		return "console_write"
	case MsgConsoleClear:
		return "console_clear"
	default:
		return "unknown"
	}
}

// LogLinePayload encodes line as a MsgLogLine payload: UTF-8 without a
// trailing newline, cut at a rune boundary to at most max bytes.
func LogLinePayload(line string, max int) []byte {
	line = strings.TrimRight(line, "\r\n")
	if len(line) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		line = line[:cut]
	}
	if line == "" {
		return nil
	}
	return []byte(line)
}
