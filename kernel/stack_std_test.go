//go:build !tinygo

package kernel

import (
	"strings"
	"testing"
)

func explode() { panic("explode") }

func TestPanicStackStartsAtPanickingFrame(t *testing.T) {
	k := New()
	k.AddTask(stepFunc(func(*Context) { explode() }))
	k.Run(1)
	info, ok := k.Panic()
	if !ok {
		t.Fatal("Panic() reports no panic")
	}
	lines := strings.Split(string(info.Stack), "\n")
	if len(lines) < 2 || !strings.HasPrefix(lines[0], "goroutine ") {
		t.Fatalf("stack header = %q", lines[0])
	}
	if !strings.Contains(lines[1], "explode") {
		t.Fatalf("first frame = %q, want explode", lines[1])
	}
}
