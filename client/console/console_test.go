package console

import (
	"strings"
	"testing"

	"disco/kernel"
	"disco/proto"
)

type taskFunc func(*kernel.Context)

func (f taskFunc) Step(ctx *kernel.Context) { f(ctx) }

func TestWriteChunks(t *testing.T) {
	k := kernel.New()
	ep := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	text := strings.Repeat("a", kernel.MaxMessageBytes) + "bc"

	var got []string
	var kinds []proto.Kind
	k.AddTask(taskFunc(func(ctx *kernel.Context) {
		if res := Write(ctx, ep, text); res != kernel.SendOK {
			t.Errorf("Write() = %s, want ok", res)
		}
		if res := Clear(ctx, ep); res != kernel.SendOK {
			t.Errorf("Clear() = %s, want ok", res)
		}
		for {
			msg, ok := ctx.TryRecv(ep)
			if !ok {
				break
			}
			kinds = append(kinds, proto.Kind(msg.Kind))
			got = append(got, string(msg.Payload()))
		}
		ctx.Sleep(1)
	}))
	k.Run(1)

	if len(got) != 3 || len(got[0]) != kernel.MaxMessageBytes || got[1] != "bc" || got[2] != "" {
		t.Fatalf("chunks = %q", got)
	}
	if kinds[0] != proto.MsgConsoleWrite || kinds[2] != proto.MsgConsoleClear {
		t.Fatalf("kinds = %v", kinds)
	}
}

func TestWriteNilContext(t *testing.T) {
	if res := Write(nil, kernel.Capability{}, "x"); res != kernel.SendErrInvalidFromCap {
		t.Fatalf("Write(nil) = %s, want %s", res, kernel.SendErrInvalidFromCap)
	}
}
