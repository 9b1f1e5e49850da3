package logger

import (
	"strings"
	"testing"

	logclient "disco/client/logger"
	"disco/kernel"
	"disco/proto"
)

type lines struct{ got []string }

func (l *lines) WriteLineString(s string) { l.got = append(l.got, s) }
func (l *lines) WriteLineBytes(b []byte)  { l.got = append(l.got, string(b)) }

type taskFunc func(*kernel.Context)

func (f taskFunc) Step(ctx *kernel.Context) { f(ctx) }

func TestServiceWritesAndMirrors(t *testing.T) {
	k := kernel.New()
	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	conEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	var out lines
	k.AddTask(New(&out, logEP.Restrict(kernel.RightRecv)).Mirror(conEP.Restrict(kernel.RightSend)))

	long := strings.Repeat("x", kernel.MaxMessageBytes+20)
	done := false
	k.AddTask(taskFunc(func(ctx *kernel.Context) {
		if done {
			ctx.Sleep(100)
			return
		}
		logclient.Log(ctx, logEP, "redraw: frame 1")
		logclient.Log(ctx, logEP, long)
		ctx.SendTo(logEP, uint16(proto.MsgConsoleClear), nil)
		done = true
	}))
	k.Run(20)

	if len(out.got) != 2 || out.got[0] != "redraw: frame 1" || len(out.got[1]) != kernel.MaxMessageBytes {
		t.Fatalf("logged %q", out.got)
	}

	var mirrored strings.Builder
	k.AddTask(taskFunc(func(ctx *kernel.Context) {
		for {
			msg, ok := ctx.TryRecv(conEP)
			if !ok {
				break
			}
			if proto.Kind(msg.Kind) != proto.MsgConsoleWrite {
				t.Errorf("mirror sent %s", proto.Kind(msg.Kind))
			}
			mirrored.Write(msg.Payload())
		}
		ctx.Sleep(100)
	}))
	k.Run(20)
	if !strings.HasPrefix(mirrored.String(), "redraw: frame 1\n") {
		t.Fatalf("mirrored %q", mirrored.String())
	}
}
