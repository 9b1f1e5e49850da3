// Package console sends text to the console service.
package console

import (
	"disco/kernel"
	"disco/proto"
)

// Write sends text to the console in chunks of at most
// kernel.MaxMessageBytes. It stops at the first failed send and returns its
// result.
func Write(ctx *kernel.Context, conCap kernel.Capability, text string) kernel.SendResult {
	if ctx == nil {
		return kernel.SendErrInvalidFromCap
	}
	b := []byte(text)
	for len(b) > 0 {
		n := min(len(b), kernel.MaxMessageBytes)
		if res := ctx.SendToCapResult(conCap, uint16(proto.MsgConsoleWrite), b[:n], kernel.Capability{}); res != kernel.SendOK {
			return res
		}
		b = b[n:]
	}
	return kernel.SendOK
}

// Clear blanks the console.
func Clear(ctx *kernel.Context, conCap kernel.Capability) kernel.SendResult {
	if ctx == nil {
		return kernel.SendErrInvalidFromCap
	}
	return ctx.SendToCapResult(conCap, uint16(proto.MsgConsoleClear), nil, kernel.Capability{})
}
