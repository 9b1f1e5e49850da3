package logger

import (
	"disco/client/console"
	"disco/hal"
	"disco/kernel"
	"disco/proto"
)

// Service writes MsgLogLine payloads to a hal.Logger. When a console
// capability is set, each line is also shown on the panel console.
type Service struct {
	log     hal.Logger
	ep      kernel.Capability
	console kernel.Capability
}

func New(log hal.Logger, ep kernel.Capability) *Service {
	return &Service{log: log, ep: ep}
}

// Mirror copies every line to the console endpoint.
func (s *Service) Mirror(conCap kernel.Capability) *Service {
	s.console = conCap
	return s
}

func (s *Service) Step(ctx *kernel.Context) {
	msg, ok := ctx.Recv(s.ep)
	if !ok {
		return
	}
	if msg.Kind != uint16(proto.MsgLogLine) {
		return
	}
	line := msg.Payload()
	if s.log != nil {
		s.log.WriteLineBytes(line)
	}
	if s.console.Valid() {
		_ = console.Write(ctx, s.console, string(line)+"\n")
	}
}
