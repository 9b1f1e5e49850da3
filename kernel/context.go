package kernel

import "fmt"

// Context provides task-local access to kernel operations for one step.
type Context struct {
	k      *Kernel
	taskID TaskID

	blocked    bool
	blockOn    Endpoint
	blockOnRes bool
	sleeping   bool
	deadline   uint64
	exited     bool
}

// TaskID returns the current task ID.
func (c *Context) TaskID() TaskID { return c.taskID }

// NowTick returns the last observed tick value.
func (c *Context) NowTick() uint64 {
	if c.k == nil {
		return 0
	}
	return c.k.now
}

// suspend marks the step as suspending. A task may not suspend while it owns
// a resource.
func (c *Context) suspend(why string) {
	if c.blocked || c.blockOnRes || c.sleeping || c.exited {
		panic(fmt.Sprintf("kernel: task %d suspends twice in one step (%s)", c.taskID, why))
	}
	if n := c.k.tasks[c.taskID].holds; n > 0 {
		panic(fmt.Sprintf("kernel: task %d %s while holding %d resource(s)", c.taskID, why, n))
	}
}

// Recv reads one message from the capability endpoint. When the endpoint is
// empty the task is suspended until a message arrives; the caller must return
// from Step.
func (c *Context) Recv(epCap Capability) (Message, bool) {
	msg, ok := c.TryRecv(epCap)
	if ok || !epCap.valid() || !epCap.canRecv() {
		return msg, ok
	}
	c.suspend("receives")
	c.blocked = true
	c.blockOn = epCap.ep
	return Message{}, false
}

// TryRecv reads one message from the capability endpoint without suspending.
func (c *Context) TryRecv(epCap Capability) (Message, bool) {
	if !epCap.valid() || !epCap.canRecv() {
		return Message{}, false
	}
	return c.k.recv(epCap.ep)
}

// Sleep suspends the task for at least ticks ticks. The caller must return
// from Step. Sleeping while owning a resource panics.
func (c *Context) Sleep(ticks uint64) {
	c.suspend("sleeps")
	c.sleeping = true
	c.deadline = c.k.now + ticks
}

// Exit ends the task after this step. Exiting while owning a resource
// panics.
func (c *Context) Exit() {
	c.suspend("exits")
	c.exited = true
}

// Send sends a message to the capability endpoint.
func (c *Context) Send(fromCap, toCap Capability, kind uint16, payload []byte) bool {
	return c.SendCapResult(fromCap, toCap, kind, payload, Capability{}) == SendOK
}

// SendCapResult sends a message and transfers an optional capability.
func (c *Context) SendCapResult(fromCap, toCap Capability, kind uint16, payload []byte, xfer Capability) SendResult {
	if !fromCap.valid() {
		return SendErrInvalidFromCap
	}
	if !fromCap.canSend() {
		return SendErrFromNoSendRight
	}
	if !toCap.valid() {
		return SendErrInvalidToCap
	}
	if !toCap.canSend() {
		return SendErrToNoSendRight
	}
	return c.k.send(fromCap.ep, toCap.ep, kind, payload, xfer)
}

// SendTo sends a message to the capability endpoint.
//
// The message From field is set to 0 (unknown).
func (c *Context) SendTo(toCap Capability, kind uint16, payload []byte) bool {
	return c.SendToCapResult(toCap, kind, payload, Capability{}) == SendOK
}

// SendToCapResult sends a message and transfers an optional capability.
//
// The message From field is set to 0 (unknown).
func (c *Context) SendToCapResult(toCap Capability, kind uint16, payload []byte, xfer Capability) SendResult {
	if !toCap.valid() {
		return SendErrInvalidToCap
	}
	if !toCap.canSend() {
		return SendErrToNoSendRight
	}
	return c.k.send(0, toCap.ep, kind, payload, xfer)
}

// NewEndpoint allocates a new endpoint and returns a capability for it.
func (c *Context) NewEndpoint(rights Rights) Capability {
	if c.k == nil {
		return Capability{}
	}
	return c.k.NewEndpoint(rights)
}
