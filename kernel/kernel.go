// Package kernel is a single-threaded cooperative scheduler with mailbox IPC.
//
// A task's Step runs to completion. A task suspends only by asking to: it
// sleeps, it receives on an empty endpoint, or it waits for a held Resource.
package kernel

import "fmt"

const (
	maxTasks     = 32
	maxEndpoints = 32
	mailboxSlots = 8
)

type TaskID uint8

// Rights define which operations are allowed for a capability.
type Rights uint8

const (
	RightSend Rights = 1 << iota
	RightRecv
)

// Endpoint identifies an IPC destination.
type Endpoint uint8

// Capability grants access to an IPC endpoint.
//
// It is opaque (no exported fields) and may be transferred via IPC.
type Capability struct {
	ep     Endpoint
	rights Rights
}

func (c Capability) valid() bool {
	return c.rights != 0
}

func (c Capability) Valid() bool { return c.valid() }

func (c Capability) canSend() bool { return c.rights&RightSend != 0 }
func (c Capability) canRecv() bool { return c.rights&RightRecv != 0 }

// Restrict returns a capability with a reduced set of rights.
func (c Capability) Restrict(rights Rights) Capability {
	if !c.valid() {
		return Capability{}
	}
	r := c.rights & rights
	if r == 0 {
		return Capability{}
	}
	return Capability{ep: c.ep, rights: r}
}

// MaxMessageBytes is the maximum payload size for IPC messages.
const MaxMessageBytes = 128

// Message is a fixed-size IPC envelope.
type Message struct {
	From Endpoint
	To   Endpoint
	Kind uint16
	Len  uint16
	Data [MaxMessageBytes]byte
	Cap  Capability
}

// Payload returns the valid part of Data.
func (m *Message) Payload() []byte {
	n := int(m.Len)
	if n > MaxMessageBytes {
		n = MaxMessageBytes
	}
	return m.Data[:n]
}

// SendResult describes the outcome of a send attempt.
type SendResult uint8

const (
	SendOK SendResult = iota
	SendErrInvalidFromCap
	SendErrInvalidToCap
	SendErrFromNoSendRight
	SendErrToNoSendRight
	SendErrNoEndpoint
	SendErrPayloadTooLarge
	SendErrQueueFull
)

func (r SendResult) String() string {
	switch r {
	case SendOK:
		return "ok"
	case SendErrInvalidFromCap:
		return "invalid from capability"
	case SendErrInvalidToCap:
		return "invalid to capability"
	case SendErrFromNoSendRight:
		return "from capability has no send right"
	case SendErrToNoSendRight:
		return "to capability has no send right"
	case SendErrNoEndpoint:
		return "no such endpoint"
	case SendErrPayloadTooLarge:
		return "payload too large"
	case SendErrQueueFull:
		return "queue full"
	default:
		return "unknown"
	}
}

// Task is a cooperative unit of execution.
type Task interface {
	Step(*Context)
}

type endpointState struct {
	q        mailbox
	waitMask uint32
}

type taskState struct {
	task     Task
	runnable bool
	waiting  Endpoint

	sleeping bool
	deadline uint64

	// holds counts the resources the task owns.
	holds int
}

// Kernel is a minimal cooperative scheduler plus IPC router.
type Kernel struct {
	endpoints     [maxEndpoints]endpointState
	endpointCount Endpoint

	tasks     [maxTasks]taskState
	taskCount TaskID

	rr  TaskID
	now uint64

	panic panicState
}

// New creates a kernel instance.
func New() *Kernel {
	return &Kernel{}
}

// NewEndpoint allocates a new endpoint and returns a capability for it.
func (k *Kernel) NewEndpoint(rights Rights) Capability {
	if k.endpointCount >= maxEndpoints {
		return Capability{}
	}
	ep := k.endpointCount
	k.endpointCount++
	return Capability{ep: ep, rights: rights}
}

// AddTask registers a task and returns its ID.
func (k *Kernel) AddTask(t Task) TaskID {
	if k.taskCount >= maxTasks {
		panic(fmt.Sprintf("kernel: more than %d tasks", maxTasks))
	}
	id := k.taskCount
	k.taskCount++
	k.tasks[id] = taskState{task: t, runnable: true}
	return id
}

// Now is the last tick passed to TickTo.
func (k *Kernel) Now() uint64 { return k.now }

// Step runs at most one runnable task step and reports whether one ran.
// In panic mode nothing runs.
func (k *Kernel) Step() bool {
	if k.taskCount == 0 || k.InPanicMode() {
		return false
	}

	for i := TaskID(0); i < k.taskCount; i++ {
		id := (k.rr + i) % k.taskCount
		st := &k.tasks[id]
		if st.task == nil || !st.runnable {
			continue
		}

		k.rr = (id + 1) % k.taskCount
		ctx, ok := k.run(id, st)
		if !ok {
			return true
		}

		switch {
		case ctx.exited:
			st.runnable = false
			st.task = nil
		case ctx.sleeping:
			st.runnable = false
			st.sleeping = true
			st.deadline = ctx.deadline
		case ctx.blockOnRes:
			st.runnable = false
		case ctx.blocked:
			st.runnable = false
			st.waiting = ctx.blockOn
			if st.waiting < k.endpointCount {
				k.endpoints[st.waiting].waitMask |= 1 << id
			}
		}
		return true
	}
	return false
}

func (k *Kernel) run(id TaskID, st *taskState) (ctx *Context, ok bool) {
	ctx = &Context{k: k, taskID: id}
	defer func() {
		if r := recover(); r != nil {
			k.triggerPanic(PanicInfo{TaskID: id, Value: r})
			ok = false
		}
	}()
	st.task.Step(ctx)
	return ctx, true
}

// Run steps tasks until none is runnable or max steps ran, and returns the
// number of steps. max <= 0 means no limit.
func (k *Kernel) Run(max int) int {
	n := 0
	for max <= 0 || n < max {
		if !k.Step() {
			break
		}
		n++
	}
	return n
}

// Idle reports whether no task is runnable.
func (k *Kernel) Idle() bool {
	for id := TaskID(0); id < k.taskCount; id++ {
		if k.tasks[id].runnable {
			return false
		}
	}
	return true
}

// TickTo advances the clock to now and wakes sleepers whose deadline passed.
// The clock never moves backwards.
func (k *Kernel) TickTo(now uint64) {
	if now > k.now {
		k.now = now
	}
	for id := TaskID(0); id < k.taskCount; id++ {
		st := &k.tasks[id]
		if st.sleeping && st.deadline <= k.now {
			st.sleeping = false
			st.runnable = true
		}
	}
}

// Tick advances the clock by one.
func (k *Kernel) Tick() { k.TickTo(k.now + 1) }

// NextDeadline is the earliest sleep deadline, if any task sleeps.
func (k *Kernel) NextDeadline() (uint64, bool) {
	var next uint64
	found := false
	for id := TaskID(0); id < k.taskCount; id++ {
		st := &k.tasks[id]
		if st.sleeping && (!found || st.deadline < next) {
			next, found = st.deadline, true
		}
	}
	return next, found
}

func (k *Kernel) wake(mask uint32) {
	for tid := TaskID(0); tid < k.taskCount; tid++ {
		if mask&(1<<tid) != 0 {
			k.tasks[tid].runnable = true
		}
	}
}

func (k *Kernel) send(from Endpoint, to Endpoint, kind uint16, payload []byte, xfer Capability) SendResult {
	if to >= k.endpointCount {
		return SendErrNoEndpoint
	}
	if len(payload) > MaxMessageBytes {
		return SendErrPayloadTooLarge
	}

	var msg Message
	msg.From = from
	msg.To = to
	msg.Kind = kind
	msg.Len = uint16(len(payload))
	copy(msg.Data[:], payload)
	msg.Cap = xfer

	ep := &k.endpoints[to]
	if !ep.q.push(msg) {
		return SendErrQueueFull
	}

	k.wake(ep.waitMask)
	ep.waitMask = 0
	return SendOK
}

func (k *Kernel) recv(to Endpoint) (Message, bool) {
	if to >= k.endpointCount {
		return Message{}, false
	}
	return k.endpoints[to].q.pop()
}

// Queued reports the messages waiting on the endpoint of c and how many sends
// to it were refused because it was full.
func (k *Kernel) Queued(c Capability) (n int, dropped uint32) {
	if !c.valid() || c.ep >= k.endpointCount {
		return 0, 0
	}
	q := &k.endpoints[c.ep].q
	return q.n, q.dropped
}
