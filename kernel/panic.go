package kernel

// PanicInfo contains details about a recovered panic.
type PanicInfo struct {
	TaskID TaskID
	Value  any
	Stack  []byte
}

type panicState struct {
	active  bool
	info    PanicInfo
	handler func(PanicInfo)
}

// InPanicMode reports whether a task panicked. The kernel schedules nothing
// afterwards.
func (k *Kernel) InPanicMode() bool {
	return k.panic.active
}

// Panic returns the recorded panic, if any.
func (k *Kernel) Panic() (PanicInfo, bool) {
	return k.panic.info, k.panic.active
}

// SetPanicHandler installs the panic handler.
//
// The handler is invoked at most once (on the first panic). It must not panic.
func (k *Kernel) SetPanicHandler(fn func(PanicInfo)) {
	k.panic.handler = fn
}

func (k *Kernel) triggerPanic(info PanicInfo) {
	if k.panic.active {
		return
	}
	k.panic.active = true
	info.Stack = captureStack()
	k.panic.info = info
	if fn := k.panic.handler; fn != nil {
		fn(info)
	}
}
