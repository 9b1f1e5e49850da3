package kernel

import "fmt"

// Resource guards a value that at most one task may use at a time.
//
// A task acquires it, uses the value and releases it within its steps; it may
// keep it across steps but may not suspend while holding it.
type Resource[T any] struct {
	k    *Kernel
	name string
	v    T

	held     bool
	owner    TaskID
	waitMask uint32
}

// NewResource wraps v for tasks of k.
func NewResource[T any](k *Kernel, name string, v T) *Resource[T] {
	return &Resource[T]{k: k, name: name, v: v}
}

func (r *Resource[T]) String() string { return r.name }

// Acquire grants the value to the calling task. When another task holds it,
// Acquire suspends the caller until Release and reports false; the caller
// must return from Step and try again on its next step.
func (r *Resource[T]) Acquire(ctx *Context) (T, bool) {
	if r.held {
		if r.owner == ctx.taskID {
			panic(fmt.Sprintf("kernel: task %d acquires %s twice", ctx.taskID, r.name))
		}
		ctx.suspend("waits for " + r.name)
		ctx.blockOnRes = true
		r.waitMask |= 1 << ctx.taskID
		var zero T
		return zero, false
	}
	r.held = true
	r.owner = ctx.taskID
	r.k.tasks[ctx.taskID].holds++
	return r.v, true
}

// Release gives the value back and wakes the waiting tasks. Only the owner
// may release.
func (r *Resource[T]) Release(ctx *Context) {
	if !r.held || r.owner != ctx.taskID {
		panic(fmt.Sprintf("kernel: task %d releases %s it does not hold", ctx.taskID, r.name))
	}
	r.held = false
	r.k.tasks[ctx.taskID].holds--
	r.k.wake(r.waitMask)
	r.waitMask = 0
}

// Held reports whether a task owns the value.
func (r *Resource[T]) Held() bool { return r.held }

// With acquires the resource, runs fn and releases it. It reports false when
// the caller was suspended instead.
func (r *Resource[T]) With(ctx *Context, fn func(T)) bool {
	v, ok := r.Acquire(ctx)
	if !ok {
		return false
	}
	defer r.Release(ctx)
	fn(v)
	return true
}
