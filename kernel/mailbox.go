package kernel

// mailbox is a fixed ring of messages. A push onto a full ring is counted and
// refused.
type mailbox struct {
	slots   [mailboxSlots]Message
	start   int
	n       int
	dropped uint32
}

func (mb *mailbox) push(msg Message) bool {
	if mb.n == len(mb.slots) {
		mb.dropped++
		return false
	}
	mb.slots[(mb.start+mb.n)%len(mb.slots)] = msg
	mb.n++
	return true
}

func (mb *mailbox) pop() (Message, bool) {
	if mb.n == 0 {
		return Message{}, false
	}
	msg := mb.slots[mb.start]
	mb.slots[mb.start] = Message{}
	mb.start = (mb.start + 1) % len(mb.slots)
	mb.n--
	return msg, true
}
