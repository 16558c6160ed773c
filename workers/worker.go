package workers

// Worker consumes one queue payload at a time. A nil return acks the
// message; an error nacks it back onto the queue.
type Worker interface {
	Process(payload []byte) error
}
