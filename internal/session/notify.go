package session

// Notifier receives short user-facing notices ("Collection imported", "Next question", ...).
type Notifier interface {
	Notify(msg string)
}

type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

type discardNotifier struct{}

func (discardNotifier) Notify(string) {}

// Recorder keeps every notice; useful in tests and for batching output.
type Recorder struct {
	Messages []string
}

func (r *Recorder) Notify(msg string) { r.Messages = append(r.Messages, msg) }

func (r *Recorder) Last() string {
	if len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[len(r.Messages)-1]
}

// Drain returns the recorded notices and forgets them.
func (r *Recorder) Drain() []string {
	out := r.Messages
	r.Messages = nil
	return out
}
