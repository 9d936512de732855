package worker

// Fault is a business failure: the collaborator answered, but with nothing
// usable. It carries the message the user may see; the runner forwards it
// to the error topic instead of the stage's generic fallback.
type Fault struct {
	Message string
}

func (f *Fault) Error() string {
	return f.Message
}

func NewFault(message string) *Fault {
	return &Fault{Message: message}
}
