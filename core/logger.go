package core

// Logger is any service that can log events.
// Extra args may carry an error, a map[string]interface{} of custom data or the request Actor.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Actor is the upstream-authenticated person behind a request.
type Actor struct {
	ID       string
	Username string
	Email    string
}
