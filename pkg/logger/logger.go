package logger

// Field is a single structured key/value attached to a log entry
type Field struct {
	Key   string
	Value any
}

// Err wraps an error under the conventional "err" key
func Err(err error) Field {
	return Field{Key: "err", Value: err}
}

// Client is the logging surface used across the service
type Client interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Client
}

type nop struct{}

// Nop returns a Client that drops everything
func Nop() Client { return nop{} }

func (nop) Debug(string, ...Field) {}
func (nop) Info(string, ...Field)  {}
func (nop) Warn(string, ...Field)  {}
func (nop) Error(string, ...Field) {}
func (n nop) With(...Field) Client { return n }
