package adaptors

type LogLevel string

const (
	Trace LogLevel = "trace"
	Debug LogLevel = "debug"
	Info  LogLevel = "info"
	Warn  LogLevel = "warn"
	Error LogLevel = "error"
)

// IsValid reports whether l is one of the supported levels.
func (l LogLevel) IsValid() bool {
	switch l {
	case Trace, Debug, Info, Warn, Error:
		return true
	}
	return false
}
