package sdf

import "github.com/rs/zerolog"

// Logger is the minimal structured-logging surface pkg/sdf needs. It lets
// callers plug in zerolog (as the composer CLI does) without this package
// importing a concrete logger by default.
type Logger interface {
	Debug(msg string, keyvals ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}

// ZerologAdapter adapts a zerolog.Logger to the Logger interface, pairing
// keyvals up as structured fields.
type ZerologAdapter struct {
	Log zerolog.Logger
}

func (z ZerologAdapter) Debug(msg string, keyvals ...interface{}) {
	ev := z.Log.Debug()
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, keyvals[i+1])
	}
	ev.Msg(msg)
}
