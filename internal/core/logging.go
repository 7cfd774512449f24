package core

import (
	"fmt"

	"github.com/felixgeelhaar/bolt/v3"
)

// LogMethodCalls returns a listener that logs method call events at debug level.
func LogMethodCalls(logger *bolt.Logger) Listener {
	return func(name string, event any) {
		call, ok := event.(*MethodCallEvent)
		if !ok {
			return
		}

		entry := logger.Debug().
			Str("event", name).
			Str("subject", fmt.Sprintf("%T", call.Subject)).
			Str("method", call.Method).
			Int("args", len(call.Arguments))

		if call.Example != nil {
			entry = entry.Str("example", call.Example.Title).Str("example_id", call.Example.ID.String())
		}

		entry.Msg("method call")
	}
}
