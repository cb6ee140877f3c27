package rotolog

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"
)

// Payload is the tagged input accepted by the log entry point. Exactly two
// shapes exist: ErrorPayload for structured error values and ArgsPayload for
// free-form formatting arguments.
type Payload interface {
	message() string
}

// ErrorPayload carries a structured error value: its concrete kind, its
// message, and an optional call trace of where it was captured.
type ErrorPayload struct {
	Kind    string
	Message string
	Trace   string
}

func (p ErrorPayload) message() string {
	var b strings.Builder
	b.Grow(len(p.Kind) + len(p.Message) + len(p.Trace) + 8)
	b.WriteString(p.Kind)
	b.WriteString(": ")
	b.WriteString(p.Message)
	if p.Trace != "" {
		b.WriteString(" [")
		b.WriteString(p.Trace)
		b.WriteByte(']')
	}
	return b.String()
}

// ArgsPayload carries a free-form argument list rendered space-separated.
type ArgsPayload struct {
	Values []any
}

func (p ArgsPayload) message() string {
	var b strings.Builder
	for i, v := range p.Values {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(stringify(v))
	}
	return b.String()
}

// NewErrorPayload builds an ErrorPayload from an error value, capturing the
// concrete type as the kind and a short call trace of the capture site.
func NewErrorPayload(err error) ErrorPayload {
	const skipTrace = 3 // NewErrorPayload, newPayload, and the leveled method
	return ErrorPayload{
		Kind:    fmt.Sprintf("%T", err),
		Message: err.Error(),
		Trace:   callTrace(2, skipTrace),
	}
}

// newPayload maps a leveled call's arguments onto the tagged payload type:
// a single error value becomes an ErrorPayload, anything else an ArgsPayload.
func newPayload(args ...any) Payload {
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			return NewErrorPayload(err)
		}
	}
	return ArgsPayload{Values: args}
}

// callTrace renders up to depth caller frames as "outer -> inner", skipping
// the given number of frames above the capture site. Frame names are reduced
// to their base form; compiler-generated closure names are flagged.
func callTrace(depth, skip int) string {
	if depth <= 0 {
		return ""
	}

	pc := make([]uintptr, depth+skip)
	n := runtime.Callers(skip, pc)
	if n == 0 {
		return "(unknown)"
	}
	frames := runtime.CallersFrames(pc[:n])

	var names []string
	for len(names) < depth {
		frame, more := frames.Next()
		if frame.Function != "" {
			names = append(names, frameName(frame.Function))
		}
		if !more {
			break
		}
	}
	if len(names) == 0 {
		return "(unknown)"
	}

	// Callers reports innermost first; the trace reads outermost first.
	var b strings.Builder
	for i := len(names) - 1; i >= 0; i-- {
		if b.Len() > 0 {
			b.WriteString(" -> ")
		}
		b.WriteString(names[i])
	}
	return b.String()
}

// frameName strips the import path from a fully qualified function name and
// marks closures, whose compiler-assigned names ("funcN") carry no meaning.
func frameName(fn string) string {
	name := filepath.Base(fn)
	last := name[strings.LastIndexByte(name, '.')+1:]
	if rest, ok := strings.CutPrefix(last, "func"); ok && rest != "" {
		anonymous := true
		for _, r := range rest {
			if !unicode.IsDigit(r) {
				anonymous = false
				break
			}
		}
		if anonymous {
			return "(anonymous " + name + ")"
		}
	}
	return name
}
