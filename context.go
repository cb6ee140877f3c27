package rotolog

// Context is a named view over a Logger: every message it writes carries the
// module label. It holds no state beyond the label and a reference to its
// parent, so dropping a Context requires no teardown.
type Context struct {
	label  string
	logger *Logger
}

// Context returns the sub-logger for the given module label, creating and
// caching it on first use. Contexts live as long as their Logger.
func (l *Logger) Context(label string) *Context {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.contexts == nil {
		l.contexts = make(map[string]*Context)
	}
	if c, ok := l.contexts[label]; ok {
		return c
	}
	c := &Context{label: label, logger: l}
	l.contexts[label] = c
	return c
}

// Name returns the module label of this context.
func (c *Context) Name() string { return c.label }

// Spam logs a message at spam level under this context's label.
func (c *Context) Spam(args ...any) { c.logger.log(LevelSpam, c.label, newPayload(args...)) }

// Debug logs a message at debug level under this context's label.
func (c *Context) Debug(args ...any) { c.logger.log(LevelDebug, c.label, newPayload(args...)) }

// Verbose logs a message at verbose level under this context's label.
func (c *Context) Verbose(args ...any) { c.logger.log(LevelVerbose, c.label, newPayload(args...)) }

// Info logs a message at info level under this context's label.
func (c *Context) Info(args ...any) { c.logger.log(LevelInfo, c.label, newPayload(args...)) }

// Warning logs a message at warning level under this context's label.
func (c *Context) Warning(args ...any) { c.logger.log(LevelWarning, c.label, newPayload(args...)) }

// Error logs a message at error level under this context's label.
func (c *Context) Error(args ...any) { c.logger.log(LevelError, c.label, newPayload(args...)) }

// Log writes a tagged payload at the given level under this context's label.
func (c *Context) Log(level Level, p Payload) { c.logger.log(level, c.label, p) }
