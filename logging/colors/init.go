package colors

// enabled describes whether Colorize emits ANSI escape codes.
var enabled bool

// init enables ANSI coloring where the platform supports it. Unix terminals support it by default and Windows
// needs a console mode query.
func init() {
	EnableColor()
}

// DisableColor turns off ANSI output for every ColorFunc, e.g. when the user passes --no-color.
func DisableColor() {
	enabled = false
}

// Enabled reports whether ANSI output is currently on.
func Enabled() bool {
	return enabled
}
