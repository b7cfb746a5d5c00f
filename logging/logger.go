package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/crytic/soldrive/logging/colors"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

// GlobalLogger describes a Logger that is disabled by default and is configured by the CLI once the project
// configuration has been read. Each package should create its own sub-logger from it.
var GlobalLogger = NewLogger(zerolog.Disabled)

// Logger describes a custom logging object that can log events to any arbitrary channel in structured, unstructured,
// or colored unstructured format.
type Logger struct {
	// level describes the log level
	level zerolog.Level

	// context describes the key-value pairs attached by NewSubLogger. They are replayed onto every underlying
	// zerolog.Logger whenever the writer sets change.
	context []contextField

	// structuredLogger logs JSON to structuredWriters
	structuredLogger zerolog.Logger

	// structuredWriters describes the writers receiving JSON output
	structuredWriters []io.Writer

	// unstructuredLogger logs human-readable, uncolored output to unstructuredWriters
	unstructuredLogger zerolog.Logger

	// unstructuredWriters describes the writers receiving uncolored console-style output
	unstructuredWriters []io.Writer

	// unstructuredColorLogger logs human-readable, colored output to unstructuredColorWriters
	unstructuredColorLogger zerolog.Logger

	// unstructuredColorWriters describes the writers receiving colored console-style output
	unstructuredColorWriters []io.Writer
}

// contextField is a single key-value pair of sub-logger context.
type contextField struct {
	key   string
	value string
}

// LogFormat describes what format to log in
type LogFormat string

const (
	// STRUCTURED describes that logging should be done in structured JSON format
	STRUCTURED LogFormat = "structured"
	// UNSTRUCTURED describes that logging should be done in an unstructured format
	UNSTRUCTURED LogFormat = "unstructured"
)

// StructuredLogInfo describes a key-value mapping that can be used to log structured data
type StructuredLogInfo map[string]any

// NewLogger will create a new Logger object with a specific log level. The Logger has no writers until AddWriter is
// called, so nothing is emitted by default.
func NewLogger(level zerolog.Level) *Logger {
	l := &Logger{
		level:                    level,
		structuredWriters:        make([]io.Writer, 0),
		unstructuredWriters:      make([]io.Writer, 0),
		unstructuredColorWriters: make([]io.Writer, 0),
	}
	l.rebuild()
	return l
}

// NewSubLogger will create a new Logger with unique context in the form of a key-value pair. The expected use of this
// function is for each package to have their own unique logger so that parsing of logs is "grep-able" based on some key
func (l *Logger) NewSubLogger(key string, value string) *Logger {
	sub := &Logger{
		level:                    l.level,
		context:                  append(slices.Clone(l.context), contextField{key: key, value: value}),
		structuredWriters:        l.structuredWriters,
		unstructuredWriters:      l.unstructuredWriters,
		unstructuredColorWriters: l.unstructuredColorWriters,
	}
	sub.rebuild()
	return sub
}

// AddWriter will add a writer to the list of channels where log output will be sent. Adding a writer that is already
// registered for the same format and coloring is a no-op.
func (l *Logger) AddWriter(writer io.Writer, format LogFormat, colored bool) {
	writers := l.writerList(format, colored)
	if slices.Contains(*writers, writer) {
		return
	}
	*writers = append(*writers, writer)
	l.rebuild()
}

// RemoveWriter will remove a writer from the list of writers that the logger manages. If the writer does not exist,
// this function is a no-op
func (l *Logger) RemoveWriter(writer io.Writer, format LogFormat, colored bool) {
	writers := l.writerList(format, colored)
	if i := slices.Index(*writers, writer); i != -1 {
		*writers = slices.Delete(*writers, i, i+1)
		l.rebuild()
	}
}

// writerList returns a pointer to the writer list holding writers of the given format and coloring.
func (l *Logger) writerList(format LogFormat, colored bool) *[]io.Writer {
	if format == STRUCTURED {
		return &l.structuredWriters
	}
	if colored {
		return &l.unstructuredColorWriters
	}
	return &l.unstructuredWriters
}

// rebuild recreates the underlying zerolog loggers from the current writer sets, level and context.
func (l *Logger) rebuild() {
	// Structured output carries timestamps; console output does not.
	structured := zerolog.Nop()
	if len(l.structuredWriters) > 0 {
		structured = zerolog.New(zerolog.MultiLevelWriter(l.structuredWriters...)).With().Timestamp().Logger()
	}

	unstructured := zerolog.Nop()
	if len(l.unstructuredWriters) > 0 {
		consoleWriters := make([]io.Writer, 0, len(l.unstructuredWriters))
		for _, w := range l.unstructuredWriters {
			consoleWriters = append(consoleWriters, setupDefaultFormatting(zerolog.ConsoleWriter{Out: w, NoColor: true}, l.level))
		}
		unstructured = zerolog.New(zerolog.MultiLevelWriter(consoleWriters...))
	}

	unstructuredColor := zerolog.Nop()
	if len(l.unstructuredColorWriters) > 0 {
		consoleWriters := make([]io.Writer, 0, len(l.unstructuredColorWriters))
		for _, w := range l.unstructuredColorWriters {
			consoleWriters = append(consoleWriters, setupDefaultFormatting(zerolog.ConsoleWriter{Out: w}, l.level))
		}
		unstructuredColor = zerolog.New(zerolog.MultiLevelWriter(consoleWriters...))
	}

	for _, field := range l.context {
		structured = structured.With().Str(field.key, field.value).Logger()
		unstructured = unstructured.With().Str(field.key, field.value).Logger()
		unstructuredColor = unstructuredColor.With().Str(field.key, field.value).Logger()
	}

	l.structuredLogger = structured.Level(l.level)
	l.unstructuredLogger = unstructured.Level(l.level)
	l.unstructuredColorLogger = unstructuredColor.Level(l.level)
}

// Level will get the log level of the Logger
func (l *Logger) Level() zerolog.Level {
	return l.level
}

// SetLevel will update the log level of the Logger
func (l *Logger) SetLevel(level zerolog.Level) {
	l.level = level
	l.rebuild()
}

// Trace is a wrapper function that will log a trace event
func (l *Logger) Trace(args ...any) {
	l.log(zerolog.TraceLevel, args...)
}

// Debug is a wrapper function that will log a debug event
func (l *Logger) Debug(args ...any) {
	l.log(zerolog.DebugLevel, args...)
}

// Info is a wrapper function that will log an info event
func (l *Logger) Info(args ...any) {
	l.log(zerolog.InfoLevel, args...)
}

// Warn is a wrapper function that will log a warning event
func (l *Logger) Warn(args ...any) {
	l.log(zerolog.WarnLevel, args...)
}

// Error is a wrapper function that will log an error event.
func (l *Logger) Error(args ...any) {
	l.log(zerolog.ErrorLevel, args...)
}

// Panic is a wrapper function that will log a panic event and then panic with the plain message.
func (l *Logger) Panic(args ...any) {
	l.log(zerolog.ErrorLevel, args...)
	_, plainMsg, err, _ := buildMsgs(args...)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", plainMsg, err))
	}
	panic(plainMsg)
}

// log builds the messages for args and sends an event of the given level to every underlying logger.
func (l *Logger) log(level zerolog.Level, args ...any) {
	// Build the messages and retrieve any error or associated structured log info
	coloredMsg, plainMsg, err, info := buildMsgs(args...)

	// Stack traces only make sense once we are debugging.
	withStack := l.level <= zerolog.DebugLevel

	send(l.structuredLogger.WithLevel(level), plainMsg, err, info, withStack)
	send(l.unstructuredLogger.WithLevel(level), plainMsg, err, info, withStack)
	send(l.unstructuredColorLogger.WithLevel(level), coloredMsg, err, info, withStack)
}

// send chains the error and structured info onto the event and emits it. A nil event (disabled level) is a no-op.
func send(event *zerolog.Event, msg string, err error, info StructuredLogInfo, withStack bool) {
	if event == nil {
		return
	}
	if err != nil {
		event = event.Err(err)
		if withStack {
			event = event.Stack()
		}
	}
	if info != nil {
		event = event.Any("info", info)
	}
	event.Msg(msg)
}

// buildMsgs describes a function that takes in a variadic list of arguments of any type and returns two strings and,
// optionally, an error and a StructuredLogInfo object. The first string will be a colorized-string that can be used for
// console logging while the second string will be a non-colorized one that can be used for file/structured logging.
// The error and the StructuredLogInfo can be used to add additional context to log messages
func buildMsgs(args ...any) (string, string, error, StructuredLogInfo) {
	// Guard clause
	if len(args) == 0 {
		return "", "", nil, nil
	}

	// Initialize the base color context, the string buffers and the structured log info object
	colorCtx := colors.Reset
	consoleOutput := make([]string, 0)
	fileOutput := make([]string, 0)
	var info StructuredLogInfo
	var err error

	// Iterate through each argument in the list and switch on type
	for _, arg := range args {
		switch t := arg.(type) {
		case colors.ColorFunc:
			// If the argument is a color function, switch the current color context
			colorCtx = t
		case StructuredLogInfo:
			// Note that only one structured log info can be provided for each log message
			info = t
		case error:
			// Note that only one error can be provided for each log message
			err = t
		default:
			// In the base case, append the object to the two string buffers. The console string buffer will have the
			// current color context applied to it.
			consoleOutput = append(consoleOutput, colorCtx(t))
			fileOutput = append(fileOutput, fmt.Sprintf("%v", t))
		}
	}

	return strings.Join(consoleOutput, ""), strings.Join(fileOutput, ""), err, info
}

// setupDefaultFormatting will update the console logger's formatting to the soldrive standard
func setupDefaultFormatting(writer zerolog.ConsoleWriter, level zerolog.Level) zerolog.ConsoleWriter {
	// Get rid of the timestamp for console output
	writer.FormatTimestamp = func(i interface{}) string {
		return ""
	}

	noColor := writer.NoColor

	// We will define a custom format for each level
	writer.FormatLevel = func(i any) string {
		levelStr, _ := i.(string)
		parsed, err := zerolog.ParseLevel(levelStr)
		if err != nil {
			return levelStr
		}

		pick := func(f colors.ColorFunc, s string) string {
			if noColor {
				return s
			}
			return f(s)
		}

		switch parsed {
		case zerolog.TraceLevel:
			return pick(colors.CyanBold, zerolog.LevelTraceValue)
		case zerolog.DebugLevel:
			return pick(colors.BlueBold, zerolog.LevelDebugValue)
		case zerolog.InfoLevel:
			return pick(colors.GreenBold, colors.LEFT_ARROW)
		case zerolog.WarnLevel:
			return pick(colors.YellowBold, zerolog.LevelWarnValue)
		case zerolog.ErrorLevel:
			return pick(colors.RedBold, zerolog.LevelErrorValue)
		case zerolog.FatalLevel:
			return pick(colors.RedBold, zerolog.LevelFatalValue)
		case zerolog.PanicLevel:
			return pick(colors.RedBold, zerolog.LevelPanicValue)
		default:
			return levelStr
		}
	}

	// Messages arrive already colorized by buildMsgs, so they are written as-is
	writer.FormatMessage = func(i any) string {
		if i == nil {
			return ""
		}
		return fmt.Sprintf("%s", i)
	}

	// Field names honor noColor and colors.DisableColor
	paint := func(f colors.ColorFunc, s string) string {
		if noColor {
			return s
		}
		return f(s)
	}
	writer.FormatFieldName = func(i any) string {
		return paint(colors.CyanBold, fmt.Sprintf("%s=", i))
	}
	writer.FormatErrFieldName = func(i any) string {
		return paint(colors.RedBold, fmt.Sprintf("%s=", i))
	}
	writer.FormatErrFieldValue = func(i any) string {
		return paint(colors.Red, fmt.Sprintf("%s", i))
	}

	// If we are above debug level, we want to get rid of the `module` and `run` components when logging to console
	if level > zerolog.DebugLevel {
		writer.FieldsExclude = []string{"module", "run"}
	}

	return writer
}
