package style

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

var (
	_signature = color.RGB(242, 103, 18).SprintFunc()
	_plain     = color.New().SprintFunc()
	_bold      = color.New(color.Bold).SprintFunc()
	_subMsg    = color.RGB(150, 150, 150).SprintFunc()
	_info      = color.New(color.FgCyan).SprintFunc()
	_warn      = color.New(color.FgYellow, color.Bold).SprintFunc()
	_warnMsg   = color.New(color.FgYellow).SprintFunc()
	_error     = color.New(color.FgRed, color.Bold).SprintFunc()
	_errorMsg  = color.New(color.FgRed).SprintFunc()
	_success   = color.New(color.FgGreen, color.Bold).SprintFunc()
	_okMsg     = color.New(color.FgGreen).SprintFunc()
)

// Destinations for screen output. Progress and info go to Out,
// warnings and errors to ErrOut.
var (
	Out    io.Writer = color.Output
	ErrOut io.Writer = color.Error
)

// Print message in app signature color
func Signature(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	fmt.Fprintln(Out, _signature(msg))
}

// Print message without styling and without new line
func Plain(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	fmt.Fprint(Out, _plain(msg))
}

// Print message without styling
func PlainLn(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	fmt.Fprintln(Out, _plain(msg))
	record(zerolog.InfoLevel, msg)
}

// Print message in bold
func Bold(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	fmt.Fprintln(Out, _bold(msg))
}

// Print message in soft gray
func Sub(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	fmt.Fprintln(Out, _subMsg(msg))
	record(zerolog.DebugLevel, msg)
}

// Print user prompt message. The cursor stays on the prompt line.
func Prompt(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	fmt.Fprint(Out, _info(msg))
}

// Print info message with partial styling
func InfoLite(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	fmt.Fprintln(Out, _info("[INFO]"), msg)
	record(zerolog.InfoLevel, msg)
}

// Print info message with full styling
func Info(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	fmt.Fprintln(Out, _info("[INFO]"), _info(msg))
	record(zerolog.InfoLevel, msg)
}

// Print warning message with partial styling
func WarnLite(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	fmt.Fprintln(ErrOut, _warn("[WARN]"), msg)
	record(zerolog.WarnLevel, msg)
}

// Print warning message with full styling
func Warn(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	fmt.Fprintln(ErrOut, _warn("[WARN]"), _warnMsg(msg))
	record(zerolog.WarnLevel, msg)
}

// Print error message with partial styling
func ErrLite(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	fmt.Fprintln(ErrOut, _error("[ERROR]"), msg)
	record(zerolog.ErrorLevel, msg)
}

// Print error message with full styling
func Err(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	fmt.Fprintln(ErrOut, _error("[ERROR]"), _errorMsg(msg))
	record(zerolog.ErrorLevel, msg)
}

// Print success message with partial styling
func Ok(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	fmt.Fprintln(Out, _okMsg("[OK]"), msg)
	if msg != "" {
		record(zerolog.InfoLevel, msg)
	}
}

// Print success message with full styling
func Success(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	fmt.Fprintln(Out, _success("[SUCCESS]"), _okMsg(msg))
	record(zerolog.InfoLevel, msg)
}
