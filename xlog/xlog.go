// Package xlog builds the zerolog loggers handed to Pipelines and modules.
//
// There is no package-level singleton: callers build a *zerolog.Logger with
// New and pass it explicitly to constructors (pipeline.New, out.NewPrint,
// dash.NewWriter) rather than reaching for a global.
package xlog

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New builds a logger at the given level. When pretty is true and stderr is
// a terminal, output goes through a zerolog.ConsoleWriter (colorable on
// Windows via mattn/go-colorable, which zerolog's ConsoleWriter uses
// internally); otherwise it emits newline-delimited JSON.
func New(level zerolog.Level, pretty bool) *zerolog.Logger {
	var w io.Writer = os.Stderr
	if pretty && isatty.IsTerminal(os.Stderr.Fd()) {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}
	}
	l := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return &l
}

// Nop returns a logger that discards everything, used as the zero-value
// default so components never need a nil check before logging.
func Nop() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ParseLevel maps the four severities (Debug/Info/Warning/Error) onto
// zerolog's levels, defaulting to Info on an unrecognized name.
func ParseLevel(s string) zerolog.Level {
	if strings.EqualFold(s, "warning") {
		return zerolog.WarnLevel
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}
