package glutil

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type DebugSource uint32

const (
	DebugSourceAPI            DebugSource = 0x8246
	DebugSourceWindowSystem   DebugSource = 0x8247
	DebugSourceShaderCompiler DebugSource = 0x8248
	DebugSourceThirdParty     DebugSource = 0x8249
	DebugSourceApplication    DebugSource = 0x824A
	DebugSourceOther          DebugSource = 0x824B
)

func (s DebugSource) String() string {
	switch s {
	case DebugSourceAPI:
		return "API"
	case DebugSourceWindowSystem:
		return "Window System"
	case DebugSourceShaderCompiler:
		return "Shader Compiler"
	case DebugSourceThirdParty:
		return "Third Party"
	case DebugSourceApplication:
		return "Application"
	case DebugSourceOther:
		return "Other"
	}
	return "Unknown"
}

type DebugType uint32

const (
	DebugTypeError              DebugType = 0x824C
	DebugTypeDeprecatedBehavior DebugType = 0x824D
	DebugTypeUndefinedBehavior  DebugType = 0x824E
	DebugTypePortability        DebugType = 0x824F
	DebugTypePerformance        DebugType = 0x8250
	DebugTypeOther              DebugType = 0x8251
	DebugTypeMarker             DebugType = 0x8268
	DebugTypePushGroup          DebugType = 0x8269
	DebugTypePopGroup           DebugType = 0x826A
)

func (t DebugType) String() string {
	switch t {
	case DebugTypeError:
		return "Error"
	case DebugTypeDeprecatedBehavior:
		return "Deprecated Behavior"
	case DebugTypeUndefinedBehavior:
		return "Undefined Behavior"
	case DebugTypePortability:
		return "Portability"
	case DebugTypePerformance:
		return "Performance"
	case DebugTypeOther:
		return "Other"
	case DebugTypeMarker:
		return "Marker"
	case DebugTypePushGroup:
		return "Push Group"
	case DebugTypePopGroup:
		return "Pop Group"
	}
	return "Unknown"
}

type DebugSeverity uint32

const (
	DebugSeverityHigh         DebugSeverity = 0x9146
	DebugSeverityMedium       DebugSeverity = 0x9147
	DebugSeverityLow          DebugSeverity = 0x9148
	DebugSeverityNotification DebugSeverity = 0x826B
)

func (s DebugSeverity) String() string {
	switch s {
	case DebugSeverityHigh:
		return "High"
	case DebugSeverityMedium:
		return "Medium"
	case DebugSeverityLow:
		return "Low"
	case DebugSeverityNotification:
		return "Notification"
	}
	return "Unknown"
}

// level maps a severity onto a log level.
func (s DebugSeverity) level() zapcore.Level {
	switch s {
	case DebugSeverityHigh:
		return zapcore.ErrorLevel
	case DebugSeverityMedium:
		return zapcore.WarnLevel
	case DebugSeverityNotification:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// DebugMessage is one message delivered by the driver's debug output.
type DebugMessage struct {
	Source   DebugSource
	Type     DebugType
	ID       uint32
	Severity DebugSeverity
	Message  string
}

// DebugFunc receives debug messages. It runs on the GL thread, inside the
// driver call that produced the message when output is synchronous.
type DebugFunc func(DebugMessage)

// FormatDebugMessage renders m as a single line.
func FormatDebugMessage(m DebugMessage) string {
	return fmt.Sprintf("OpenGL Debug Message: source: %s, type: %s, id: %d, severity: %s, message: %s",
		m.Source, m.Type, m.ID, m.Severity, m.Message)
}

// DebugLogger returns a DebugFunc that writes messages to log.
// Notification severity messages are dropped.
func DebugLogger(log *zap.Logger) DebugFunc {
	return func(m DebugMessage) {
		if m.Severity == DebugSeverityNotification {
			return
		}
		if ce := log.Check(m.Severity.level(), FormatDebugMessage(m)); ce != nil {
			ce.Write(
				zap.Stringer("source", m.Source),
				zap.Stringer("type", m.Type),
				zap.Uint32("id", m.ID),
				zap.Stringer("severity", m.Severity),
			)
		}
	}
}

// EnableDebugOutput turns on synchronous debug output and installs fn.
// The context should have been created with the debug flag, otherwise
// drivers may deliver few or no messages. A nil fn is a no-op.
func EnableDebugOutput(d Driver, fn DebugFunc) {
	if fn == nil {
		return
	}
	d.Enable(debugOutput)
	d.Enable(debugOutputSynchronous)
	d.DebugMessageCallback(fn)
}
