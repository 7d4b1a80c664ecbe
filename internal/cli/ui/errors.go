package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Level is the severity of a CLI message
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
)

// Message describes a formatted CLI diagnostic
type Message struct {
	Level        Level
	Context      string
	Problem      string
	Detail       string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// Format renders a diagnostic.
//
// Example output:
//
//	❌ TYPE NOT FOUND: Targt
//	   Cannot find type 'Targt' in ./buildfile.
//
//	   Did you mean: Target?
//
//	   → See node types: nodeview inspect --pkg ./buildfile
func Format(m Message) string {
	var b strings.Builder

	header, body, symbol := palette(m.Level)
	if m.NoColor {
		header.DisableColor()
		body.DisableColor()
	}

	if m.Context != "" {
		header.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(m.Context), m.Problem)
	} else {
		header.Fprintf(&b, "%s %s\n", symbol, m.Problem)
	}

	if m.Detail != "" {
		body.Fprintf(&b, "   %s\n", m.Detail)
	}

	if len(m.Suggestions) > 0 {
		yellow := color.New(color.FgYellow)
		if m.NoColor {
			yellow.DisableColor()
		}
		b.WriteString("\n")
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(m.Suggestions, ", "))
	}

	if len(m.HelpCommands) > 0 {
		cyan := color.New(color.FgCyan)
		if m.NoColor {
			cyan.DisableColor()
		}
		b.WriteString("\n")
		for _, cmd := range m.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

func palette(level Level) (*color.Color, *color.Color, string) {
	switch level {
	case LevelWarning:
		return color.New(color.FgYellow, color.Bold), color.New(color.FgYellow), "⚠️"
	case LevelInfo:
		return color.New(color.FgCyan, color.Bold), color.New(color.FgCyan), "ℹ️"
	default:
		return color.New(color.FgRed, color.Bold), color.New(color.FgRed), "❌"
	}
}

// Write writes a formatted diagnostic to w
func Write(w io.Writer, m Message) {
	fmt.Fprint(w, Format(m))
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to w
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// TypeNotFound reports a node type missing from a package
func TypeNotFound(typeName, pkg string, suggestions []string, noColor bool) string {
	return Format(Message{
		Level:       LevelError,
		Context:     "type not found",
		Problem:     typeName,
		Detail:      fmt.Sprintf("Cannot find type '%s' in %s.", typeName, pkg),
		Suggestions: suggestions,
		HelpCommands: []string{
			fmt.Sprintf("See node types: nodeview inspect --pkg %s", pkg),
			"Get help: nodeview generate --help",
		},
		NoColor: noColor,
	})
}

// GenerateFailed reports a type that cannot get a read-only wrapper
func GenerateFailed(typeName string, err error, noColor bool) string {
	return Format(Message{
		Level:   LevelError,
		Context: "generate failed",
		Problem: typeName,
		Detail:  err.Error(),
		HelpCommands: []string{
			fmt.Sprintf("Check constructors and accessors: nodeview inspect %s", typeName),
			"Get help: nodeview generate --help",
		},
		NoColor: noColor,
	})
}

// ConfigError reports an invalid nodeview.yml or environment override
func ConfigError(err error, noColor bool) string {
	return Format(Message{
		Level:   LevelError,
		Context: "configuration error",
		Problem: "nodeview.yml",
		Detail:  err.Error(),
		HelpCommands: []string{
			"Environment overrides use the NODEVIEW_ prefix, e.g. NODEVIEW_LOG_LEVEL=debug",
		},
		NoColor: noColor,
	})
}

// Warning creates a warning message
func Warning(message string, noColor bool) string {
	return Format(Message{Level: LevelWarning, Problem: message, NoColor: noColor})
}

// Info creates an informational message
func Info(message string, noColor bool) string {
	return Format(Message{Level: LevelInfo, Problem: message, NoColor: noColor})
}
