package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	// Color functions with auto-detection for terminal support.
	// These fall back gracefully when colors are unavailable.
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg    = color.New(color.FgRed).SprintFunc()
	fixLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	bullet      = color.New(color.FgGreen).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
)

// FormatError formats a VerifyError for display in the terminal.
// It uses colors when available and falls back to plain text otherwise.
func FormatError(err *VerifyError) string {
	if err == nil {
		return ""
	}
	return formatError(err, true)
}

// FormatErrorPlain formats a VerifyError without colors.
func FormatErrorPlain(err *VerifyError) string {
	if err == nil {
		return ""
	}
	return formatError(err, false)
}

func formatError(err *VerifyError, useColors bool) string {
	var sb strings.Builder

	if useColors {
		sb.WriteString(errorLabel("Error"))
		sb.WriteString(" [")
		sb.WriteString(categoryFmt(err.Category.String()))
		sb.WriteString("]: ")
		sb.WriteString(errorMsg(err.Message))
	} else {
		sb.WriteString("Error [")
		sb.WriteString(err.Category.String())
		sb.WriteString("]: ")
		sb.WriteString(err.Message)
	}
	sb.WriteString("\n")

	if len(err.Remediation) > 0 {
		sb.WriteString("\n")
		if useColors {
			sb.WriteString(fixLabel("To fix this:"))
		} else {
			sb.WriteString("To fix this:")
		}
		sb.WriteString("\n")
		for _, step := range err.Remediation {
			if useColors {
				sb.WriteString("  ")
				sb.WriteString(bullet("•"))
				sb.WriteString(" ")
			} else {
				sb.WriteString("  • ")
			}
			sb.WriteString(step)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// PrintError prints a formatted VerifyError to stderr.
func PrintError(err *VerifyError) {
	FprintError(os.Stderr, err)
}

// FprintError prints a formatted VerifyError to the given writer.
func FprintError(w io.Writer, err *VerifyError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}

// PrintSimpleError prints a plain error with a category to stderr.
// Use this when there is no structured VerifyError available.
func PrintSimpleError(err error, category Category) {
	if err == nil {
		return
	}
	fmt.Fprint(os.Stderr, FormatError(&VerifyError{
		Category: category,
		Message:  err.Error(),
	}))
}
