// Package color wraps fatih/color for the maintenance CLIs.
package color

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	infoColor    = color.New(color.FgGreen)
	skipColor    = color.New(color.FgYellow)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	successColor = color.New(color.FgGreen, color.Bold)
)

func ColorHeader(s string) string {
	return headerColor.Sprint(s)
}

func ColorInfo(s string) string {
	return infoColor.Sprint(s)
}

func ColorSkip(s string) string {
	return skipColor.Sprint(s)
}

func ColorWarning(s string) string {
	return warningColor.Sprint(s)
}

func ColorError(s string) string {
	return errorColor.Sprint(s)
}

func ColorSuccess(s string) string {
	return successColor.Sprint(s)
}

// Status renders a check or cross mark for yes/no report columns.
func Status(ok bool) string {
	if ok {
		return successColor.Sprint("✔")
	}
	return errorColor.Sprint("✘")
}

// Printf helpers used by cmd/*.

func Infof(format string, args ...any) {
	fmt.Println(ColorInfo(fmt.Sprintf(format, args...)))
}

func Skipf(format string, args ...any) {
	fmt.Println(ColorSkip(fmt.Sprintf(format, args...)))
}

func Errorf(format string, args ...any) {
	fmt.Println(ColorError(fmt.Sprintf(format, args...)))
}

func Successf(format string, args ...any) {
	fmt.Println(ColorSuccess(fmt.Sprintf(format, args...)))
}
