package main

import (
	"strings"

	"gamedex/internal/api"

	"github.com/fatih/color"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	neutral = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func renderResponses(responses []api.Response) {
	if len(responses) == 0 {
		printWarn("No response.")
		return
	}
	for i, r := range responses {
		if i > 0 {
			neutral.Println(strings.Repeat("-", 40))
		}
		if r.Text != "" {
			neutral.Println(r.Text)
		}
		if r.Image != "" {
			accent.Println(r.Image)
		}
	}
}
