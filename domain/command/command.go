// Package command parses slash-commands embedded in raw message bodies into
// tagged variants consumed by the projection layer.
package command

import "strings"

// FlipGlyphs is the fixed rendering of the tableflip command.
const FlipGlyphs = "(╯°□°)╯︵ ┻━┻"

// Command is one recognized rendering instruction for a message body.
type Command interface {
	isCommand()
}

// Plain displays the body unchanged. Unrecognized slash-commands fall back
// to Plain rather than erroring.
type Plain struct {
	Text string
}

// TableFlip replaces the body with FlipGlyphs immediately.
type TableFlip struct{}

// TypeText reveals Text one character at a time.
type TypeText struct {
	Text string
}

func (Plain) isCommand()     {}
func (TableFlip) isCommand() {}
func (TypeText) isCommand()  {}

// Parse inspects a raw body. Bodies starting with "/" select a command by
// their first whitespace-delimited token; everything else is plain text.
func Parse(body string) Command {
	if !strings.HasPrefix(body, "/") {
		return Plain{Text: body}
	}
	name, arg, _ := strings.Cut(strings.TrimPrefix(body, "/"), " ")
	switch name {
	case "tableflip":
		return TableFlip{}
	case "type":
		return TypeText{Text: arg}
	default:
		return Plain{Text: body}
	}
}
