package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Синтаксис групп
	GroupInfo            Code = 1000
	GroupUnclosed        Code = 1001
	GroupEmpty           Code = 1002
	GroupStrayParen      Code = 1003
	GroupUnclosedBracket Code = 1004

	// Стиль и упрощения
	StyleInfo           Code = 2000
	StyleExpandable     Code = 2001
	StyleDuplicateClass Code = 2002

	// IO
	IOReadFailed      Code = 3001
	IOExtractFailed   Code = 3002
	IOUnsupportedFile Code = 3003
)

var codeDescription = map[Code]string{
	UnknownCode:          "Unknown error",
	GroupInfo:            "Variant group information",
	GroupUnclosed:        "Unclosed variant group",
	GroupEmpty:           "Empty variant group",
	GroupStrayParen:      "Closing parenthesis without group",
	GroupUnclosedBracket: "Unclosed bracket literal",
	StyleInfo:            "Style information",
	StyleExpandable:      "Variant group can be expanded",
	StyleDuplicateClass:  "Duplicate class after expansion",
	IOReadFailed:         "Cannot read file",
	IOExtractFailed:      "Cannot extract class strings",
	IOUnsupportedFile:    "Unsupported file type",
}

// ID returns the stable identifier, e.g. UNO1001.
func (c Code) ID() string {
	return fmt.Sprintf("UNO%04d", int(c))
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
