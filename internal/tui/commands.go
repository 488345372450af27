package tui

import "strings"

// CommandKind identifies a slash command typed in the input line.
type CommandKind int

const (
	CmdNone CommandKind = iota
	CmdAnswer
	CmdMic
	CmdLang
	CmdSpeak
	CmdDictate
	CmdQuit
	CmdUnknown
)

// Command is a parsed input line. Arg is the text after the command word.
type Command struct {
	Kind CommandKind
	Name string
	Arg  string
}

var commandNames = map[string]CommandKind{
	"/answer":  CmdAnswer,
	"/a":       CmdAnswer,
	"/mic":     CmdMic,
	"/lang":    CmdLang,
	"/speak":   CmdSpeak,
	"/dictate": CmdDictate,
	"/quit":    CmdQuit,
	"/q":       CmdQuit,
}

// ParseCommand parses line. Lines that do not start with "/" are chat input
// and yield CmdNone.
func ParseCommand(line string) Command {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return Command{Kind: CmdNone, Arg: line}
	}

	name, arg, _ := strings.Cut(line, " ")
	name = strings.ToLower(name)
	kind, ok := commandNames[name]
	if !ok {
		kind = CmdUnknown
	}
	return Command{Kind: kind, Name: name, Arg: strings.TrimSpace(arg)}
}

const helpText = "Enter: send  /a <answer>  /dictate  /mic  /lang  /speak  PgUp/PgDn: scroll  /quit"
