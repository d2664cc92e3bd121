// Package command turns parsed command-line options into exactly one Command
// and executes it.
package command

import (
	"errors"
	"fmt"
)

// MsgBadArgs is reported when nothing to do was requested.
const MsgBadArgs = "specify a program or pass the --list or --version flags"

// UsageError reports invalid or conflicting command-line arguments.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

// IsUsage reports whether err is a UsageError.
func IsUsage(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}

// Options is the parsed command line.
type Options struct {
	// NoArgs is set when the tool was invoked without any argument.
	NoArgs bool

	Program     string
	Version     bool
	List        bool
	Edit        bool
	Labels      bool
	InitLabels  bool
	AddLabel    string
	RemoveLabel string
	FindFile    string
}

// Command is one of the variants below. The set is closed.
type Command interface {
	command()
}

type (
	// ShowHelp prints usage; chosen when no arguments were given.
	ShowHelp struct{}
	// ShowList prints every supported program with its legend marker.
	ShowList struct{}
	// ShowVersion prints the version.
	ShowVersion struct{}
	// InitLabels creates an empty label store.
	InitLabels struct{}
	// Edit opens the program's custom example file in the editor.
	Edit struct{ Program string }
	// ShowLabels prints the program's labels.
	ShowLabels struct{ Program string }
	// AddLabel tags the program with a label.
	AddLabel struct{ Program, Label string }
	// FindFile prints the programs carrying a label.
	FindFile struct{ Label string }
	// RemoveLabel removes a label from the program.
	RemoveLabel struct{ Program, Label string }
	// ShowExamples renders the program's examples through the pager.
	ShowExamples struct{ Program string }
)

func (ShowHelp) command()     {}
func (ShowList) command()     {}
func (ShowVersion) command()  {}
func (InitLabels) command()   {}
func (Edit) command()         {}
func (ShowLabels) command()   {}
func (AddLabel) command()     {}
func (FindFile) command()     {}
func (RemoveLabel) command()  {}
func (ShowExamples) command() {}

// FromOptions picks the single command to run. Priority, highest first:
// list, version, init-labels, edit, labels, add-label, find-file,
// remove-label, and finally showing examples.
func FromOptions(o Options) (Command, error) {
	if o.NoArgs {
		return ShowHelp{}, nil
	}
	if !o.Version && !o.List && o.Program == "" && o.FindFile == "" && !o.InitLabels {
		return nil, &UsageError{Msg: MsgBadArgs}
	}

	switch {
	case o.List:
		return ShowList{}, nil
	case o.Version:
		return ShowVersion{}, nil
	case o.InitLabels:
		return InitLabels{}, nil
	case o.Edit:
		if err := needProgram(o, "--edit"); err != nil {
			return nil, err
		}
		return Edit{Program: o.Program}, nil
	case o.Labels:
		if err := needProgram(o, "--labels"); err != nil {
			return nil, err
		}
		return ShowLabels{Program: o.Program}, nil
	case o.AddLabel != "":
		if err := needProgram(o, "--add-label"); err != nil {
			return nil, err
		}
		return AddLabel{Program: o.Program, Label: o.AddLabel}, nil
	case o.FindFile != "":
		return FindFile{Label: o.FindFile}, nil
	case o.RemoveLabel != "":
		if err := needProgram(o, "--remove-label"); err != nil {
			return nil, err
		}
		return RemoveLabel{Program: o.Program, Label: o.RemoveLabel}, nil
	default:
		return ShowExamples{Program: o.Program}, nil
	}
}

func needProgram(o Options, flag string) error {
	if o.Program == "" {
		return &UsageError{Msg: fmt.Sprintf("%s requires a program", flag)}
	}
	return nil
}
