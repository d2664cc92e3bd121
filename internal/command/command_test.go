package command_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/eg/internal/command"
)

func TestFromOptions_HappyPath(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name string
		opts command.Options
		want command.Command
	}{
		{"no arguments shows help", command.Options{NoArgs: true}, command.ShowHelp{}},
		{"program shows examples", command.Options{Program: "tar"}, command.ShowExamples{Program: "tar"}},
		{"list beats everything", command.Options{List: true, Version: true, Program: "tar", Edit: true}, command.ShowList{}},
		{"version beats edit", command.Options{Version: true, Program: "tar", Edit: true}, command.ShowVersion{}},
		{"init labels alone", command.Options{InitLabels: true}, command.InitLabels{}},
		{"edit beats labels", command.Options{Program: "tar", Edit: true, Labels: true}, command.Edit{Program: "tar"}},
		{"labels beats add", command.Options{Program: "tar", Labels: true, AddLabel: "x"}, command.ShowLabels{Program: "tar"}},
		{
			"add beats find",
			command.Options{Program: "tar", AddLabel: "x", FindFile: "y"},
			command.AddLabel{Program: "tar", Label: "x"},
		},
		{"find file without program", command.Options{FindFile: "y"}, command.FindFile{Label: "y"}},
		{
			"find beats remove",
			command.Options{Program: "tar", FindFile: "y", RemoveLabel: "z"},
			command.FindFile{Label: "y"},
		},
		{
			"remove label",
			command.Options{Program: "tar", RemoveLabel: "z"},
			command.RemoveLabel{Program: "tar", Label: "z"},
		},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			got, err := command.FromOptions(tc.opts)
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.Equals, tc.want)
		})
	}
}

func TestFromOptions_FailurePath(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name    string
		opts    command.Options
		wantMsg string
	}{
		{"nothing requested", command.Options{}, command.MsgBadArgs},
		{"labels without program", command.Options{Labels: true}, command.MsgBadArgs},
		{"remove label without program", command.Options{RemoveLabel: "x"}, command.MsgBadArgs},
		{"edit without program", command.Options{Edit: true, FindFile: "x"}, "--edit requires a program"},
		{"add label without program", command.Options{AddLabel: "x", FindFile: "y"}, "--add-label requires a program"},
		{"labels without program", command.Options{Labels: true, FindFile: "x"}, "--labels requires a program"},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			_, err := command.FromOptions(tc.opts)
			c.Assert(err, qt.ErrorMatches, tc.wantMsg)
			c.Assert(command.IsUsage(err), qt.IsTrue)
		})
	}
}
