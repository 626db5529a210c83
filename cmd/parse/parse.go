// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package parse provides the parse command, which shows how a job list is grouped without submitting it.
package parse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/gpubatch/cmd/settings"
	"github.com/matt-FFFFFF/gpubatch/internal/color"
	"github.com/matt-FFFFFF/gpubatch/internal/joblist"
	"github.com/urfave/cli/v3"
)

const formatFlag = "format"

const (
	// FormatText is a readable listing of each group.
	FormatText = "text"
	// FormatYAML is a sequence of groups, each a sequence of commands.
	FormatYAML = "yaml"
	// FormatJSON is FormatYAML's structure as JSON.
	FormatJSON = "json"
	// FormatJobList is a normalised job list that groups back to the same structure.
	FormatJobList = "joblist"
)

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown format")

// ParseCmd is the command that prints the grouped job list.
var ParseCmd = &cli.Command{
	Name:  "parse",
	Usage: "Show how a job list is grouped, without submitting anything",
	Description: `Parse a job list and print its groups.

Formats:
  text     a readable listing of each group
  yaml     a sequence of groups, each a sequence of commands
  json     the same as yaml, as JSON
  joblist  a normalised job list with comments removed and chains wrapped in <sequential>`,
	Arguments: []cli.Argument{settings.JobListArgument()},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    formatFlag,
			Aliases: []string{"f"},
			Usage:   "Output format: text, yaml, json or joblist",
			Value:   FormatText,
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		groups, err := settings.ReadJobList(ctx, cmd)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		if err := Write(cmd.Root().Writer, groups, cmd.String(formatFlag)); err != nil {
			return cli.Exit(err.Error(), 1)
		}

		return nil
	},
}

// Write renders groups to w in format.
func Write(w io.Writer, groups joblist.Groups, format string) error {
	var (
		out []byte
		err error
	)

	if groups == nil {
		groups = joblist.Groups{}
	}

	switch format {
	case FormatText:
		out = []byte(Text(groups, color.Enabled()))
	case FormatYAML:
		out, err = yaml.Marshal(groups)
	case FormatJSON:
		out, err = json.MarshalIndent(groups, "", "  ")
		out = append(out, '\n')
	case FormatJobList:
		out = []byte(joblist.Render(groups, false))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err != nil {
		return err
	}

	_, err = w.Write(out)

	return err
}

// Text renders groups for reading. Styles are only applied when styled is true.
func Text(groups joblist.Groups, styled bool) string {
	header := lipgloss.NewStyle().Bold(true)
	kind := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	step := lipgloss.NewStyle().Foreground(lipgloss.Color("14"))

	if !styled {
		header, kind, step = lipgloss.NewStyle(), lipgloss.NewStyle(), lipgloss.NewStyle()
	}

	var b strings.Builder

	for i, g := range groups {
		desc := "job"
		if g.Sequential() {
			desc = "chain of " + strconv.Itoa(len(g))
		}

		b.WriteString(header.Render("Group "+strconv.Itoa(i+1)) + " " + kind.Render("("+desc+")") + "\n")

		for j, c := range g {
			marker := "•"
			if g.Sequential() {
				marker = strconv.Itoa(j+1) + "."
			}

			// Continuation lines line up under the first line of the command.
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, "  "+step.Render(marker)+" ", c))
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "%d jobs in %d groups\n", groups.Jobs(), len(groups))

	return b.String()
}
