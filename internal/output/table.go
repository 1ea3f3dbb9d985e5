package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/pankaj-dahiya-devops/sg-posture/internal/posture"
	"github.com/pankaj-dahiya-devops/sg-posture/internal/rules"
)

// ANSI color codes for action output (used when Colored=true).
const (
	ansiReset  = "\033[0m"
	ansiRed    = "\033[0;31m"
	ansiGreen  = "\033[0;32m"
	ansiYellow = "\033[0;33m"
)

// TableOptions controls how RenderChanges colours and labels the summary.
type TableOptions struct {
	// Colored wraps action labels with ANSI codes. Default false (CI-safe).
	Colored bool

	// Level is printed in the footer line when set.
	Level string
}

// ColorAction wraps an action with ANSI codes when colored is true.
func ColorAction(a posture.Action, colored bool) string {
	s := string(a)
	if !colored {
		return s
	}
	if code := actionCode(a); code != "" {
		return code + s + ansiReset
	}
	return s
}

func actionCode(a posture.Action) string {
	switch a {
	case posture.ActionRemoved:
		return ansiRed
	case posture.ActionAdded:
		return ansiGreen
	case posture.ActionReplaced:
		return ansiYellow
	}
	return ""
}

// actionCell returns the action padded to width characters.
// When colored, ANSI codes wrap only the text; trailing padding spaces are plain
// so subsequent columns stay aligned.
func actionCell(a posture.Action, width int, colored bool) string {
	text := string(a)
	code := actionCode(a)
	if !colored || code == "" {
		return fmt.Sprintf("%-*s", width, text)
	}
	spaces := width - len(text)
	if spaces < 0 {
		spaces = 0
	}
	return code + text + ansiReset + strings.Repeat(" ", spaces)
}

// truncateField shortens s to at most max bytes.
func truncateField(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "~"
}

// RenderChanges writes a table of the resources a run touched to w.
//
// Column order:
//
//	ACTION  KEY  COMPONENT  PROTOCOL  PORT  CIDR
//
// Removed rows leave the rule columns empty.
func RenderChanges(w io.Writer, changes []posture.Change, opts TableOptions) {
	if len(changes) == 0 {
		fmt.Fprintln(w, "No changes.")
		return
	}

	const (
		wAction    = 8
		wKey       = 44
		wComponent = 24
		wProtocol  = 8
		wPort      = 6
	)

	header := fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s  %s",
		wAction, "ACTION",
		wKey, "KEY",
		wComponent, "COMPONENT",
		wProtocol, "PROTOCOL",
		wPort, "PORT",
		"CIDR",
	)
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))

	counts := map[posture.Action]int{}
	for _, c := range changes {
		counts[c.Action]++

		var protocol, port, cidr string
		if c.Action != posture.ActionRemoved {
			p := c.Rule.Permission
			protocol = aws.ToString(p.IpProtocol)
			port = strconv.Itoa(int(aws.ToInt32(p.FromPort)))
			cidr = c.Rule.CidrIp()
		}

		row := actionCell(c.Action, wAction, opts.Colored) +
			fmt.Sprintf("  %-*s  %-*s  %-*s  %-*s  %s",
				wKey, truncateField(c.Key, wKey),
				wComponent, truncateField(c.Component, wComponent),
				wProtocol, truncateField(protocol, wProtocol),
				wPort, port,
				cidr,
			)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}

	footer := fmt.Sprintf("%d removed, %d added, %d replaced",
		counts[posture.ActionRemoved], counts[posture.ActionAdded], counts[posture.ActionReplaced])
	if opts.Level != "" {
		footer += " (" + opts.Level + ")"
	}
	fmt.Fprintln(w, footer)
}

// RenderExposures lists the security groups left open to remote admin access.
// Nothing is written when exposures is empty.
func RenderExposures(w io.Writer, exposures []rules.Exposure, opts TableOptions) {
	if len(exposures) == 0 {
		return
	}
	label := "open admin access"
	if opts.Colored {
		label = ansiRed + label + ansiReset
	}
	fmt.Fprintln(w)
	for _, e := range exposures {
		port := strconv.Itoa(e.Port)
		if e.Port == -1 {
			port = "all"
		}
		fmt.Fprintf(w, "%s: %s port %s from %s (%s)\n", label, e.Component, port, e.CIDR, e.Key)
	}
}
