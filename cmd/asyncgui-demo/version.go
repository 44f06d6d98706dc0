package main

import (
	"fmt"
	"runtime/debug"

	"github.com/urfave/cli/v2"
	"golang.org/x/mod/semver"
)

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Print the version of this build",
		Action: versionAction,
	}
}

func versionAction(c *cli.Context) error {
	fmt.Fprintln(c.App.Writer, buildVersion())
	return nil
}

// buildVersion returns the canonical semantic version of the main module,
// or "devel" for builds that carry none.
func buildVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "devel"
	}
	return canonicalVersion(info.Main.Version)
}

func canonicalVersion(v string) string {
	if !semver.IsValid(v) {
		return "devel"
	}
	return semver.Canonical(v)
}
