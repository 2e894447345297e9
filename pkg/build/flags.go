// SPDX-License-Identifier: MIT
//
// Package build carries version metadata embedded at link time, for example:
//
//	go build -ldflags "-X ambient/pkg/build.buildVersion=0.3.0 -X ambient/pkg/build.buildCommit=$(git rev-parse --short HEAD)"
//
// Unset flags keep development defaults so the binary also runs from go run.
package build

import (
	"errors"
	"fmt"
)

// Description is the one-line summary shown in command help.
const Description = "Render seamless looping ambient noise tracks"

type ldFlags struct {
	Name    string
	Time    string
	Commit  string
	Version string
}

// String formats the flags for version output.
func (f ldFlags) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", f.Name, f.Version, f.Commit, f.Time)
}

// Populated by -ldflags.
var (
	buildName    string
	buildTime    string
	buildCommit  string
	buildVersion string
	buildFlags   = &ldFlags{
		Name:    "ambient",
		Time:    "unknown",
		Commit:  "unknown",
		Version: "dev",
	}
)

// Initialize copies the linker-provided values over the defaults. It
// returns an error naming every missing flag; the defaults stay in place
// for those.
func Initialize() error {
	var errs []error
	set := func(dst *string, v, flag string) {
		if v == "" {
			errs = append(errs, fmt.Errorf("%s is required", flag))
			return
		}
		*dst = v
	}
	set(&buildFlags.Name, buildName, "BuildName")
	set(&buildFlags.Time, buildTime, "BuildTime")
	set(&buildFlags.Commit, buildCommit, "BuildCommit")
	set(&buildFlags.Version, buildVersion, "BuildVersion")
	return errors.Join(errs...)
}

// GetBuildFlags returns the current build information.
func GetBuildFlags() *ldFlags {
	return buildFlags
}
