// SPDX-License-Identifier: MIT
package build

import (
	"os"
	"strings"
	"testing"
)

var (
	origName    string
	origTime    string
	origCommit  string
	origVersion string
	origFlags   ldFlags
)

func TestMain(m *testing.M) {
	origName = buildName
	origTime = buildTime
	origCommit = buildCommit
	origVersion = buildVersion
	if buildFlags != nil {
		origFlags = *buildFlags
	}

	exitCode := m.Run()

	buildName = origName
	buildTime = origTime
	buildCommit = origCommit
	buildVersion = origVersion
	if buildFlags != nil {
		*buildFlags = origFlags
	}

	os.Exit(exitCode)
}

func reset() {
	buildFlags = &ldFlags{
		Name:    "ambient",
		Time:    "unknown",
		Commit:  "unknown",
		Version: "dev",
	}
}

func TestInitialize(t *testing.T) {
	tests := []struct {
		name        string
		buildName   string
		buildTime   string
		buildCommit string
		buildVer    string
		wantErrs    []string
	}{
		{"Missing BuildName", "", "2025-04-13", "abcdef123", "v1.0.0", []string{"BuildName is required"}},
		{"Missing BuildTime", "testapp", "", "abcdef123", "v1.0.0", []string{"BuildTime is required"}},
		{"Missing BuildCommit", "testapp", "2025-04-13", "", "v1.0.0", []string{"BuildCommit is required"}},
		{"Missing BuildVersion", "testapp", "2025-04-13", "abcdef123", "", []string{"BuildVersion is required"}},
		{"Missing all", "", "", "", "", []string{"BuildName", "BuildTime", "BuildCommit", "BuildVersion"}},
		{"Success Case", "testapp", "2025-04-13", "abcdef123", "v1.0.0", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reset()
			buildName = tt.buildName
			buildTime = tt.buildTime
			buildCommit = tt.buildCommit
			buildVersion = tt.buildVer

			err := Initialize()

			if len(tt.wantErrs) > 0 {
				if err == nil {
					t.Fatalf("Initialize() expected error, got nil")
				}
				for _, want := range tt.wantErrs {
					if !strings.Contains(err.Error(), want) {
						t.Errorf("Initialize() error = %v, want %q", err, want)
					}
				}
				return
			}

			if err != nil {
				t.Fatalf("Initialize() unexpected error: %v", err)
			}
			if buildFlags.Name != tt.buildName {
				t.Errorf("buildFlags.Name = %v, want %v", buildFlags.Name, tt.buildName)
			}
			if buildFlags.Time != tt.buildTime {
				t.Errorf("buildFlags.Time = %v, want %v", buildFlags.Time, tt.buildTime)
			}
			if buildFlags.Commit != tt.buildCommit {
				t.Errorf("buildFlags.Commit = %v, want %v", buildFlags.Commit, tt.buildCommit)
			}
			if buildFlags.Version != tt.buildVer {
				t.Errorf("buildFlags.Version = %v, want %v", buildFlags.Version, tt.buildVer)
			}
		})
	}
}

func TestInitialize_KeepsDefaults(t *testing.T) {
	reset()
	buildName = ""
	buildTime = ""
	buildCommit = "abc1234"
	buildVersion = ""

	_ = Initialize()

	flags := GetBuildFlags()
	if flags.Name != "ambient" || flags.Version != "dev" {
		t.Errorf("defaults overwritten: %+v", flags)
	}
	if flags.Commit != "abc1234" {
		t.Errorf("Commit = %q, want abc1234", flags.Commit)
	}
}

func TestGetBuildFlags(t *testing.T) {
	expected := ldFlags{
		Name:    "testapp",
		Time:    "2025-04-13",
		Commit:  "abcdef123",
		Version: "v1.0.0",
	}
	buildFlags = &expected

	flags := GetBuildFlags()

	if *flags != expected {
		t.Errorf("GetBuildFlags() = %+v, want %+v", flags, expected)
	}
	if got, want := flags.String(), "testapp v1.0.0 (commit abcdef123, built 2025-04-13)"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
