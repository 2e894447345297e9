// SPDX-License-Identifier: MIT
package main

import (
	"os"

	"ambient/cmd"
	"ambient/internal/log"
	"ambient/pkg/build"
)

// main renders, inspects or previews ambient noise tracks. Rendering runs
// without audio hardware; only preview and list touch PortAudio, and they
// initialize it themselves.
func main() {
	// Development builds run without linker flags.
	if err := build.Initialize(); err != nil {
		log.Debugf("build info incomplete: %v", err)
	}

	err := cmd.Execute(os.Args[1:])
	if err != nil {
		log.Errorf("%v", err)
	}
	os.Exit(cmd.ExitCode(err))
}
