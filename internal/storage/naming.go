// SPDX-License-Identifier: MIT
package storage

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	ArtifactPrefix    = "temp_"
	ArtifactExtension = ".wav"

	// suffixLen hex digits of a random UUID keep names unique when several
	// tracks are generated within the same second.
	suffixLen = 12
)

// NewArtifactName returns a name like temp_20261017-153000_1f2e3d4c5b6a.wav.
func NewArtifactName(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:suffixLen]
	return ArtifactPrefix + now.UTC().Format("20060102-150405") + "_" + suffix + ArtifactExtension
}
