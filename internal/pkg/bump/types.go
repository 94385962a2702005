// Package bump decides which semantic-version component to bump and whether
// the resulting commit should be pushed.
package bump

import (
	"strings"

	apperrors "github.com/bumpdecider/bumpdecider/internal/pkg/errors"
)

// DefaultConfigFile is the bump tool configuration file used when none is given.
const DefaultConfigFile = ".bumpversion.cfg"

// BumpType is the version component handed to the bump tool.
type BumpType string

const (
	BumpMajor   BumpType = "major"
	BumpMinor   BumpType = "minor"
	BumpPatch   BumpType = "patch"
	BumpRelease BumpType = "release"
	BumpBuild   BumpType = "build"
)

// AllBumpTypes lists every accepted bump type in a stable order.
var AllBumpTypes = []BumpType{BumpMajor, BumpMinor, BumpPatch, BumpRelease, BumpBuild}

// String returns the bump type as passed on the bump tool command line.
func (b BumpType) String() string {
	return string(b)
}

// IsValid reports whether b is one of AllBumpTypes.
func (b BumpType) IsValid() bool {
	for _, t := range AllBumpTypes {
		if b == t {
			return true
		}
	}
	return false
}

// BumpTypeNames returns the accepted bump type names.
func BumpTypeNames() []string {
	names := make([]string, len(AllBumpTypes))
	for i, t := range AllBumpTypes {
		names[i] = t.String()
	}
	return names
}

// ParseBumpType converts s to a BumpType, ignoring case and surrounding space.
func ParseBumpType(s string) (BumpType, error) {
	b := BumpType(strings.ToLower(strings.TrimSpace(s)))
	if !b.IsValid() {
		return "", apperrors.NewInvalidBumpTypeError(s, BumpTypeNames())
	}
	return b, nil
}

// Source records how a Decision's bump type was chosen.
type Source int

const (
	// SourceExplicit means the type came from --bump-type.
	SourceExplicit Source = iota
	// SourceTrigger means the type came from a ***BUMP <WORD>*** marker.
	SourceTrigger
	// SourceDefault means no usable marker was found and patch was chosen.
	SourceDefault
)

// String returns the string representation of Source.
func (s Source) String() string {
	switch s {
	case SourceExplicit:
		return "explicit"
	case SourceTrigger:
		return "trigger"
	case SourceDefault:
		return "default"
	default:
		return "unknown"
	}
}

// Configuration is the per-run input read from the command line.
type Configuration struct {
	CommitMessage string
	// BumpType is empty when no explicit type was requested.
	BumpType      BumpType
	AutoPush      bool
	PushAllowed   bool
	ConfigFile    string
}

// Decision is the resolved bump type and push flag for one run.
type Decision struct {
	Type   BumpType
	Push   bool
	Source Source
}
