package bump

import (
	"regexp"
	"strings"
)

// triggerPattern matches ***BUMP <WORD>*** markers in commit messages.
var triggerPattern = regexp.MustCompile(`\*\*\*BUMP\s+(\w+)\*\*\*`)

// FindTrigger returns the word of the first ***BUMP <WORD>*** marker in message.
func FindTrigger(message string) (string, bool) {
	m := triggerPattern.FindStringSubmatch(message)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Resolve derives the Decision for cfg. It has no side effects.
//
// An explicit bump type wins and is pushed only with AutoPush. Otherwise the
// commit message trigger selects the type, falling back to patch, and the push
// follows PushAllowed whether or not a trigger matched.
func Resolve(cfg Configuration) (Decision, error) {
	if cfg.BumpType != "" {
		t, err := ParseBumpType(string(cfg.BumpType))
		if err != nil {
			return Decision{}, err
		}
		return Decision{Type: t, Push: cfg.AutoPush, Source: SourceExplicit}, nil
	}

	d := Decision{Type: BumpPatch, Push: cfg.PushAllowed, Source: SourceDefault}
	if word, ok := FindTrigger(cfg.CommitMessage); ok {
		if t := BumpType(strings.ToLower(word)); t.IsValid() {
			d.Type = t
			d.Source = SourceTrigger
		}
	}
	return d, nil
}
