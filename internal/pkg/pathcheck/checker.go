// Package pathcheck resolves the external commands bumpdecider runs against PATH.
package pathcheck

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Status describes whether a command could be resolved.
type Status struct {
	// Command is the name or path as configured.
	Command string
	// Path is the resolved executable, empty when not found.
	Path string
	// Err is set when the command was not found.
	Err error
}

// Found reports whether the command resolved to an executable.
func (s Status) Found() bool {
	return s.Err == nil && s.Path != ""
}

// Checker resolves commands to executables.
type Checker interface {
	Resolve(command string) Status
}

// PathChecker resolves commands using a PATH list.
type PathChecker struct {
	pathEnv string
	pathExt []string
}

// NewChecker creates a PathChecker for the current PATH.
func NewChecker() *PathChecker {
	return NewCheckerWithPath(os.Getenv("PATH"))
}

// NewCheckerWithPath creates a PathChecker for the given PATH value.
func NewCheckerWithPath(pathEnv string) *PathChecker {
	c := &PathChecker{pathEnv: pathEnv}
	if runtime.GOOS == "windows" {
		c.pathExt = windowsPathExt()
	}
	return c
}

// Resolve looks up command. Commands containing a path separator are checked
// as given and never searched in PATH.
func (c *PathChecker) Resolve(command string) Status {
	status := Status{Command: command}

	if command == "" {
		status.Err = newNotFoundError(command, "empty command")
		return status
	}

	if strings.ContainsRune(command, '/') || strings.ContainsRune(command, filepath.Separator) {
		if path, ok := c.executable(command); ok {
			status.Path = path
			return status
		}
		status.Err = newNotFoundError(command, "not an executable file")
		return status
	}

	if c.pathEnv == "" {
		status.Err = newNotFoundError(command, "PATH is empty")
		return status
	}

	for _, dir := range filepath.SplitList(c.pathEnv) {
		if dir == "" {
			// Empty PATH entries mean the current directory
			dir = "."
		}
		if path, ok := c.executable(filepath.Join(filepath.Clean(dir), command)); ok {
			status.Path = path
			return status
		}
	}

	status.Err = newNotFoundError(command, "not found in PATH")
	return status
}

// executable returns the first existing executable for path, trying the
// Windows PATHEXT suffixes when set.
func (c *PathChecker) executable(path string) (string, bool) {
	candidates := []string{path}
	for _, ext := range c.pathExt {
		candidates = append(candidates, path+ext)
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if len(c.pathExt) > 0 || info.Mode()&0111 != 0 {
			return candidate, true
		}
	}
	return "", false
}

func windowsPathExt() []string {
	pathExt := os.Getenv("PATHEXT")
	if pathExt == "" {
		return []string{".com", ".exe", ".bat", ".cmd"}
	}
	var exts []string
	for _, ext := range strings.Split(strings.ToLower(pathExt), ";") {
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts = append(exts, ext)
	}
	return exts
}

// ResolveAll resolves every command in order.
func ResolveAll(c Checker, commands ...string) []Status {
	statuses := make([]Status, 0, len(commands))
	for _, command := range commands {
		statuses = append(statuses, c.Resolve(command))
	}
	return statuses
}

// Ensure PathChecker implements Checker
var _ Checker = (*PathChecker)(nil)
