package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

// Set at build time using -ldflags.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info is the build metadata reported by `adminctl version` and the status
// report.
type Info struct {
	Version   string    `json:"version" yaml:"version"`
	GitCommit string    `json:"git_commit,omitempty" yaml:"git_commit,omitempty"`
	GoVersion string    `json:"go_version" yaml:"go_version"`
	BuildDate time.Time `json:"build_date,omitempty" yaml:"build_date,omitempty"`
	Dirty     bool      `json:"dirty,omitempty" yaml:"dirty,omitempty"`
}

// Get collects build metadata from the linker variables, falling back to the
// VCS stamp embedded by the Go toolchain.
func Get() Info {
	info := Info{Version: Version, GitCommit: GitCommit}
	if BuildTime != "" {
		if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
			info.BuildDate = t
		}
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		case "vcs.time":
			if info.BuildDate.IsZero() {
				if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
					info.BuildDate = t
				}
			}
		}
	}
	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
	return info
}

// IsRelease reports whether the binary was built from a tagged, clean tree.
func (i Info) IsRelease() bool {
	return i.Version != "dev" && !i.Dirty && !strings.Contains(i.Version, "dirty")
}

// Short returns "version-commit", with a -dirty suffix for modified trees.
func (i Info) Short() string {
	if i.GitCommit == "" {
		return i.Version
	}
	s := i.Version + "-" + i.GitCommit
	if i.Dirty {
		s += "-dirty"
	}
	return s
}

// String renders the full version line.
func (i Info) String() string {
	s := "adminctl " + i.Short()
	if i.GoVersion != "" {
		s += " " + i.GoVersion
	}
	if !i.BuildDate.IsZero() {
		s += fmt.Sprintf(" (built %s)", i.BuildDate.UTC().Format(time.RFC3339))
	}
	return s
}
