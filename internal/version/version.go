// Package version reports the btrbk-restore build.
package version

import "runtime/debug"

// Set at build time with -ldflags "-X github.com/cristianoliveira/btrbk-restore/internal/version.Version=...".
var (
	Version = "development"
	Commit  = "unknown"
)

// readBuildInfo is replaceable in tests.
var readBuildInfo = debug.ReadBuildInfo

// String returns Version with the commit appended when it is known.
func String() string {
	if c := commit(); c != "unknown" {
		return Version + "+" + c
	}
	return Version
}

// commit returns Commit, or the short VCS revision stamped by the go tool.
func commit() string {
	if Commit != "unknown" {
		return Commit
	}
	info, ok := readBuildInfo()
	if !ok {
		return Commit
	}
	var rev string
	dirty := false
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			rev = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if rev == "" {
		return Commit
	}
	if len(rev) > 7 {
		rev = rev[:7]
	}
	if dirty {
		rev += "-dirty"
	}
	return rev
}
