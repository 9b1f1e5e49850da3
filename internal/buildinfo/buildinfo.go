// Package buildinfo carries the version stamped in by the linker:
//
//	-ldflags "-X disco/internal/buildinfo.Version=v0.3.0 -X disco/internal/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

import "strings"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short is the version if one was stamped, else the commit, else "dev".
func Short() string {
	switch {
	case stamped(Version) && Version != "dev":
		return Version
	case stamped(Commit):
		return Commit
	}
	return "dev"
}

// Describe lists every stamped field, e.g. "v0.3.0 commit=1a2b3c date=2026-10-01".
func Describe() string {
	var b strings.Builder
	b.WriteString(Short())
	if stamped(Commit) && Commit != Short() {
		b.WriteString(" commit=")
		b.WriteString(Commit)
	}
	if stamped(Date) {
		b.WriteString(" date=")
		b.WriteString(Date)
	}
	return b.String()
}

func stamped(s string) bool { return s != "" && s != "unknown" }
