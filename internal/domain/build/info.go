// Package build provides domain entities for build information.
package build

import "strings"

// Info holds build-time information injected via ldflags.
type Info struct {
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
}

// ShortCommit returns the first seven characters of the commit hash.
func (i Info) ShortCommit() string {
	if len(i.Commit) > 7 {
		return i.Commit[:7]
	}
	return i.Commit
}

// UserAgent is sent to the location providers.
func (i Info) UserAgent() string {
	v := strings.TrimPrefix(i.Version, "v")
	if v == "" {
		v = "dev"
	}
	return "geobadge/" + v + " (+" + RepoURL() + ")"
}

// Contributors returns the list of project contributors.
func Contributors() []string {
	return []string{"bnema"}
}

// RepoURL returns the GitHub repository URL.
func RepoURL() string {
	return "https://github.com/bnema/geobadge"
}
