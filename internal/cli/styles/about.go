package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/geobadge/internal/domain/build"
)

const globeLogo = ` ▄████▄
██ ▀▀ ██
██▄  ▄██
 ▀████▀
   ▀▀`

// AboutInfo is what the about screen shows next to the logo.
type AboutInfo struct {
	Build      build.Info
	ConfigFile string
	ListenAddr string
}

// AboutRenderer draws the logo with build and runtime details beside it.
type AboutRenderer struct {
	theme *Theme
}

// NewAboutRenderer creates an about renderer.
func NewAboutRenderer(theme *Theme) *AboutRenderer {
	return &AboutRenderer{theme: theme}
}

type aboutRow struct {
	icon  string
	key   string
	value string
}

// Render returns the about screen.
func (r *AboutRenderer) Render(info AboutInfo) string {
	t := r.theme
	accent := lipgloss.NewStyle().Foreground(t.Accent)

	rows := []aboutRow{
		{IconVersion, "Version", info.Build.Version},
		{IconGitBranch, "Commit", info.Build.ShortCommit()},
		{IconCalendar, "Built", info.Build.BuildDate},
		{IconGo, "Go", info.Build.GoVersion},
		{IconNetwork, "User-Agent", info.Build.UserAgent()},
		{IconConfig, "Config", info.ConfigFile},
		{IconServer, "Daemon", info.ListenAddr},
	}

	lines := make([]string, 0, len(rows)+3)
	for _, row := range rows {
		if row.value == "" {
			continue
		}
		lines = append(lines, accent.Render(row.icon)+" "+t.Subtle.Width(11).Render(row.key)+t.Highlight.Render(row.value))
	}
	lines = append(lines,
		"",
		accent.Render(IconGithub)+" "+t.Subtle.Render(build.RepoURL()),
		accent.Render(IconHeart)+" "+t.Subtle.Render("by ")+t.Highlight.Render(strings.Join(build.Contributors(), ", ")),
	)

	logo := accent.Bold(true).MarginTop(1).MarginLeft(2).Render(globeLogo)
	return lipgloss.JoinHorizontal(lipgloss.Top, logo, "   ", strings.Join(lines, "\n"))
}
