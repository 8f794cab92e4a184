// Package styles provides reusable lipgloss-based TUI components.
package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconGlobe     = "\uf0ac" // globe
	IconVersion   = "\uf02b" // tag
	IconGitBranch = "\ue725" // git branch
	IconCalendar  = "\uf073" // calendar
	IconGithub    = "\uf09b" // github
	IconHeart     = "\uf004" // heart
	IconGo        = "\ue627" // go gopher

	// Status
	IconCheck   = "\uf00c" // check
	IconX       = "\uf00d" // x
	IconWarning = "\uf071" // warning
	IconSync    = "\uf021" // refresh

	// Location card
	IconNetwork = "\uf6ff" // network
	IconFlag    = "\uf024" // flag
	IconMarker  = "\uf041" // map marker
	IconServer  = "\uf233" // server
	IconClock   = "\uf017" // clock
	IconConfig  = "\ue615" // config

	// Checkboxes
	IconCheckboxEmpty   = "\uf096" // unchecked
	IconCheckboxChecked = "\uf046" // checked

	// UI
	IconCursor = "\uf054" // chevron-right
)
