package styles

// Nerd Font icons (requires a Nerd Font to display correctly)
const (
	IconVersion   = "\uf02b" // tag
	IconGitBranch = "\ue725" // git branch
	IconCalendar  = "\uf073" // calendar
	IconGithub    = "\uf09b" // github
	IconGo        = "\ue627" // go gopher
	IconArrow     = "\uf061" // arrow right

	IconCheck   = "\uf00c" // check
	IconX       = "\uf00d" // x
	IconWarning = "\uf071" // warning
	IconInfo    = "\uf05a" // info
	IconConfig  = "\ue615" // config
	IconLogs    = "\uf0f6" // file-text
	IconCursor  = "\uf054" // chevron-right

	IconKeyboard = "\uf11c" // keyboard
	IconWindow   = "\uf2d2" // window
	IconClock    = "\uf017" // clock
	IconPlay     = "\uf04b" // play
	IconBolt     = "\uf0e7" // bolt
)
