package ui

import "strings"

// Action is what a key press asks the view to do.
type Action string

const (
	ActionNone           Action = ""
	ActionQuit           Action = "quit"
	ActionSwitchView     Action = "switch_view"
	ActionUp             Action = "up"
	ActionDown           Action = "down"
	ActionNextPage       Action = "next_page"
	ActionPrevPage       Action = "prev_page"
	ActionFirstPage      Action = "first_page"
	ActionFullscreen     Action = "fullscreen"
	ActionMode           Action = "mode"
	ActionSide           Action = "side"
	ActionLargerPage     Action = "larger_page"
	ActionSmallerPage    Action = "smaller_page"
	ActionResetPageSize  Action = "reset_page_size"
	ActionResetColumns   Action = "reset_columns"
	ActionFilter         Action = "filter"
	ActionClearFilter    Action = "clear_filter"
	ActionReload         Action = "reload"
	ActionToggleSelected Action = "toggle_selected"
	ActionHelp           Action = "help"
)

// KeyBindings maps key strings, as reported by tea.KeyPressMsg.String, to
// actions. Digits 1-9 toggle columns and are handled separately.
var KeyBindings = map[string]Action{
	"q":      ActionQuit,
	"ctrl+c": ActionQuit,
	"tab":    ActionSwitchView,
	"up":     ActionUp,
	"k":      ActionUp,
	"down":   ActionDown,
	"j":      ActionDown,
	"right":  ActionNextPage,
	"n":      ActionNextPage,
	"pgdown": ActionNextPage,
	"left":   ActionPrevPage,
	"p":      ActionPrevPage,
	"pgup":   ActionPrevPage,
	"home":   ActionFirstPage,
	"g":      ActionFirstPage,
	"f":      ActionFullscreen,
	"m":      ActionMode,
	"s":      ActionSide,
	"+":      ActionLargerPage,
	"=":      ActionLargerPage,
	"-":      ActionSmallerPage,
	"0":      ActionResetPageSize,
	"a":      ActionResetColumns,
	"/":      ActionFilter,
	"esc":    ActionClearFilter,
	"r":      ActionReload,
	"space":  ActionToggleSelected,
	" ":      ActionToggleSelected,
	"enter":  ActionToggleSelected,
	"?":      ActionHelp,
}

// helpRows lists the bindings shown in the help panel, in display order.
var helpRows = [][2]string{
	{"↑/↓ j/k", "move the cursor"},
	{"←/→ p/n", "previous/next page"},
	{"home g", "first page"},
	{"tab", "switch book/federation"},
	{"f", "toggle fullscreen"},
	{"m", "toggle fiat/swap"},
	{"s", "cycle side"},
	{"+/-", "larger/smaller page"},
	{"0", "fit page size"},
	{"1-9", "toggle column"},
	{"a", "reset columns"},
	{"/", "filter expression"},
	{"esc", "clear filter"},
	{"space", "enable/disable coordinator"},
	{"r", "reload"},
	{"q", "quit"},
}

// actionFor resolves a key string.
func actionFor(key string) Action {
	return KeyBindings[strings.ToLower(key)]
}

// columnIndex returns the zero-based column a digit key toggles.
func columnIndex(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	return int(key[0] - '1'), true
}
