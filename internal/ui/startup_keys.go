package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// ApplyStartupKeys replays key tokens against the model: "<Tab>"-style
// tokens become named keys, anything else is typed character by character.
// A leading backslash forces the whole token to be typed literally.
func ApplyStartupKeys(m *Model, keys []string) {
	if m == nil {
		return
	}
	for _, raw := range keys {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		if strings.HasPrefix(token, `\`) {
			typeText(m, strings.TrimPrefix(token, `\`))
			continue
		}
		for _, segment := range parseTokenSegments(token) {
			if !segment.isKey {
				typeText(m, segment.text)
				continue
			}
			msgs, ok := keyMsgsFromToken(segment.text)
			if !ok {
				typeText(m, segment.text)
				continue
			}
			for _, msg := range msgs {
				m.Update(msg)
			}
		}
	}
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

// tokenSegment is either a <key> token or literal text.
type tokenSegment struct {
	text  string
	isKey bool
}

// parseTokenSegments splits a token into keys and literal text.
// Example: "<Tab>n" -> [{"<Tab>", key}, {"n", text}]
func parseTokenSegments(token string) []tokenSegment {
	var segments []tokenSegment
	for token != "" {
		open := strings.Index(token, "<")
		if open < 0 {
			return append(segments, tokenSegment{text: token})
		}
		if open > 0 {
			segments = append(segments, tokenSegment{text: token[:open]})
			token = token[open:]
		}
		end := strings.Index(token, ">")
		if end < 0 {
			return append(segments, tokenSegment{text: token})
		}
		segments = append(segments, tokenSegment{text: token[:end+1], isKey: true})
		token = token[end+1:]
	}
	return segments
}

// keyMsgsFromToken maps a <key> token such as "<Esc>", "<CR>", "<Tab>",
// "<Space>" or "<PgDown>" to key presses.
func keyMsgsFromToken(token string) ([]tea.KeyPressMsg, bool) {
	if token == "" {
		return nil, false
	}
	if strings.HasPrefix(token, "<") && strings.HasSuffix(token, ">") {
		inner := strings.TrimSuffix(strings.TrimPrefix(token, "<"), ">")
		lower := strings.ToLower(inner)
		switch lower {
		case "esc", "c-[", "escape":
			return []tea.KeyPressMsg{{Code: tea.KeyEscape}}, true
		case "cr", "enter", "return":
			return []tea.KeyPressMsg{{Code: tea.KeyEnter}}, true
		case "tab":
			return []tea.KeyPressMsg{{Code: tea.KeyTab}}, true
		case "space":
			return []tea.KeyPressMsg{{Code: ' ', Text: " "}}, true
		case "bs", "backspace":
			return []tea.KeyPressMsg{{Code: tea.KeyBackspace}}, true
		case "left":
			return []tea.KeyPressMsg{{Code: tea.KeyLeft}}, true
		case "right":
			return []tea.KeyPressMsg{{Code: tea.KeyRight}}, true
		case "up":
			return []tea.KeyPressMsg{{Code: tea.KeyUp}}, true
		case "down":
			return []tea.KeyPressMsg{{Code: tea.KeyDown}}, true
		case "home":
			return []tea.KeyPressMsg{{Code: tea.KeyHome}}, true
		case "end":
			return []tea.KeyPressMsg{{Code: tea.KeyEnd}}, true
		case "pgup", "pageup":
			return []tea.KeyPressMsg{{Code: tea.KeyPgUp}}, true
		case "pgdown", "pagedown":
			return []tea.KeyPressMsg{{Code: tea.KeyPgDown}}, true
		}
		return nil, false
	}
	return nil, false
}
