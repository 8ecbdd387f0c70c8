package market

import (
	"fmt"
	"strconv"
	"strings"
)

// Window is a look-back length. For market data it counts days, for
// structural series it counts periods. WindowMax asks for everything.
type Window int

const WindowMax Window = 0

func (w Window) IsMax() bool { return w <= 0 }

func (w Window) String() string {
	if w.IsMax() {
		return "max"
	}
	return strconv.Itoa(int(w))
}

// ParseWindow accepts a positive integer or "max".
func ParseWindow(raw string) (Window, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == "max" || raw == "all" {
		return WindowMax, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid window %q: %w", raw, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid window %q: must be positive or max", raw)
	}
	return Window(n), nil
}

// Selection is the compound key deciding which series are current.
type Selection struct {
	EntityID string `json:"entity_id"`
	Window   Window `json:"window"`
}

func (s Selection) Key() string {
	return s.EntityID + "|" + s.Window.String()
}
