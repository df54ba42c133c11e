package request

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/timewindow"
)

// ParseWindow validates the window query parameter. An empty value selects the full
// history; any other value must name a known window.
func ParseWindow(param string) (timewindow.Window, error) {
	param = strings.TrimSpace(param)
	if param == "" {
		return timewindow.All, nil
	}

	w := timewindow.Parse(param)
	if w == timewindow.All && !strings.EqualFold(param, string(timewindow.All)) {
		return "", fmt.Errorf("invalid window: %s (expected one of %s)", param, windowNames())
	}
	return w, nil
}

func windowNames() string {
	names := make([]string, len(timewindow.Windows))
	for i, w := range timewindow.Windows {
		names[i] = string(w)
	}
	return strings.Join(names, ", ")
}
