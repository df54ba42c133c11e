// Package validation checks request payloads before they reach the services.
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ndewijer/Fund-Visualization-Backend/internal/apperrors"
)

// Error collects per-field validation messages.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	sort.Strings(msgs)
	return strings.Join(msgs, "; ")
}

var symbolPattern = regexp.MustCompile(`^[A-Za-z0-9]{1,12}$`)

// ValidateSymbol checks that symbol looks like a fund code.
func ValidateSymbol(symbol string) error {
	if strings.TrimSpace(symbol) == "" {
		return apperrors.ErrInvalidSymbol
	}
	if !symbolPattern.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}
