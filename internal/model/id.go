package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
)

// ErrInvalidID is returned when an ID cannot be parsed.
var ErrInvalidID = errors.New("invalid ID format")

// taskIDRegex matches task IDs like 7, #7, #007
var taskIDRegex = regexp.MustCompile(`^#?(\d+)$`)

// ParseTaskID parses a task ID as typed on the command line.
// Accepts "7", "#7" and "#007", all of which parse to 7.
func ParseTaskID(s string) (int, error) {
	matches := taskIDRegex.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q is not a valid task ID", ErrInvalidID, s)
	}
	id, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidID, s)
	}
	return id, nil
}

// FormatTaskID formats a task ID for display, e.g. 7 -> "#7".
func FormatTaskID(id int) string {
	return "#" + strconv.Itoa(id)
}
