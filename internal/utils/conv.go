package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseID parses a positive database id that fits a Postgres bigint.
func ParseID(s string) (uint, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 63)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(v), nil
}

// ParseOptionalID treats an empty string as absent.
func ParseOptionalID(s string) (*uint, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	id, err := ParseID(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
