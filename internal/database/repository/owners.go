package repository

import (
	"strconv"
	"strings"
)

// EncodeOwners joins an owner set into the comma-separated column form.
func EncodeOwners(ids []int) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.Itoa(id))
	}
	return strings.Join(parts, ",")
}

// DecodeOwners splits the comma-separated column form back into ids,
// skipping empty segments so trailing separators are harmless.
func DecodeOwners(s string) []int {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		out = append(out, id)
	}
	return out
}
