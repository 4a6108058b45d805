package domain

import (
	"fmt"
	"strings"
)

// ParseRepository normalizes a user-supplied repository reference into a
// Repository. Accepted forms:
//
//	https://github.com/owner/name
//	github.com/owner/name
//	owner/name
//
// Extra path segments (e.g. a link to a file or an issue) are discarded.
func ParseRepository(input string) (Repository, error) {
	path := strings.TrimRight(strings.TrimSpace(input), "/")

	switch {
	case strings.HasPrefix(path, "https://github.com/"):
		path = strings.TrimPrefix(path, "https://github.com/")
	case strings.HasPrefix(path, "github.com/"):
		path = strings.TrimPrefix(path, "github.com/")
	}

	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Repository{}, fmt.Errorf("%w: %q", ErrInvalidRepository, input)
	}
	return Repository{Owner: parts[0], Name: parts[1]}, nil
}
