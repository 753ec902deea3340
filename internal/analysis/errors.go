package analysis

import (
	"errors"

	"github.com/spigell/hireability/internal/github"
)

// IsNotFound reports whether err means the account or the repository does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, github.ErrNotFound) || errors.Is(err, ErrRepoNotFound)
}

// IsInvalid reports whether err was caused by the request itself.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}
