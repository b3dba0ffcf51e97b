package services

import "errors"

var (
	// ErrUserNotFound: the referenced user does not exist; nothing was written.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidActivity: unknown activity type, rejected before any write.
	ErrInvalidActivity = errors.New("invalid activity type")

	// ErrInvalidRankPath: rank path outside the known set.
	ErrInvalidRankPath = errors.New("invalid rank path")

	// ErrInvalidRequirement: badge requirement kind outside the known set.
	ErrInvalidRequirement = errors.New("invalid badge requirement type")

	// ErrBadgeExists: a badge with the same code already exists.
	ErrBadgeExists = errors.New("badge already exists")

	// Feature gates. Handlers map these to 503 with a disabled flag instead
	// of computing partial data.
	ErrProgressionDisabled = errors.New("progression is disabled")
	ErrBadgesDisabled      = errors.New("badges are disabled")
	ErrRankTitlesDisabled  = errors.New("rank titles are disabled")
)
