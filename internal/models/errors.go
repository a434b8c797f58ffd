package models

import "errors"

// ErrOnboardingAlreadyCompleted is returned by storage when a completion
// races with one that already closed the user's onboarding.
var ErrOnboardingAlreadyCompleted = errors.New("onboarding already completed")
