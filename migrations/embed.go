package migrations

import "embed"

// Files holds the forward-only schema for users, organizations and
// onboarding state.
//
//go:embed *.sql
var Files embed.FS
