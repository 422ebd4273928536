package models

import "errors"

// Domain error taxonomy. Handlers map these to HTTP status codes via
// pkg/response; everything else surfaces as a 500.
var (
	// ErrUserExists means identity creation collided with an existing email.
	ErrUserExists = errors.New("a user with that email already exists")

	// ErrSecretRequired means a public recording was requested without a secret.
	ErrSecretRequired = errors.New("a public recording requires a password")

	// ErrRecordingNotFound means a recording lookup by id failed.
	ErrRecordingNotFound = errors.New("recording with that id does not exist")

	// ErrMeetingNotFound means a meeting lookup by id failed.
	ErrMeetingNotFound = errors.New("meeting with that id does not exist")

	// ErrUserAddToPrivate means a share was attempted on a private recording.
	ErrUserAddToPrivate = errors.New("can't add user to recording while recording is private")

	// ErrInvalidCredentials covers missing credentials, unknown meetings during
	// authorization, and failed secret checks. The conditions are deliberately
	// indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidMeetingID means a meeting-id argument was neither numeric nor "all".
	ErrInvalidMeetingID = errors.New(`meeting id must be an integer or "all"`)
)
