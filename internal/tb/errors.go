package tb

import "errors"

var (
	// ErrNotFound is returned when an operation references an unknown project id.
	ErrNotFound = errors.New("project not found")

	// ErrDuplicateID is returned by Store.Add when the id is already taken.
	ErrDuplicateID = errors.New("duplicate project id")

	// ErrInvalidInput covers missing names, keys and unknown models.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTransition is returned when a lifecycle action does not apply
	// to the project's current status.
	ErrInvalidTransition = errors.New("invalid lifecycle transition")

	// ErrEmptyOutline refuses generation of a project with no outline text.
	ErrEmptyOutline = errors.New("please create an outline before generating content")

	// ErrNoChaptersFound refuses generation when extraction yields nothing.
	ErrNoChaptersFound = errors.New("no chapters found in outline, please add chapters in YAML format")
)
