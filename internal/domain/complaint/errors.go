package complaint

import "errors"

var (
	// ErrDuplicateID: create called with an id already present in the
	// active set (Complaints or Responded).
	ErrDuplicateID = errors.New("complaint: id already exists")

	// ErrNotFound: the id is absent from the expected source collection.
	ErrNotFound = errors.New("complaint: not found")

	// ErrInvalidTransition: the operation is not valid from the record's
	// current state (e.g. respond on a record that is not active).
	ErrInvalidTransition = errors.New("complaint: invalid state transition")

	// ErrUnknownType: the complaint type is not in the configured Types
	// list and is not the record's current value.
	ErrUnknownType = errors.New("complaint: unknown complaint type")

	// ErrSignatureRequired: approve called without an attestation.
	ErrSignatureRequired = errors.New("complaint: signature required")

	// ErrUnauthorized: wrong shared secret for a manager action.
	ErrUnauthorized = errors.New("complaint: unauthorized")
)
