package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers reference master-data lookup misses (unknown
	// governing body, conference, proposal, judgment row).
	ErrNotFound = errors.New("record not found")
	// ErrValidation covers malformed input: bad vote lines, labels outside
	// the judgment vocabulary, duplicate politician ids in one roll-call
	// request, missing ids on an update call.
	ErrValidation = errors.New("validation failed")
	// ErrDataIntegrity covers attempts to update a record lacking an id.
	ErrDataIntegrity = errors.New("data integrity violation")
	// ErrRepository wraps storage failures; it always propagates and aborts
	// the enclosing batch or operation.
	ErrRepository = errors.New("repository failure")
	// ErrConflict surfaces a storage uniqueness violation, e.g. two
	// concurrent writers racing on one (proposal, politician) judgment.
	ErrConflict = errors.New("judgment row conflict")

	ErrUnknownAnalyzer = errors.New("unknown submitter analyzer")
)

// Specific validation failures; all satisfy errors.Is(err, ErrValidation).
var (
	ErrDuplicateVote      = fmt.Errorf("%w: duplicate politician id in roll-call request", ErrValidation)
	ErrJudgmentVocabulary = fmt.Errorf("%w: judgment label outside vocabulary", ErrValidation)
	ErrStatusTransition   = fmt.Errorf("%w: matching status is terminal", ErrValidation)
)
