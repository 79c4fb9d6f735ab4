package service

import "errors"

var (
	// ErrAlreadyAssigned is returned when an assign/nominate call collides
	// with an existing contribution record and reassignment was not requested.
	ErrAlreadyAssigned = errors.New("contribution already assigned for this issue")

	// ErrNotAssigned is returned by request/submit/decline/remind operations
	// when no contribution record exists for the issue.
	ErrNotAssigned = errors.New("no contribution assigned for this issue")

	// ErrNotAssignee is returned when a submission arrives from someone other
	// than the assigned contributor.
	ErrNotAssignee = errors.New("submitter is not the assigned contributor")

	// ErrNoEligibleMembers is returned when the rotation pool is empty.
	ErrNoEligibleMembers = errors.New("no eligible members for selection")

	// ErrSectionLocked is returned when an edit targets a final section.
	ErrSectionLocked = errors.New("section is locked")

	// ErrInvalidSectionType is returned for a type outside the fixed set.
	ErrInvalidSectionType = errors.New("unknown section type")

	// ErrNotApproved is returned when publish is attempted before approval.
	ErrNotApproved = errors.New("issue is not approved for publishing")

	// ErrAlreadyPublished is returned when approve/publish hits a published issue.
	ErrAlreadyPublished = errors.New("issue is already published")

	// ErrEmptyContent is returned for blank submissions.
	ErrEmptyContent = errors.New("content must not be empty")
)
