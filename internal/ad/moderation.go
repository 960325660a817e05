// internal/ad/moderation.go
//
// Moderation state machine.
//
//	pending  --approve-->    approved
//	pending  --reject-->     inactive
//	approved --deactivate--> inactive
//	inactive --reactivate--> approved
//	any      --delete-->     (removed)
//
// Contact submissions move pending --review--> reviewed, and may be deleted
// from either state.  Delete is not a status change, so Apply rejects it;
// callers branch on Action.Removes first.
package ad

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when an action is not legal from the
// current state.
var ErrInvalidTransition = errors.New("invalid status transition")

// Action is an admin moderation command for ads.
type Action string

const (
	Approve    Action = "approve"
	Reject     Action = "reject"
	Deactivate Action = "deactivate"
	Reactivate Action = "reactivate"
	Delete     Action = "delete"
)

var transitions = map[Status]map[Action]Status{
	Pending:  {Approve: Approved, Reject: Inactive},
	Approved: {Deactivate: Inactive},
	Inactive: {Reactivate: Approved},
}

// ParseAction maps a URL segment to an Action.
func ParseAction(s string) (Action, bool) {
	switch a := Action(s); a {
	case Approve, Reject, Deactivate, Reactivate, Delete:
		return a, true
	}
	return "", false
}

// Removes reports whether a deletes the record.
func (a Action) Removes() bool { return a == Delete }

// Apply returns the state reached by a from s.
func (s Status) Apply(a Action) (Status, error) {
	if next, ok := transitions[s][a]; ok {
		return next, nil
	}
	return s, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, a, s)
}

// Actions lists the actions legal from s, delete last.  The dashboard uses
// it to decide which buttons to render.
func (s Status) Actions() []Action {
	var out []Action
	for _, a := range []Action{Approve, Reject, Deactivate, Reactivate} {
		if _, ok := transitions[s][a]; ok {
			out = append(out, a)
		}
	}
	return append(out, Delete)
}

// ContactAction is an admin command for contact submissions.
type ContactAction string

const (
	Review        ContactAction = "review"
	DeleteContact ContactAction = "delete"
)

// ParseContactAction maps a URL segment to a ContactAction.
func ParseContactAction(s string) (ContactAction, bool) {
	switch a := ContactAction(s); a {
	case Review, DeleteContact:
		return a, true
	}
	return "", false
}

// Removes reports whether a deletes the submission.
func (a ContactAction) Removes() bool { return a == DeleteContact }

// Apply returns the state reached by a from s.
func (s ContactStatus) Apply(a ContactAction) (ContactStatus, error) {
	if s == ContactPending && a == Review {
		return ContactReviewed, nil
	}
	return s, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, a, s)
}
