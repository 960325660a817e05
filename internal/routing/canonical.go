// internal/routing/canonical.go
//
// Per-request canonicalization state machine.
//
//	Unresolved ─▶ Decoding ─┬─▶ NotFound      unknown or retired gender
//	                        ├─▶ Redirecting   alias spelling (308)
//	                        └─▶ Resolved      canonical, fetch data
//
// After the ad is fetched, CheckAd may move a Resolved request back to
// Redirecting when the ad's own canonical path differs from the one
// requested (for example after its city was edited), or to NotFound when
// the ad is not public.

package routing

import (
	"github.com/yanizio/escortde/internal/ad"
)

// State of a canonicalization pass.
type State int

const (
	Unresolved State = iota
	Decoding
	NotFound
	Redirecting
	Resolved
)

func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Decoding:
		return "decoding"
	case NotFound:
		return "not_found"
	case Redirecting:
		return "redirecting"
	case Resolved:
		return "resolved"
	}
	return "unknown"
}

// Decision is the outcome of one step.  Location is set only when State is
// Redirecting; Gender only once the gender has been decoded.
type Decision struct {
	State    State
	Gender   ad.Gender
	Location string
}

// DecodeGender inspects the gender segment of an /escorts path.  rest holds
// the segments after it and is used to rebuild the redirect target.
func DecodeGender(seg string, rest ...string) Decision {
	d := Decision{State: Decoding}

	g, ok := SlugToGender(seg)
	if !ok {
		d.State = NotFound
		return d
	}
	d.Gender = g

	if canon := GenderToSlug(g); canon != seg {
		d.State = Redirecting
		d.Location = BuildPath(append([]string{EscortsRoot, canon}, rest...)...)
		return d
	}
	d.State = Resolved
	return d
}

// CheckAd compares the requested detail path with the ad's canonical path.
func CheckAd(requested string, a *ad.Ad) Decision {
	if !a.Public() {
		return Decision{State: NotFound}
	}
	want, ok := AdPath(a)
	if !ok {
		return Decision{State: NotFound, Gender: a.Gender}
	}
	if requested != want {
		return Decision{State: Redirecting, Gender: a.Gender, Location: want}
	}
	return Decision{State: Resolved, Gender: a.Gender}
}
