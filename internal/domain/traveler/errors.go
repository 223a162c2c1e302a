package traveler

import "errors"

var (
	ErrNotFound      = errors.New("traveler not found")
	ErrTravelerInUse = errors.New("traveler is on an active booking")
	// ErrTravelerExists is an update that would duplicate another active
	// traveler of the same customer.
	ErrTravelerExists = errors.New("a traveler with this name and phone already exists")
)

// ErrDuplicateParticipant is returned when two participants of one booking
// resolve to the same traveler.
var ErrDuplicateParticipant = errors.New("the same traveler is listed twice")
