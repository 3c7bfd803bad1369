package elevator

import (
	"fmt"

	"github.com/xyproto/randomstring"
)

const REQUEST_ID_LEN = 8

// Request is one passenger-transport demand between two floors. It is a value:
// a remainder is a new Request with the same floors and trace id.
type Request struct {
	ID         string
	From       int
	To         int
	Passengers int
}

func NewRequest(from, to, passengers int) (Request, error) {
	if err := ValidateTrip(from, to, passengers); err != nil {
		return Request{}, err
	}
	return Request{
		ID:         randomstring.EnglishFrequencyString(REQUEST_ID_LEN),
		From:       from,
		To:         to,
		Passengers: passengers,
	}, nil
}

func ValidateTrip(from, to, passengers int) error {
	if err := ValidateFloor(from); err != nil {
		return fmt.Errorf("from %w", err)
	}
	if err := ValidateFloor(to); err != nil {
		return fmt.Errorf("to %w", err)
	}
	if from == to {
		return fmt.Errorf("from and to floor are both %d: %w", from, ErrInvalidRequest)
	}
	if passengers <= 0 {
		return fmt.Errorf("passenger count %d must be positive: %w", passengers, ErrInvalidRequest)
	}
	return nil
}

func (r Request) Direction() Direction {
	if r.To > r.From {
		return Up
	}
	return Down
}

func (r Request) Remainder(passengers int) Request {
	r.Passengers = passengers
	return r
}

func (r Request) String() string {
	return fmt.Sprintf("%dp %d->%d (%s)", r.Passengers, r.From, r.To, r.Direction())
}
