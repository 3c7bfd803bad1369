package elevator

import (
	"errors"
	"fmt"

	"elevsim/source/config"
)

const (
	minFloor = config.MIN_FLOOR
	maxFloor = config.NUM_FLOORS
)

var (
	ErrInvalidFloor     = errors.New("invalid floor")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrOutOfService     = errors.New("elevator out of service")
)

func ValidateFloor(floor int) error {
	if floor < minFloor || floor > maxFloor {
		return fmt.Errorf("floor %d is outside %d..%d: %w", floor, minFloor, maxFloor, ErrInvalidFloor)
	}
	return nil
}
