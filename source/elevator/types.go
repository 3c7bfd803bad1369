package elevator

import (
	"time"

	"elevsim/source/config"
)

type Type int

const (
	Standard Type = iota
	HighSpeed
	Freight
)

func (t Type) String() string {
	switch t {
	case Standard:
		return "Standard"
	case HighSpeed:
		return "High-Speed"
	case Freight:
		return "Freight"
	default:
		return "Unknown"
	}
}

func (t Type) MaxCapacity() int {
	switch t {
	case HighSpeed:
		return config.HIGH_SPEED_CAPACITY
	case Freight:
		return config.FREIGHT_CAPACITY
	default:
		return config.STANDARD_CAPACITY
	}
}

// PerFloor is the travel time for one floor. HighSpeed is the fastest and
// Freight the slowest.
func (t Type) PerFloor(timing config.Timing) time.Duration {
	switch t {
	case HighSpeed:
		return timing.HighSpeedPerFloor
	case Freight:
		return timing.FreightPerFloor
	default:
		return timing.StandardPerFloor
	}
}

type Direction int

const (
	Down Direction = -1
	Idle Direction = 0
	Up   Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Idle:
		return "Idle"
	default:
		return "Undefined"
	}
}

func directionTo(from, to int) Direction {
	switch {
	case to > from:
		return Up
	case to < from:
		return Down
	default:
		return Idle
	}
}

type State int

const (
	StateIdle State = iota
	StateMoving
	StateDoorsOpen
	StateOutOfService
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateMoving:
		return "Moving"
	case StateDoorsOpen:
		return "DoorsOpen"
	case StateOutOfService:
		return "OutOfService"
	default:
		return "Undefined"
	}
}
