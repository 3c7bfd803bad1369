package config

import "time"

const NUM_FLOORS = 20
const MIN_FLOOR = 1
const NUM_ELEVATORS = 4

const STANDARD_CAPACITY = 8
const HIGH_SPEED_CAPACITY = 12
const FREIGHT_CAPACITY = 20
const TOTAL_CAPACITY = 2*STANDARD_CAPACITY + HIGH_SPEED_CAPACITY + FREIGHT_CAPACITY // 48

const STANDARD_PER_FLOOR = 1200 * time.Millisecond
const HIGH_SPEED_PER_FLOOR = 800 * time.Millisecond
const FREIGHT_PER_FLOOR = 1500 * time.Millisecond
const PER_PASSENGER = 300 * time.Millisecond
