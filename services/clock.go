package services

import "time"

// Clock источник текущего времени в UTC
type Clock interface {
	Now() time.Time
}

// SystemClock возвращает системное время
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock всегда возвращает один и тот же момент
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time {
	return c.At.UTC()
}
