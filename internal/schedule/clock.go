package schedule

import "time"

// Clock abstracts time.Now so scheduling decisions are deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
