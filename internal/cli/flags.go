package cli

import (
	"fmt"
	"strconv"
	"time"
)

// durationFlag accepts Go durations ("5s") or bare milliseconds ("5000").
type durationFlag struct {
	d time.Duration
}

func (f *durationFlag) String() string {
	if f.d == 0 {
		return ""
	}
	return f.d.String()
}

func (f *durationFlag) Set(s string) error {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ms < 0 {
			return fmt.Errorf("timeout must not be negative")
		}
		f.d = time.Duration(ms) * time.Millisecond
		return nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q", s)
	}
	if d < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	f.d = d
	return nil
}

func (f *durationFlag) Type() string { return "duration" }
