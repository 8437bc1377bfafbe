package cache

import (
	"fmt"
	"time"
)

// Expiration is how long a cached item stays valid.
type Expiration int

const (
	OneMin Expiration = iota
	ThreeMin
	FiveMin
	TenMin
	OneHour
	OneDay
	Never
)

var expirations = []struct {
	name     string
	duration time.Duration
}{
	OneMin:   {"one-min", time.Minute},
	ThreeMin: {"three-min", 3 * time.Minute},
	FiveMin:  {"five-min", 5 * time.Minute},
	TenMin:   {"ten-min", 10 * time.Minute},
	OneHour:  {"one-hour", time.Hour},
	OneDay:   {"one-day", 24 * time.Hour},
	Never:    {"never", 0},
}

// Duration returns the lifetime of an entry; zero means it never expires.
func (e Expiration) Duration() time.Duration {
	if e < 0 || int(e) >= len(expirations) {
		return 0
	}
	return expirations[e].duration
}

func (e Expiration) String() string {
	if e < 0 || int(e) >= len(expirations) {
		return fmt.Sprintf("Expiration(%d)", int(e))
	}
	return expirations[e].name
}

// ParseExpiration reads a name such as "five-min".
func ParseExpiration(s string) (Expiration, error) {
	for i, e := range expirations {
		if e.name == s {
			return Expiration(i), nil
		}
	}
	return 0, fmt.Errorf("unknown cache expiration %q", s)
}
