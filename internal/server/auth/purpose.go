// Package auth issues and verifies RS256-signed tokens. Each Purpose has its
// own key pair and lifetime, so a token only verifies under the purpose it was
// issued for.
package auth

import (
	"fmt"
	"time"
)

type Purpose int

const (
	Access Purpose = iota
	Refresh
	Verify
	Recover
)

var purposeKeys = [...]string{
	Access:  "access",
	Refresh: "refresh",
	Verify:  "verify",
	Recover: "recover",
}

// Purposes lists every purpose; keygen writes one key pair for each.
var Purposes = []Purpose{Access, Refresh, Verify, Recover}

// String returns the key used for key file names and token type records.
func (p Purpose) String() string {
	if p < 0 || int(p) >= len(purposeKeys) {
		return fmt.Sprintf("purpose(%d)", int(p))
	}
	return purposeKeys[p]
}

// Lifetimes holds the configured duration for each purpose. A zero duration
// issues tokens without an expiry claim.
type Lifetimes struct {
	Access  time.Duration
	Refresh time.Duration
	Verify  time.Duration
	Recover time.Duration
}

func (l Lifetimes) of(p Purpose) time.Duration {
	switch p {
	case Access:
		return l.Access
	case Refresh:
		return l.Refresh
	case Verify:
		return l.Verify
	case Recover:
		return l.Recover
	}
	return 0
}
