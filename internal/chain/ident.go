// Package chain is the boundary between raw ledger data and the typed
// domain model: object-identifier validation and swap event-log parsing.
// Everything downstream of this package assumes well-typed input.
package chain

import (
	"errors"
	"fmt"
	"regexp"
)

var (
	ErrInvalidObjectID = errors.New("chain: invalid object ID")
	ErrInvalidCoinType = errors.New("chain: invalid coin type tag")
)

// objectIDRegex matches a 32-byte hex object ID: 0x + 64 hex chars.
var objectIDRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// coinTypeRegex matches a coin type tag: {address}::{module}::{NAME},
// e.g. 0x2::sui::SUI. The address part allows the short forms the RPC
// returns for system packages.
var coinTypeRegex = regexp.MustCompile(`^0x[0-9a-fA-F]{1,64}::[a-z_][a-z0-9_]*::[A-Z_][A-Z0-9_]*$`)

// ValidateObjectID checks that id is a well-formed on-chain object ID.
func ValidateObjectID(id string) error {
	if !objectIDRegex.MatchString(id) {
		return fmt.Errorf("%w: %q (expected 0x + 64 hex chars)", ErrInvalidObjectID, id)
	}
	return nil
}

// ValidateCoinType checks that tag is a well-formed coin type tag.
func ValidateCoinType(tag string) error {
	if !coinTypeRegex.MatchString(tag) {
		return fmt.Errorf("%w: %q (expected {address}::{module}::{NAME})", ErrInvalidCoinType, tag)
	}
	return nil
}
