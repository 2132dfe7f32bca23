// Package ledger implements the two-tier tokenized-deposit engine: per-bank
// account ledgers, the central clearing ledger, and the authorize/execute
// protocol that moves value between banks while keeping the central books in
// balance.
//
// All amounts are int64 micro-units: fixed point with six implied decimal
// places, so one display unit equals Unit.
package ledger

import (
	"errors"

	"github.com/clearsim/clearsim/internal/identity"
)

// Unit is the number of micro-units in one display unit.
const Unit = 1_000_000

// CentralSymbol is the reserved symbol under which the central clearing
// ledger appears in the deployment mapping.
const CentralSymbol = "centralbank"

var (
	// ErrUnauthorized occurs when a privileged operation is attempted by an
	// identity that is not the required owner or registered authority.
	ErrUnauthorized = errors.New("unauthorized caller")

	// ErrInsufficientFunds occurs when a withdrawal, transfer, or cross-bank
	// execution exceeds the available balance or remaining allowance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount occurs when an operation is given a non-positive amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrUnknownBank occurs when an operation references a bank symbol or
	// deployment address that was never deployed.
	ErrUnknownBank = errors.New("unknown bank")

	// ErrSameBank occurs when the cross-bank protocol is pointed at the
	// sending bank itself; intra-bank transfers go through Bank.Transfer.
	ErrSameBank = errors.New("sender and recipient bank are the same")
)

// Ledger is the read surface shared by bank ledgers and the central ledger.
// Deploy returns one handle per symbol through this interface.
type Ledger interface {
	Address() identity.ID
	TotalSupply() int64
}
