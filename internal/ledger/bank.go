package ledger

import (
	"context"
	"sync"

	"github.com/clearsim/clearsim/internal/identity"
)

// Bank is the account ledger of a single bank: a mutex-guarded mapping of
// customer identity to balance plus the running total of all balances.
// Privileged operations check the caller against the stored owner identity
// rather than any ambient session state.
type Bank struct {
	mu          sync.RWMutex
	symbol      string
	address     identity.ID
	owner       identity.ID
	balances    map[identity.ID]int64
	totalSupply int64
}

// NewBank deploys an empty account ledger for the given symbol, owned by the
// provided owner identity, at a fresh deployment address.
func NewBank(symbol string, owner identity.ID) *Bank {
	return &Bank{
		symbol:   symbol,
		address:  identity.New(),
		owner:    owner,
		balances: make(map[identity.ID]int64),
	}
}

// Symbol returns the bank's human-readable symbol.
func (b *Bank) Symbol() string { return b.symbol }

// Address returns the bank ledger's deployment address.
func (b *Bank) Address() identity.ID { return b.address }

// Owner returns the identity authorized for privileged operations.
func (b *Bank) Owner() identity.ID { return b.owner }

// OpenAccount registers the caller with a zero balance. Opening an account
// that already exists is a no-op; the existing balance is preserved.
func (b *Bank) OpenAccount(_ context.Context, caller identity.ID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.balances[caller]; !exists {
		b.balances[caller] = 0
	}
	return nil
}

// Deposit credits the customer and grows the total supply. Only the owner may
// deposit on a customer's behalf.
func (b *Bank) Deposit(_ context.Context, customer identity.ID, amount int64, caller identity.ID) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if caller != b.owner {
		return ErrUnauthorized
	}

	b.balances[customer] += amount
	b.totalSupply += amount
	return nil
}

// Withdraw debits the customer and shrinks the total supply. Only the owner
// may withdraw on a customer's behalf, and never below zero.
func (b *Bank) Withdraw(_ context.Context, customer identity.ID, amount int64, caller identity.ID) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if caller != b.owner {
		return ErrUnauthorized
	}
	if b.balances[customer] < amount {
		return ErrInsufficientFunds
	}

	b.balances[customer] -= amount
	b.totalSupply -= amount
	return nil
}

// Transfer moves funds between two customers of this bank. The caller is the
// sender and needs no owner privilege; the total supply is unchanged.
func (b *Bank) Transfer(_ context.Context, to identity.ID, amount int64, caller identity.ID) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.balances[caller] < amount {
		return ErrInsufficientFunds
	}

	b.balances[caller] -= amount
	b.balances[to] += amount
	return nil
}

// BalanceOf returns the customer's balance. Unknown customers read as zero.
func (b *Bank) BalanceOf(customer identity.ID) int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.balances[customer]
}

// TotalSupply returns the sum of all balances held at this bank.
func (b *Bank) TotalSupply() int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.totalSupply
}

// Balances returns a copy of every registered balance, for invariant checks
// and reporting.
func (b *Bank) Balances() map[identity.ID]int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[identity.ID]int64, len(b.balances))
	for id, v := range b.balances {
		out[id] = v
	}
	return out
}
