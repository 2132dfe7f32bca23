package ledger

import (
	"context"
	"sync"

	"github.com/clearsim/clearsim/internal/identity"
)

type allowanceKey struct {
	approver identity.ID
	spender  identity.ID
}

// Central is the clearing ledger: it records, per (bank owner, receiving
// bank) pair, the remaining approved transfer capacity, and carries the
// aggregate liability mirroring every deposit and withdrawal across the
// network. It holds no customer balances of its own.
type Central struct {
	mu          sync.RWMutex
	address     identity.ID
	approvers   map[identity.ID]bool
	allowances  map[allowanceKey]int64
	totalSupply int64
}

// NewCentral deploys an empty central clearing ledger.
func NewCentral() *Central {
	return &Central{
		address:    identity.New(),
		approvers:  make(map[identity.ID]bool),
		allowances: make(map[allowanceKey]int64),
	}
}

// Address returns the central ledger's deployment address.
func (c *Central) Address() identity.ID {
	return c.address
}

// TotalSupply returns the central liability: cumulative issued minus
// redeemed value across all banks.
func (c *Central) TotalSupply() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.totalSupply
}

// Approve records, overwriting any previous value, that the spender bank may
// pull up to amount on the caller's behalf. Only registered bank owners may
// approve; approving zero revokes a prior approval.
func (c *Central) Approve(_ context.Context, spender identity.ID, amount int64, caller identity.ID) error {
	if amount < 0 {
		return ErrInvalidAmount
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.approvers[caller] {
		return ErrUnauthorized
	}

	c.allowances[allowanceKey{approver: caller, spender: spender}] = amount
	return nil
}

// Allowance returns the remaining approved capacity for the pair, zero if
// none was ever recorded.
func (c *Central) Allowance(approver, spender identity.ID) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.allowances[allowanceKey{approver: approver, spender: spender}]
}

// registerApprover marks an identity as a bank owner allowed to approve
// cross-bank transfers. Called once per bank at deployment.
func (c *Central) registerApprover(owner identity.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.approvers[owner] = true
}
