package sim

import (
	"context"
	"math/rand"

	"github.com/clearsim/clearsim/internal/identity"
	"github.com/clearsim/clearsim/internal/ledger"
)

// Action is one of the financial moves a customer can make in a step.
type Action int

const (
	ActionDeposit Action = iota
	ActionWithdraw
	ActionPay
)

// chooseAction samples the step's action uniformly from the injected random
// source. Customers keep no mode between steps.
func chooseAction(r *rand.Rand) Action {
	return Action(r.Intn(3))
}

// Customer is an autonomous agent holding a wallet identity and a home-bank
// affiliation fixed at setup. All shared state (ledgers, grid, randomness)
// is handed in through the model; the customer owns nothing but its identity.
type Customer struct {
	wallet     identity.ID
	bankSymbol string
}

// Wallet returns the customer's wallet identity.
func (c *Customer) Wallet() identity.ID { return c.wallet }

// BankSymbol returns the symbol of the customer's home bank.
func (c *Customer) BankSymbol() string { return c.bankSymbol }

// step relocates the customer and performs one randomly chosen action. A
// failed action is logged and skipped; it never stops the run.
func (c *Customer) step(ctx context.Context, m *Model) {
	c.move(m)

	var err error
	switch chooseAction(m.rng) {
	case ActionDeposit:
		err = c.deposit(ctx, m)
	case ActionWithdraw:
		err = c.withdraw(ctx, m)
	case ActionPay:
		err = c.pay(ctx, m)
	}
	if err != nil {
		m.logger.Debug("agent action skipped", "wallet", string(c.wallet), "bank", c.bankSymbol, "error", err)
	}
}

// move relocates to a uniformly random in-bounds neighbor cell.
func (c *Customer) move(m *Model) {
	pos, ok := m.grid.PositionOf(c.wallet)
	if !ok {
		return
	}
	neighbors := m.grid.Neighborhood(pos)
	if len(neighbors) == 0 {
		return
	}
	next := neighbors[m.rng.Intn(len(neighbors))]
	if err := m.grid.Place(c.wallet, next); err != nil {
		m.logger.Debug("agent move skipped", "wallet", string(c.wallet), "error", err)
	}
}

// deposit puts a random amount of fresh value into the customer's account,
// mediated by the bank owner through the clearing house.
func (c *Customer) deposit(ctx context.Context, m *Model) error {
	units := m.rng.Int63n(m.maxDepositUnits) + 1
	return m.house.Deposit(ctx, c.bankSymbol, c.wallet, units*ledger.Unit)
}

// withdraw takes a random amount up to the current balance back out. A zero
// balance is a no-op.
func (c *Customer) withdraw(ctx context.Context, m *Model) error {
	bank, ok := m.house.Bank(c.bankSymbol)
	if !ok {
		return ledger.ErrUnknownBank
	}
	balance := bank.BalanceOf(c.wallet)
	if balance <= 0 {
		return nil
	}
	amount := m.rng.Int63n(balance) + 1
	return m.house.Withdraw(ctx, c.bankSymbol, c.wallet, amount)
}

// pay sends a random amount to a random co-located customer. Same home bank
// means a direct intra-bank transfer authorized by the payer; otherwise the
// full authorize/execute clearing protocol runs under the payer's bank
// owner's authority.
func (c *Customer) pay(ctx context.Context, m *Model) error {
	bank, ok := m.house.Bank(c.bankSymbol)
	if !ok {
		return ledger.ErrUnknownBank
	}
	balance := bank.BalanceOf(c.wallet)
	if balance <= 0 {
		return nil
	}
	amount := m.rng.Int63n(balance) + 1

	pos, ok := m.grid.PositionOf(c.wallet)
	if !ok {
		return nil
	}
	var candidates []*Customer
	for _, id := range m.grid.Occupants(pos) {
		if id == c.wallet {
			continue
		}
		if other, ok := m.byWallet[id]; ok {
			candidates = append(candidates, other)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	payee := candidates[m.rng.Intn(len(candidates))]

	if payee.bankSymbol == c.bankSymbol {
		return bank.Transfer(ctx, payee.wallet, amount, c.wallet)
	}

	dest, ok := m.house.Bank(payee.bankSymbol)
	if !ok {
		return ledger.ErrUnknownBank
	}
	owner := bank.Owner()
	if err := m.house.Approve(ctx, c.bankSymbol, dest.Address(), amount, owner); err != nil {
		return err
	}
	return m.house.Execute(ctx, c.bankSymbol, dest.Address(), c.wallet, payee.wallet, amount, owner)
}
