package ledger

import (
	"context"
	"fmt"
	"sort"

	"github.com/clearsim/clearsim/internal/identity"
)

// House wires the bank ledgers and the central clearing ledger together. It
// performs the owner-mediated on/off ramps and the two-step authorize/execute
// cross-bank protocol, keeping the global law
//
//	sum over banks of totalSupply == central totalSupply
//
// true after every completed operation.
//
// Multi-ledger operations take locks in a fixed global order, banks sorted by
// symbol and the central ledger last, so concurrent callers cannot deadlock.
type House struct {
	central   *Central
	banks     map[string]*Bank
	byAddress map[identity.ID]*Bank
	symbols   []string
}

// Deploy creates numBanks empty bank ledgers (symbols B0, B1, ...) with fresh
// owner identities and binds them to the given central clearing ledger. A nil
// central deploys a fresh one.
func Deploy(numBanks int, central *Central) (*House, error) {
	if numBanks <= 0 {
		return nil, fmt.Errorf("deploy: need at least one bank, got %d", numBanks)
	}
	if central == nil {
		central = NewCentral()
	}

	h := &House{
		central:   central,
		banks:     make(map[string]*Bank, numBanks),
		byAddress: make(map[identity.ID]*Bank, numBanks),
	}

	for i := 0; i < numBanks; i++ {
		symbol := fmt.Sprintf("B%d", i)
		bank := NewBank(symbol, identity.New())
		h.banks[symbol] = bank
		h.byAddress[bank.Address()] = bank
		h.symbols = append(h.symbols, symbol)
		h.central.registerApprover(bank.Owner())
	}
	sort.Strings(h.symbols)

	return h, nil
}

// Central returns the clearing ledger.
func (h *House) Central() *Central { return h.central }

// Bank returns the ledger deployed under the given symbol.
func (h *House) Bank(symbol string) (*Bank, bool) {
	b, ok := h.banks[symbol]
	return b, ok
}

// Symbols returns the bank symbols in sorted order, excluding the central
// ledger's reserved symbol.
func (h *House) Symbols() []string {
	out := make([]string, len(h.symbols))
	copy(out, h.symbols)
	return out
}

// Ledgers returns every deployed ledger keyed by symbol, the central ledger
// under CentralSymbol.
func (h *House) Ledgers() map[string]Ledger {
	out := make(map[string]Ledger, len(h.banks)+1)
	for symbol, bank := range h.banks {
		out[symbol] = bank
	}
	out[CentralSymbol] = h.central
	return out
}

// Deposit is the owner-mediated on-ramp: it credits the customer at their
// bank and issues the same amount of central liability, as one critical
// section so the clearing invariant holds at every instant in between
// operations.
func (h *House) Deposit(_ context.Context, symbol string, customer identity.ID, amount int64) error {
	bank, ok := h.banks[symbol]
	if !ok {
		return ErrUnknownBank
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}

	bank.mu.Lock()
	defer bank.mu.Unlock()
	h.central.mu.Lock()
	defer h.central.mu.Unlock()

	bank.balances[customer] += amount
	bank.totalSupply += amount
	h.central.totalSupply += amount
	return nil
}

// Withdraw is the owner-mediated off-ramp: it debits the customer at their
// bank and redeems the same amount of central liability. A short balance
// fails the whole operation with no effect on either ledger.
func (h *House) Withdraw(_ context.Context, symbol string, customer identity.ID, amount int64) error {
	bank, ok := h.banks[symbol]
	if !ok {
		return ErrUnknownBank
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}

	bank.mu.Lock()
	defer bank.mu.Unlock()
	h.central.mu.Lock()
	defer h.central.mu.Unlock()

	if bank.balances[customer] < amount {
		return ErrInsufficientFunds
	}

	bank.balances[customer] -= amount
	bank.totalSupply -= amount
	h.central.totalSupply -= amount
	return nil
}

// Approve is step one of the cross-bank protocol: the sending bank's owner
// records at the central ledger that the receiving bank may pull up to
// amount. No value moves.
func (h *House) Approve(ctx context.Context, fromSymbol string, toBank identity.ID, amount int64, caller identity.ID) error {
	bank, ok := h.banks[fromSymbol]
	if !ok {
		return ErrUnknownBank
	}
	if caller != bank.Owner() {
		return ErrUnauthorized
	}
	return h.central.Approve(ctx, toBank, amount, caller)
}

// Execute is step two of the cross-bank protocol. Under the authority of the
// sending bank's owner it debits the sender, credits the recipient at the
// receiving bank, moves the matching total supply between the two bank
// ledgers, and consumes the allowance, all inside one critical section. Any
// failed check leaves every ledger untouched.
//
// Allowance consumption is partial: any amount up to the remaining allowance
// executes and decrements it by exactly that amount; more than the remainder
// fails with ErrInsufficientFunds.
func (h *House) Execute(_ context.Context, fromSymbol string, toBank identity.ID, sender, recipient identity.ID, amount int64, caller identity.ID) error {
	src, ok := h.banks[fromSymbol]
	if !ok {
		return ErrUnknownBank
	}
	dst, ok := h.byAddress[toBank]
	if !ok {
		return ErrUnknownBank
	}
	if src == dst {
		return ErrSameBank
	}
	if caller != src.Owner() {
		return ErrUnauthorized
	}
	if amount <= 0 {
		return ErrInvalidAmount
	}

	first, second := src, dst
	if dst.symbol < src.symbol {
		first, second = dst, src
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()
	h.central.mu.Lock()
	defer h.central.mu.Unlock()

	key := allowanceKey{approver: caller, spender: toBank}
	if h.central.allowances[key] < amount {
		return ErrInsufficientFunds
	}
	if src.balances[sender] < amount {
		return ErrInsufficientFunds
	}

	src.balances[sender] -= amount
	src.totalSupply -= amount
	dst.balances[recipient] += amount
	dst.totalSupply += amount
	h.central.allowances[key] -= amount
	return nil
}
