// Package sim drives the tokenized-deposit network: customer agents on a
// bounded grid deposit, withdraw, and pay each other in discrete steps, and
// every ledger's total supply is sampled after each step.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/clearsim/clearsim/internal/grid"
	"github.com/clearsim/clearsim/internal/identity"
	"github.com/clearsim/clearsim/internal/ledger"
	"github.com/clearsim/clearsim/internal/logging"
)

// Observer receives the sampled totals after every step, keyed by ledger
// symbol including the central ledger.
type Observer interface {
	OnStep(step int, totals map[string]int64)
}

// Params sizes a simulation.
type Params struct {
	Customers       int
	GridWidth       int
	GridHeight      int
	MaxDepositUnits int64
}

// Model is the simulation driver. It owns the agent roster and the grid, and
// holds injected handles to the clearing house and the random source so runs
// are reproducible from a seed.
type Model struct {
	house           *ledger.House
	grid            *grid.Grid
	rng             *rand.Rand
	logger          *slog.Logger
	agents          []*Customer
	byWallet        map[identity.ID]*Customer
	observers       []Observer
	maxDepositUnits int64
}

// New creates the customers, opens one account per customer at a random bank,
// and scatters them over the grid. The house, random source, and observers
// are dependencies of the caller; the model never reaches for globals.
func New(ctx context.Context, params Params, house *ledger.House, rng *rand.Rand, logger *slog.Logger, observers ...Observer) (*Model, error) {
	if house == nil {
		return nil, fmt.Errorf("sim: clearing house is required")
	}
	if rng == nil {
		return nil, fmt.Errorf("sim: random source is required")
	}
	if params.Customers <= 0 {
		return nil, fmt.Errorf("sim: need at least one customer, got %d", params.Customers)
	}
	if params.MaxDepositUnits <= 0 {
		return nil, fmt.Errorf("sim: max deposit units must be positive, got %d", params.MaxDepositUnits)
	}
	if logger == nil {
		logger = logging.Discard()
	}

	g, err := grid.New(params.GridWidth, params.GridHeight)
	if err != nil {
		return nil, err
	}

	m := &Model{
		house:           house,
		grid:            g,
		rng:             rng,
		logger:          logger,
		byWallet:        make(map[identity.ID]*Customer, params.Customers),
		observers:       observers,
		maxDepositUnits: params.MaxDepositUnits,
	}

	symbols := house.Symbols()
	for _, wallet := range identity.NewBatch(params.Customers) {
		symbol := symbols[rng.Intn(len(symbols))]
		bank, ok := house.Bank(symbol)
		if !ok {
			return nil, ledger.ErrUnknownBank
		}
		if err := bank.OpenAccount(ctx, wallet); err != nil {
			return nil, fmt.Errorf("open account at %s: %w", symbol, err)
		}

		agent := &Customer{wallet: wallet, bankSymbol: symbol}
		pos := grid.Position{X: rng.Intn(g.Width()), Y: rng.Intn(g.Height())}
		if err := g.Place(wallet, pos); err != nil {
			return nil, err
		}

		m.agents = append(m.agents, agent)
		m.byWallet[wallet] = agent
	}

	return m, nil
}

// Agents returns the customer roster in creation order.
func (m *Model) Agents() []*Customer {
	out := make([]*Customer, len(m.agents))
	copy(out, m.agents)
	return out
}

// Run samples every ledger once before any agent acts, then performs the
// given number of steps, sampling after each. Cancelling the context stops
// the run at a step boundary; no operation is ever left half applied.
func (m *Model) Run(ctx context.Context, steps int) error {
	if steps < 0 {
		return fmt.Errorf("sim: steps must be non-negative, got %d", steps)
	}

	m.collect(0)
	for i := 1; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.stepOnce(ctx)
		m.collect(i)
	}
	return nil
}

// stepOnce activates every agent exactly once in a freshly shuffled order.
func (m *Model) stepOnce(ctx context.Context) {
	order := make([]*Customer, len(m.agents))
	copy(order, m.agents)
	m.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	for _, agent := range order {
		agent.step(ctx, m)
	}
}

// collect samples every ledger's total supply and notifies the observers.
func (m *Model) collect(step int) {
	totals := make(map[string]int64)
	for symbol, l := range m.house.Ledgers() {
		totals[symbol] = l.TotalSupply()
	}
	for _, o := range m.observers {
		o.OnStep(step, totals)
	}
}
