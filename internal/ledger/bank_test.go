package ledger

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/clearsim/clearsim/internal/identity"
)

func TestBank_DepositGrowsBalanceAndSupply(t *testing.T) {
	owner := identity.New()
	b := NewBank("B0", owner)
	ctx := context.Background()
	customer := identity.New()

	if err := b.Deposit(ctx, customer, 5_000_000, owner); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	if got := b.BalanceOf(customer); got != 5_000_000 {
		t.Fatalf("expected balance 5000000, got %d", got)
	}
	if got := b.TotalSupply(); got != 5_000_000 {
		t.Fatalf("expected total supply 5000000, got %d", got)
	}
}

func TestBank_WithdrawOverBalanceFails(t *testing.T) {
	owner := identity.New()
	b := NewBank("B0", owner)
	ctx := context.Background()
	customer := identity.New()

	if err := b.Deposit(ctx, customer, 5_000_000, owner); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	if err := b.Withdraw(ctx, customer, 6_000_000, owner); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}

	if got := b.BalanceOf(customer); got != 5_000_000 {
		t.Fatalf("balance changed after failed withdraw: %d", got)
	}
	if got := b.TotalSupply(); got != 5_000_000 {
		t.Fatalf("total supply changed after failed withdraw: %d", got)
	}
}

func TestBank_TransferKeepsSupply(t *testing.T) {
	owner := identity.New()
	b := NewBank("B0", owner)
	ctx := context.Background()
	x := identity.New()
	y := identity.New()

	if err := b.Deposit(ctx, x, 5_000_000, owner); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	if err := b.Transfer(ctx, y, 2_000_000, x); err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	if got := b.BalanceOf(x); got != 3_000_000 {
		t.Fatalf("expected sender balance 3000000, got %d", got)
	}
	if got := b.BalanceOf(y); got != 2_000_000 {
		t.Fatalf("expected recipient balance 2000000, got %d", got)
	}
	if got := b.TotalSupply(); got != 5_000_000 {
		t.Fatalf("total supply changed on intra-bank transfer: %d", got)
	}
}

func TestBank_TransferWithoutFundsFails(t *testing.T) {
	owner := identity.New()
	b := NewBank("B0", owner)
	ctx := context.Background()
	x := identity.New()
	y := identity.New()

	if err := b.Transfer(ctx, y, 1, x); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds for unknown sender, got %v", err)
	}
	if got := b.BalanceOf(y); got != 0 {
		t.Fatalf("recipient credited on failed transfer: %d", got)
	}
}

func TestBank_PrivilegedCallsRejectNonOwner(t *testing.T) {
	owner := identity.New()
	b := NewBank("B0", owner)
	ctx := context.Background()
	customer := identity.New()
	stranger := identity.New()

	if err := b.Deposit(ctx, customer, 1_000_000, stranger); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized deposit, got %v", err)
	}
	if err := b.Deposit(ctx, customer, 1_000_000, owner); err != nil {
		t.Fatalf("owner deposit failed: %v", err)
	}
	if err := b.Withdraw(ctx, customer, 1_000_000, customer); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized withdraw, got %v", err)
	}

	if got := b.BalanceOf(customer); got != 1_000_000 {
		t.Fatalf("unauthorized calls changed state, balance %d", got)
	}
	if got := b.TotalSupply(); got != 1_000_000 {
		t.Fatalf("unauthorized calls changed supply: %d", got)
	}
}

func TestBank_NonPositiveAmountsRejected(t *testing.T) {
	owner := identity.New()
	b := NewBank("B0", owner)
	ctx := context.Background()
	customer := identity.New()

	if err := b.Deposit(ctx, customer, 0, owner); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount for zero deposit, got %v", err)
	}
	if err := b.Withdraw(ctx, customer, -5, owner); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount for negative withdraw, got %v", err)
	}
	if err := b.Transfer(ctx, identity.New(), 0, customer); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected invalid amount for zero transfer, got %v", err)
	}
}

func TestBank_OpenAccountIdempotent(t *testing.T) {
	owner := identity.New()
	b := NewBank("B0", owner)
	ctx := context.Background()
	customer := identity.New()

	if err := b.OpenAccount(ctx, customer); err != nil {
		t.Fatalf("open account: %v", err)
	}
	if err := b.Deposit(ctx, customer, 2_000_000, owner); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}
	if err := b.OpenAccount(ctx, customer); err != nil {
		t.Fatalf("reopen account: %v", err)
	}

	if got := b.BalanceOf(customer); got != 2_000_000 {
		t.Fatalf("reopening the account changed the balance: %d", got)
	}
}

func TestBank_UnknownCustomerReadsZero(t *testing.T) {
	b := NewBank("B0", identity.New())
	if got := b.BalanceOf(identity.New()); got != 0 {
		t.Fatalf("expected zero balance for unknown customer, got %d", got)
	}
}

func TestBank_ConcurrentDepositsStayBalanced(t *testing.T) {
	owner := identity.New()
	b := NewBank("B0", owner)
	ctx := context.Background()
	customers := identity.NewBatch(8)

	const perCustomer = 50
	const amount = int64(3_000_000)

	var wg sync.WaitGroup
	for _, customer := range customers {
		wg.Add(1)
		go func(customer identity.ID) {
			defer wg.Done()
			for i := 0; i < perCustomer; i++ {
				if err := b.Deposit(ctx, customer, amount, owner); err != nil {
					t.Errorf("deposit for %s failed: %v", customer, err)
				}
			}
		}(customer)
	}
	wg.Wait()

	var sum int64
	for _, v := range b.Balances() {
		sum += v
	}
	if sum != b.TotalSupply() {
		t.Fatalf("total supply %d does not match balance sum %d", b.TotalSupply(), sum)
	}
	if want := int64(len(customers)) * perCustomer * amount; sum != want {
		t.Fatalf("expected balance sum %d, got %d", want, sum)
	}
}
