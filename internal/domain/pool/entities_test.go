package pool

import (
	"errors"
	"testing"
)

func TestPoolLifecycle(t *testing.T) {
	p := &Pool{}

	if err := p.Deposit(50_000); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if p.TotalLiquidity != 50_000 || p.AvailableToBorrow != 50_000 {
		t.Fatalf("after deposit: %+v", p)
	}

	// fund a loan: principal stays in total as a receivable
	if err := p.Lock(10_000); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if p.TotalLiquidity != 50_000 || p.AvailableToBorrow != 40_000 {
		t.Fatalf("after lock: %+v", p)
	}

	// repayment path: principal released, net interest deposited
	if err := p.Release(10_000); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := p.Deposit(100); err != nil {
		t.Fatalf("Deposit interest: %v", err)
	}
	if p.TotalLiquidity != 50_100 || p.AvailableToBorrow != 50_100 {
		t.Fatalf("after repayment: %+v", p)
	}
}

func TestPoolDefaultPath(t *testing.T) {
	p := &Pool{}
	if err := p.Deposit(50_000); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if err := p.Lock(10_000); err != nil {
		t.Fatalf("Lock: %v", err)
	}

	// write off the lost principal, then seize the collateral
	if err := p.WriteOff(10_000); err != nil {
		t.Fatalf("WriteOff: %v", err)
	}
	if p.TotalLiquidity != 40_000 || p.AvailableToBorrow != 40_000 {
		t.Fatalf("after write-off: %+v", p)
	}
	if err := p.Seize(13_000); err != nil {
		t.Fatalf("Seize: %v", err)
	}
	if p.TotalLiquidity != 53_000 || p.AvailableToBorrow != 53_000 {
		t.Fatalf("after seize: %+v", p)
	}
}

func TestPoolLock_InsufficientLiquidity(t *testing.T) {
	p := &Pool{}
	if err := p.Deposit(5_000); err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if err := p.Lock(10_000); !errors.Is(err, ErrInsufficientLiquidity) {
		t.Fatalf("want ErrInsufficientLiquidity, got %v", err)
	}
	// failed lock must not move balances
	if p.TotalLiquidity != 5_000 || p.AvailableToBorrow != 5_000 {
		t.Fatalf("balances moved on failed lock: %+v", p)
	}
}

func TestPoolRejectsNonPositiveAmounts(t *testing.T) {
	p := &Pool{TotalLiquidity: 100, AvailableToBorrow: 100}
	for name, fn := range map[string]func(int64) error{
		"Deposit":  p.Deposit,
		"Lock":     p.Lock,
		"Release":  p.Release,
		"Seize":    p.Seize,
		"WriteOff": p.WriteOff,
	} {
		if err := fn(0); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("%s(0): want ErrInvalidAmount, got %v", name, err)
		}
		if err := fn(-1); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("%s(-1): want ErrInvalidAmount, got %v", name, err)
		}
	}
}

func TestPoolInvariantBreach(t *testing.T) {
	// releasing principal that was never locked pushes available past total
	p := &Pool{TotalLiquidity: 100, AvailableToBorrow: 100}
	if err := p.Release(1); !errors.Is(err, ErrCorrupted) {
		t.Fatalf("want ErrCorrupted, got %v", err)
	}

	// writing off more than the pool holds drives total negative
	p = &Pool{TotalLiquidity: 100, AvailableToBorrow: 0}
	if err := p.WriteOff(200); !errors.Is(err, ErrCorrupted) {
		t.Fatalf("want ErrCorrupted, got %v", err)
	}
}
