package registry

import (
	"context"
	"errors"
	"time"

	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/account"
	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/ledger"
	"github.com/okonpatrick/DefiTrust-Vault/pkg/events"

	"github.com/google/uuid"
)

var ErrInvalidAddress = errors.New("registry: invalid address")

type Usecase struct {
	repo         account.Repository
	entries      ledger.Repository
	initialScore int64
	pub          events.Publisher
	now          func() time.Time
}

func NewUsecase(repo account.Repository, entries ledger.Repository, initialScore int64, pub events.Publisher) *Usecase {
	if pub == nil {
		pub = events.Noop{}
	}
	return &Usecase{
		repo:         repo,
		entries:      entries,
		initialScore: initialScore,
		pub:          pub,
		now:          time.Now,
	}
}

// Register creates an account with the configured initial trust score.
func (u *Usecase) Register(ctx context.Context, address string) (*AccountDTO, error) {
	addr := account.Normalize(address)
	if !account.ValidAddress(addr) {
		return nil, ErrInvalidAddress
	}

	if _, err := u.repo.GetByAddress(ctx, addr); err == nil {
		return nil, account.ErrAlreadyRegistered
	} else if !errors.Is(err, account.ErrNotRegistered) {
		return nil, err
	}

	a := &account.Account{
		Address:      addr,
		TrustScore:   u.initialScore,
		IsRegistered: true,
	}
	if err := u.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	_ = u.pub.Publish(ctx, events.UserRegistered, events.UserEvent{
		EventID:   uuid.New(),
		Address:   addr,
		Timestamp: u.now().UTC(),
	})

	return toDTO(a), nil
}

// Get returns the account or account.ErrNotRegistered.
func (u *Usecase) Get(ctx context.Context, address string) (*AccountDTO, error) {
	addr := account.Normalize(address)
	if !account.ValidAddress(addr) {
		return nil, ErrInvalidAddress
	}
	a, err := u.repo.GetByAddress(ctx, addr)
	if err != nil {
		return nil, err
	}
	if !a.IsRegistered {
		return nil, account.ErrNotRegistered
	}
	return toDTO(a), nil
}

// Ledger returns the account's audit trail, newest first.
func (u *Usecase) Ledger(ctx context.Context, address string) ([]LedgerEntryDTO, error) {
	addr := account.Normalize(address)
	if !account.ValidAddress(addr) {
		return nil, ErrInvalidAddress
	}
	if _, err := u.repo.GetByAddress(ctx, addr); err != nil {
		return nil, err
	}
	list, err := u.entries.ListByAddress(ctx, addr)
	if err != nil {
		return nil, err
	}
	out := make([]LedgerEntryDTO, 0, len(list))
	for _, e := range list {
		out = append(out, LedgerEntryDTO{
			EntryID:   e.EntryID,
			LoanID:    e.LoanID,
			Type:      string(e.Type),
			Amount:    e.Amount,
			CreatedAt: e.CreatedAt.Unix(),
		})
	}
	return out, nil
}

func toDTO(a *account.Account) *AccountDTO {
	return &AccountDTO{
		Address:           a.Address,
		TrustScore:        a.TrustScore,
		LoansCompleted:    a.LoansCompleted,
		LoansDefaulted:    a.LoansDefaulted,
		TotalStakedOnUser: a.TotalStakedOnUser,
		IsRegistered:      a.IsRegistered,
		RegisteredAt:      a.CreatedAt.Unix(),
	}
}
