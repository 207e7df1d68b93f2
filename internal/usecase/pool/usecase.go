package pool

import (
	"context"
	"errors"
	"time"

	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/account"
	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/ledger"
	domainPool "github.com/okonpatrick/DefiTrust-Vault/internal/domain/pool"
	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/uow"
	"github.com/okonpatrick/DefiTrust-Vault/pkg/id"
)

var ErrInvalidAddress = errors.New("pool: invalid address")

type DepositInput struct {
	Depositor string `json:"depositor"`
	Amount    int64  `json:"amount"`
}

type PoolDTO struct {
	TotalLiquidity    int64 `json:"total_liquidity"`
	AvailableToBorrow int64 `json:"available_to_borrow"`
	UpdatedAt         int64 `json:"updated_at"`
}

type Usecase struct {
	repo  domainPool.Repository
	uow   uow.UnitOfWork
	idGen func() string
	now   func() time.Time
}

func NewUsecase(repo domainPool.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{
		repo:  repo,
		uow:   tx,
		idGen: id.NewID32,
		now:   time.Now,
	}
}

// Deposit adds capital to the pool. Anyone may deposit; there is no
// eligibility check beyond a positive amount.
func (u *Usecase) Deposit(ctx context.Context, in DepositInput) (*PoolDTO, error) {
	depositor := account.Normalize(in.Depositor)
	if !account.ValidAddress(depositor) {
		return nil, ErrInvalidAddress
	}
	if in.Amount <= 0 {
		return nil, domainPool.ErrInvalidAmount
	}

	var dto *PoolDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		p, err := r.Pool.GetForUpdate(ctx)
		if err != nil {
			return err
		}
		if err := p.Deposit(in.Amount); err != nil {
			return err
		}
		if err := r.Pool.Save(ctx, p); err != nil {
			return err
		}
		if err := r.Entries.Create(ctx, &ledger.Entry{
			EntryID: u.idGen(),
			Address: depositor,
			Type:    ledger.EntryDeposit,
			Amount:  in.Amount,
		}); err != nil {
			return err
		}
		dto = toDTO(p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Snapshot returns the current pool totals.
func (u *Usecase) Snapshot(ctx context.Context) (*PoolDTO, error) {
	p, err := u.repo.Get(ctx)
	if err != nil {
		return nil, err
	}
	return toDTO(p), nil
}

func toDTO(p *domainPool.Pool) *PoolDTO {
	return &PoolDTO{
		TotalLiquidity:    p.TotalLiquidity,
		AvailableToBorrow: p.AvailableToBorrow,
		UpdatedAt:         p.UpdatedAt.Unix(),
	}
}
