package endorsement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/account"
	domainEndorsement "github.com/okonpatrick/DefiTrust-Vault/internal/domain/endorsement"
	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/ledger"
	"github.com/okonpatrick/DefiTrust-Vault/internal/domain/uow"
	"github.com/okonpatrick/DefiTrust-Vault/pkg/id"
)

var ErrInvalidAddress = errors.New("endorsement: invalid address")

// CreditPolicy computes the trust score credit for one endorsement from
// the stake and the number of active endorsements the endorsee already
// has. Kept as a function so the formula stays isolated and testable.
type CreditPolicy func(stake int64, activeEndorsements int64) int64

// FlatDiminishingCredit grants base points per endorsement regardless of
// stake size (score cannot be bought with one large stake) and halves
// the credit for every four endorsements already backing the endorsee.
func FlatDiminishingCredit(base int64) CreditPolicy {
	return func(stake int64, activeEndorsements int64) int64 {
		credit := base
		for i := activeEndorsements / 4; i > 0 && credit > 1; i-- {
			credit /= 2
		}
		return credit
	}
}

type Usecase struct {
	uow    uow.UnitOfWork
	credit CreditPolicy
	idGen  func() string
	now    func() time.Time
}

func NewUsecase(tx uow.UnitOfWork, credit CreditPolicy) *Usecase {
	return &Usecase{
		uow:    tx,
		credit: credit,
		idGen:  id.NewID32,
		now:    time.Now,
	}
}

// Endorse locks stake on the endorsee: the stake enters pool custody,
// the endorsee's staked total grows, and the trust score is credited per
// the policy. All of it applies atomically or not at all.
func (u *Usecase) Endorse(ctx context.Context, in EndorseInput) (*EndorsementDTO, error) {
	endorser := account.Normalize(in.Endorser)
	endorsee := account.Normalize(in.Endorsee)
	if !account.ValidAddress(endorser) || !account.ValidAddress(endorsee) {
		return nil, ErrInvalidAddress
	}
	if endorser == endorsee {
		return nil, domainEndorsement.ErrSelfEndorsement
	}
	if in.Stake <= 0 {
		return nil, domainEndorsement.ErrInvalidStake
	}

	var dto *EndorsementDTO
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		// Lock both accounts in address order so concurrent endorsements
		// cannot deadlock.
		first, second := endorser, endorsee
		if second < first {
			first, second = second, first
		}
		locked := map[string]*account.Account{}
		for _, addr := range []string{first, second} {
			a, err := r.Accounts.GetByAddressForUpdate(ctx, addr)
			if err != nil {
				return err
			}
			locked[addr] = a
		}
		endorseeAcct := locked[endorsee]

		prior, err := r.Endorsements.CountActiveByEndorsee(ctx, endorsee)
		if err != nil {
			return fmt.Errorf("endorsement: count active: %w", err)
		}

		e := &domainEndorsement.Endorsement{
			EndorsementID: u.idGen(),
			Endorser:      endorser,
			Endorsee:      endorsee,
			Stake:         in.Stake,
			Active:        true,
			CreatedAt:     u.now().UTC(),
		}
		if err := r.Endorsements.Create(ctx, e); err != nil {
			return err
		}

		credit := u.credit(in.Stake, prior)
		endorseeAcct.TotalStakedOnUser += in.Stake
		endorseeAcct.AdjustScore(credit)
		if err := r.Accounts.Save(ctx, endorseeAcct); err != nil {
			return err
		}

		p, err := r.Pool.GetForUpdate(ctx)
		if err != nil {
			return err
		}
		if err := p.Deposit(in.Stake); err != nil {
			return err
		}
		if err := r.Pool.Save(ctx, p); err != nil {
			return err
		}

		if err := r.Entries.Create(ctx, &ledger.Entry{
			EntryID: u.idGen(),
			Address: endorser,
			Type:    ledger.EntryEndorsementStake,
			Amount:  in.Stake,
		}); err != nil {
			return err
		}

		dto = &EndorsementDTO{
			EndorsementID: e.EndorsementID,
			Endorser:      endorser,
			Endorsee:      endorsee,
			Stake:         in.Stake,
			ScoreCredit:   credit,
			CreatedAt:     e.CreatedAt.Unix(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}
