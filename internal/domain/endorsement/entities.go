package endorsement

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrSelfEndorsement = errors.New("endorsement: cannot endorse yourself")
	ErrInvalidStake    = errors.New("endorsement: stake must be positive")
)

// Endorsement is a stake-backed vouching relation. Stakes are permanent
// capital contributions: no withdrawal path exists, Active is kept for a
// future release mechanism.
type Endorsement struct {
	ID               uint64    `gorm:"primaryKey;column:id"`
	EndorsementID    string    `gorm:"size:32;uniqueIndex:ux_endorsements_public_id" json:"endorsement_id"`
	Endorser         string    `gorm:"size:42;index:idx_endorsements_endorser" json:"endorser"`
	Endorsee         string    `gorm:"size:42;index:idx_endorsements_endorsee" json:"endorsee"`
	Stake            int64     `gorm:"not null" json:"stake"`
	// No gorm default here: with a default tag, Create drops zero values
	// and an Active=false row would come back active.
	Active           bool      `gorm:"not null" json:"active"`
	CommissionEarned int64     `gorm:"not null;default:0" json:"commission_earned"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Endorsement) TableName() string { return "endorsements" }

// Share is one endorser's cut of a commission payout.
type Share struct {
	Endorsement *Endorsement
	Amount      int64
}

// SplitCommission allocates total across the given endorsements weighted
// by stake. Integer truncation remainders go to the largest stake
// (earliest row on ties) so the shares always sum to exactly total.
func SplitCommission(total int64, list []*Endorsement) []Share {
	if total <= 0 || len(list) == 0 {
		return nil
	}
	ordered := make([]*Endorsement, len(list))
	copy(ordered, list)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Stake != ordered[j].Stake {
			return ordered[i].Stake > ordered[j].Stake
		}
		return ordered[i].ID < ordered[j].ID
	})

	var totalStake int64
	for _, e := range ordered {
		totalStake += e.Stake
	}
	if totalStake <= 0 {
		return nil
	}

	shares := make([]Share, 0, len(ordered))
	var allocated int64
	for _, e := range ordered {
		cut := total * e.Stake / totalStake
		shares = append(shares, Share{Endorsement: e, Amount: cut})
		allocated += cut
	}
	// Remainder to the top-staked endorser.
	if rem := total - allocated; rem > 0 {
		shares[0].Amount += rem
	}
	return shares
}
