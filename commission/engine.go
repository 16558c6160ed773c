package commission

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/plotnest/syndicate/config"
)

// ErrDuplicateSettlement marks a transaction that already produced its
// ledger entries. Callers swallow it and ack; it is never a user error.
var ErrDuplicateSettlement = errors.New("commission: transaction already settled")

// Referrals resolves one referral edge. Edges form a forest: creation
// rejects self-reference and cycles, so the upward walk always
// terminates.
type Referrals interface {
	ReferrerOf(uid string) (string, bool, error)
}

// Ledger is the immutable commission ledger. Append must be atomic and
// must surface ErrDuplicateSettlement when the source transaction
// already has entries, which is what makes Settle retry-safe.
type Ledger interface {
	Settled(sourceTransactionID string) (bool, error)
	Append(entries []Entry) error
}

type Entry struct {
	BeneficiaryUID      string
	Level               int
	Percentage          decimal.Decimal
	BaseAmount          decimal.Decimal
	ComputedAmount      decimal.Decimal
	SourceTransactionID string
	CreatedAt           time.Time
}

type Engine struct {
	referrals Referrals
	ledger    Ledger
	policy    *config.Policy
}

func NewEngine(referrals Referrals, ledger Ledger, policy *config.Policy) *Engine {
	return &Engine{
		referrals: referrals,
		ledger:    ledger,
		policy:    policy,
	}
}

// Settle walks the payer's referral chain upward, at most
// CommissionMaxDepth hops, and writes one ledger entry per ancestor
// found. A chain shorter than the cap just yields fewer entries.
// Retrying with a transaction id that already settled is a no-op
// reported as ErrDuplicateSettlement.
func (e *Engine) Settle(sourceTransactionID string, payerUID string, baseAmount decimal.Decimal) ([]Entry, error) {
	settled, err := e.ledger.Settled(sourceTransactionID)
	if err != nil {
		return nil, err
	}
	if settled {
		return nil, ErrDuplicateSettlement
	}

	entries := []Entry{}
	seen := map[string]bool{payerUID: true}
	uid := payerUID

	for level := 1; level <= e.policy.CommissionMaxDepth; level++ {
		parent, found, err := e.referrals.ReferrerOf(uid)
		if err != nil {
			return nil, err
		}
		if !found || seen[parent] {
			break
		}

		percent, defined := e.policy.CommissionPercent(level)
		if !defined {
			break
		}

		entries = append(entries, Entry{
			BeneficiaryUID:      parent,
			Level:               level,
			Percentage:          percent,
			BaseAmount:          baseAmount,
			ComputedAmount:      baseAmount.Mul(percent).Round(2),
			SourceTransactionID: sourceTransactionID,
			CreatedAt:           time.Now(),
		})

		seen[parent] = true
		uid = parent
	}

	if len(entries) == 0 {
		return entries, nil
	}

	if err := e.ledger.Append(entries); err != nil {
		return nil, err
	}

	return entries, nil
}
