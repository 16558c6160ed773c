package commission

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/plotnest/syndicate/config"
)

type referralMap map[string]string

func (m referralMap) ReferrerOf(uid string) (string, bool, error) {
	parent, found := m[uid]

	return parent, found, nil
}

type memoryLedger struct {
	entries []Entry
}

func (l *memoryLedger) Settled(sourceTransactionID string) (bool, error) {
	for _, entry := range l.entries {
		if entry.SourceTransactionID == sourceTransactionID {
			return true, nil
		}
	}

	return false, nil
}

func (l *memoryLedger) Append(entries []Entry) error {
	l.entries = append(l.entries, entries...)

	return nil
}

type CommissionEngineTestSuite struct {
	suite.Suite
}

func (s *CommissionEngineTestSuite) TestSettleThreeLevelChain() {
	// D was referred by C, C by B, B by A. D pays.
	referrals := referralMap{"D": "C", "C": "B", "B": "A"}
	ledger := &memoryLedger{}
	engine := NewEngine(referrals, ledger, config.DefaultPolicy())

	entries, err := engine.Settle("tx-1", "D", decimal.RequireFromString("100000"))

	s.NoError(err)
	s.Require().Len(entries, 3)

	s.Equal("C", entries[0].BeneficiaryUID)
	s.Equal(1, entries[0].Level)
	s.True(entries[0].ComputedAmount.Equal(decimal.RequireFromString("1500")))

	s.Equal("B", entries[1].BeneficiaryUID)
	s.Equal(2, entries[1].Level)
	s.True(entries[1].ComputedAmount.Equal(decimal.RequireFromString("250")))

	s.Equal("A", entries[2].BeneficiaryUID)
	s.Equal(3, entries[2].Level)
	s.True(entries[2].ComputedAmount.Equal(decimal.RequireFromString("250")))

	s.Len(ledger.entries, 3)
}

func (s *CommissionEngineTestSuite) TestSettleDepthCapped() {
	referrals := referralMap{"E": "D", "D": "C", "C": "B", "B": "A"}
	ledger := &memoryLedger{}
	engine := NewEngine(referrals, ledger, config.DefaultPolicy())

	entries, err := engine.Settle("tx-1", "E", decimal.RequireFromString("100000"))

	s.NoError(err)
	s.Require().Len(entries, 3)

	// A sits at level 4 of E's chain and earns nothing.
	for _, entry := range entries {
		s.NotEqual("A", entry.BeneficiaryUID)
	}
}

func (s *CommissionEngineTestSuite) TestSettleShortChain() {
	referrals := referralMap{"B": "A"}
	ledger := &memoryLedger{}
	engine := NewEngine(referrals, ledger, config.DefaultPolicy())

	entries, err := engine.Settle("tx-1", "B", decimal.RequireFromString("50000"))

	s.NoError(err)
	s.Require().Len(entries, 1)
	s.Equal("A", entries[0].BeneficiaryUID)
	s.True(entries[0].ComputedAmount.Equal(decimal.RequireFromString("750")))
}

func (s *CommissionEngineTestSuite) TestSettleNoAncestors() {
	ledger := &memoryLedger{}
	engine := NewEngine(referralMap{}, ledger, config.DefaultPolicy())

	entries, err := engine.Settle("tx-1", "A", decimal.RequireFromString("100000"))

	s.NoError(err)
	s.Empty(entries)
	s.Empty(ledger.entries)
}

func (s *CommissionEngineTestSuite) TestSettleIdempotent() {
	referrals := referralMap{"B": "A"}
	ledger := &memoryLedger{}
	engine := NewEngine(referrals, ledger, config.DefaultPolicy())

	_, err := engine.Settle("tx-1", "B", decimal.RequireFromString("100000"))
	s.NoError(err)

	_, err = engine.Settle("tx-1", "B", decimal.RequireFromString("100000"))
	s.ErrorIs(err, ErrDuplicateSettlement)

	// Replaying the delivery produced no extra ledger entries.
	s.Len(ledger.entries, 1)
}

func (s *CommissionEngineTestSuite) TestSettleDistinctTransactionsBothLand() {
	referrals := referralMap{"B": "A"}
	ledger := &memoryLedger{}
	engine := NewEngine(referrals, ledger, config.DefaultPolicy())

	_, err := engine.Settle("tx-1", "B", decimal.RequireFromString("100000"))
	s.NoError(err)

	_, err = engine.Settle("tx-2", "B", decimal.RequireFromString("100000"))
	s.NoError(err)

	s.Len(ledger.entries, 2)
}

func (s *CommissionEngineTestSuite) TestSettleStopsOnRepeatedAncestor() {
	// A corrupted edge set must not loop the walk.
	referrals := referralMap{"B": "A", "A": "B"}
	ledger := &memoryLedger{}
	engine := NewEngine(referrals, ledger, config.DefaultPolicy())

	entries, err := engine.Settle("tx-1", "B", decimal.RequireFromString("100000"))

	s.NoError(err)
	s.Len(entries, 1)
	s.Equal("A", entries[0].BeneficiaryUID)
}

func TestCommissionEngine(t *testing.T) {
	suite.Run(t, new(CommissionEngineTestSuite))
}
