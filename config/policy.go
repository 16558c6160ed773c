package config

import (
	"io/ioutil"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v2"

	"github.com/plotnest/syndicate/types"
)

// AppPolicy holds every domain constant in one versionable table:
// payment stage percentages, the full-payment discount, the referral
// commission levels and the invitation lease. Loaded once at boot from
// POLICY_FILE, falling back to the compiled-in product defaults.
var AppPolicy *Policy

type StagePolicy struct {
	Name types.StageName
	// Percent of the asset's total price, zero when the stage is a
	// fixed amount.
	Percent decimal.Decimal
	Fixed   decimal.Decimal
	// CreditToken credits the flat token amount against this stage's
	// due amount.
	CreditToken bool
}

type CommissionLevel struct {
	Level   int
	Percent decimal.Decimal
}

type Policy struct {
	LeaseTTL      time.Duration
	SweepInterval time.Duration

	TokenAmount         decimal.Decimal
	FullPaymentDiscount decimal.Decimal
	Stages              []StagePolicy

	CommissionMaxDepth int
	CommissionLevels   []CommissionLevel
}

func (p *Policy) CommissionPercent(level int) (decimal.Decimal, bool) {
	for _, l := range p.CommissionLevels {
		if l.Level == level {
			return l.Percent, true
		}
	}

	return decimal.Zero, false
}

// DefaultPolicy is the product's published table: flat ₹5,000 token
// credited against a 20% advance, 50% registration, 10% misc, 10%
// rental; 20% off for 100% upfront payment; referral commissions of
// 1.5% / 0.25% / 0.25% with nothing beyond level 3.
func DefaultPolicy() *Policy {
	return &Policy{
		LeaseTTL:            48 * time.Hour,
		SweepInterval:       5 * time.Minute,
		TokenAmount:         decimal.NewFromInt(5000),
		FullPaymentDiscount: decimal.RequireFromString("0.20"),
		Stages: []StagePolicy{
			{Name: types.StageToken, Fixed: decimal.NewFromInt(5000)},
			{Name: types.StageAdvance, Percent: decimal.RequireFromString("0.20"), CreditToken: true},
			{Name: types.StageRegistration, Percent: decimal.RequireFromString("0.50")},
			{Name: types.StageMisc, Percent: decimal.RequireFromString("0.10")},
			{Name: types.StageRental, Percent: decimal.RequireFromString("0.10")},
		},
		CommissionMaxDepth: 3,
		CommissionLevels: []CommissionLevel{
			{Level: 1, Percent: decimal.RequireFromString("0.015")},
			{Level: 2, Percent: decimal.RequireFromString("0.0025")},
			{Level: 3, Percent: decimal.RequireFromString("0.0025")},
		},
	}
}

func LoadPolicy() error {
	path := os.Getenv("POLICY_FILE")
	if len(path) == 0 {
		AppPolicy = DefaultPolicy()
		return nil
	}

	policy, err := ReadPolicyFile(path)
	if err != nil {
		return err
	}

	AppPolicy = policy

	return nil
}

type policyFile struct {
	Invitation struct {
		LeaseTTLHours        int `yaml:"lease_ttl_hours"`
		SweepIntervalMinutes int `yaml:"sweep_interval_minutes"`
	} `yaml:"invitation"`
	Payment struct {
		TokenAmount         string `yaml:"token_amount"`
		FullPaymentDiscount string `yaml:"full_payment_discount"`
		Stages              []struct {
			Name        string `yaml:"name"`
			Percent     string `yaml:"percent"`
			Fixed       string `yaml:"fixed"`
			CreditToken bool   `yaml:"credit_token"`
		} `yaml:"stages"`
	} `yaml:"payment"`
	Commission struct {
		MaxDepth int `yaml:"max_depth"`
		Levels   []struct {
			Level   int    `yaml:"level"`
			Percent string `yaml:"percent"`
		} `yaml:"levels"`
	} `yaml:"commission"`
}

func ReadPolicyFile(path string) (*Policy, error) {
	buf, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}

	f := &policyFile{}
	if err := yaml.Unmarshal(buf, f); err != nil {
		return nil, err
	}

	policy := &Policy{
		LeaseTTL:           time.Duration(f.Invitation.LeaseTTLHours) * time.Hour,
		SweepInterval:      time.Duration(f.Invitation.SweepIntervalMinutes) * time.Minute,
		CommissionMaxDepth: f.Commission.MaxDepth,
	}

	if policy.TokenAmount, err = decimal.NewFromString(f.Payment.TokenAmount); err != nil {
		return nil, err
	}
	if policy.FullPaymentDiscount, err = decimal.NewFromString(f.Payment.FullPaymentDiscount); err != nil {
		return nil, err
	}

	for _, stage := range f.Payment.Stages {
		sp := StagePolicy{Name: stage.Name, CreditToken: stage.CreditToken}
		if len(stage.Percent) > 0 {
			if sp.Percent, err = decimal.NewFromString(stage.Percent); err != nil {
				return nil, err
			}
		}
		if len(stage.Fixed) > 0 {
			if sp.Fixed, err = decimal.NewFromString(stage.Fixed); err != nil {
				return nil, err
			}
		}
		policy.Stages = append(policy.Stages, sp)
	}

	for _, level := range f.Commission.Levels {
		percent, err := decimal.NewFromString(level.Percent)
		if err != nil {
			return nil, err
		}
		policy.CommissionLevels = append(policy.CommissionLevels, CommissionLevel{
			Level:   level.Level,
			Percent: percent,
		})
	}

	return policy, nil
}
