package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AssetTestSuite struct {
	suite.Suite
}

func (s *AssetTestSuite) TestPricePerShare() {
	asset := &Asset{TotalShares: 6, TotalPrice: decimal.RequireFromString("1000000")}

	s.True(asset.PricePerShare().Equal(decimal.RequireFromString("166666")))
}

func (s *AssetTestSuite) TestPricePerShareEvenSplit() {
	asset := &Asset{TotalShares: 4, TotalPrice: decimal.RequireFromString("1000000")}

	s.True(asset.PricePerShare().Equal(decimal.RequireFromString("250000")))
}

func TestAsset(t *testing.T) {
	suite.Run(t, new(AssetTestSuite))
}
