package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
)

func TestCrew_SplitProfit(t *testing.T) {
	tests := []struct {
		name          string
		sharePercent  int64
		netProfit     int64
		wantCrewShare int64
		wantOwner     int64
	}{
		{
			name:          "forty percent of 130000",
			sharePercent:  40,
			netProfit:     130000,
			wantCrewShare: 52000,
			wantOwner:     78000,
		},
		{
			name:          "zero profit",
			sharePercent:  40,
			netProfit:     0,
			wantCrewShare: 0,
			wantOwner:     0,
		},
		{
			name:          "negative profit splits without clamping",
			sharePercent:  40,
			netProfit:     -10000,
			wantCrewShare: -4000,
			wantOwner:     -6000,
		},
		{
			name:          "hundred percent goes entirely to the crew",
			sharePercent:  100,
			netProfit:     99999,
			wantCrewShare: 99999,
			wantOwner:     0,
		},
		{
			name:          "zero percent goes entirely to the owner",
			sharePercent:  0,
			netProfit:     55500,
			wantCrewShare: 0,
			wantOwner:     55500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crew := domain.Crew{ProfitSharePercent: decimal.NewFromInt(tt.sharePercent)}
			crewShare, ownerShare := crew.SplitProfit(decimal.NewFromInt(tt.netProfit))

			assert.True(t, crewShare.Equal(decimal.NewFromInt(tt.wantCrewShare)),
				"crew share: got %s, want %d", crewShare, tt.wantCrewShare)
			assert.True(t, ownerShare.Equal(decimal.NewFromInt(tt.wantOwner)),
				"owner share: got %s, want %d", ownerShare, tt.wantOwner)
		})
	}
}

func TestCrew_SplitProfit_SharesAlwaysSumToNetProfit(t *testing.T) {
	// Rounding the crew share must never create or destroy money.
	crew := domain.Crew{ProfitSharePercent: decimal.NewFromFloat(33.33)}

	for _, profit := range []int64{1, 7, 100, 12345, 99999} {
		netProfit := decimal.NewFromInt(profit)
		crewShare, ownerShare := crew.SplitProfit(netProfit)
		assert.True(t, crewShare.Add(ownerShare).Equal(netProfit),
			"shares of %s do not sum: %s + %s", netProfit, crewShare, ownerShare)
	}
}
