package domain_test

import (
	"testing"

	"github.com/sahulatfin/microfin_backoffice/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDenominationCount_Total(t *testing.T) {
	count := domain.DenominationCount{
		Notes: map[int64]int64{1000: 2, 500: 1},
		Coins: decimal.NewFromInt(50),
	}

	assert.True(t, count.Total().Equal(decimal.NewFromInt(2550)), "total %s", count.Total())
}

func TestDenominationCount_TotalEmpty(t *testing.T) {
	assert.True(t, domain.DenominationCount{}.Total().IsZero())
}

func TestDenominationCount_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		count domain.DenominationCount
		want  bool
	}{
		{"all non-negative", domain.DenominationCount{Notes: map[int64]int64{100: 5}, Coins: decimal.NewFromInt(10)}, true},
		{"negative note count", domain.DenominationCount{Notes: map[int64]int64{100: -1}}, false},
		{"non-positive face value", domain.DenominationCount{Notes: map[int64]int64{0: 3}}, false},
		{"negative coins", domain.DenominationCount{Coins: decimal.NewFromInt(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.count.IsValid())
		})
	}
}
