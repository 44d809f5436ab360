package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fintrack/internal/domain"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name         string
		transactions []domain.Transaction
		want         domain.Summary
	}{
		{
			name:         "empty",
			transactions: nil,
			want:         domain.Summary{},
		},
		{
			name: "income and outcome",
			transactions: []domain.Transaction{
				{Amount: 100, Kind: domain.KindIncome},
				{Amount: 40, Kind: domain.KindOutcome},
			},
			want: domain.Summary{TotalIncome: 100, TotalOutcome: 40, Balance: 60},
		},
		{
			name: "negative balance",
			transactions: []domain.Transaction{
				{Amount: 2500, Kind: domain.KindIncome},
				{Amount: 1500, Kind: domain.KindOutcome},
				{Amount: 3000, Kind: domain.KindOutcome},
			},
			want: domain.Summary{TotalIncome: 2500, TotalOutcome: 4500, Balance: -2000},
		},
		{
			name: "income only",
			transactions: []domain.Transaction{
				{Amount: 1, Kind: domain.KindIncome},
				{Amount: 2, Kind: domain.KindIncome},
				{Amount: 3, Kind: domain.KindIncome},
			},
			want: domain.Summary{TotalIncome: 6, TotalOutcome: 0, Balance: 6},
		},
		{
			name: "large minor unit amounts stay exact",
			transactions: []domain.Transaction{
				{Amount: 900000000001, Kind: domain.KindIncome},
				{Amount: 1, Kind: domain.KindOutcome},
			},
			want: domain.Summary{TotalIncome: 900000000001, TotalOutcome: 1, Balance: 900000000000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summarize(tt.transactions))
		})
	}
}
