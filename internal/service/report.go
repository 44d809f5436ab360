package service

import "fintrack/internal/domain"

// Summarize folds a set of transactions into income, outcome and balance
// totals. Amounts are integer minor units throughout, so sums are exact.
func Summarize(transactions []domain.Transaction) domain.Summary {
	var summary domain.Summary
	for _, tx := range transactions {
		switch tx.Kind {
		case domain.KindIncome:
			summary.TotalIncome += tx.Amount
		case domain.KindOutcome:
			summary.TotalOutcome += tx.Amount
		}
	}
	summary.Balance = summary.TotalIncome - summary.TotalOutcome
	return summary
}
