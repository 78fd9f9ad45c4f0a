// Package portfolio values holdings against catalog prices.
package portfolio

import (
	"github.com/shopspring/decimal" // Decimal amounts

	"token_swipe/internal/domain" // Domain models
)

var hundred = decimal.NewFromInt(100)

// PriceBook resolves a token's current snapshot.
type PriceBook interface {
	GetByID(id string) (domain.Token, bool)
}

// Position is one valued holding.
type Position struct {
	Holding           domain.Holding  `json:"holding"`
	Token             domain.Token    `json:"token"`
	CurrentValue      decimal.Decimal `json:"current_value"`
	CostBasis         decimal.Decimal `json:"cost_basis"`
	ProfitLoss        decimal.Decimal `json:"profit_loss"`
	ProfitLossPercent decimal.Decimal `json:"profit_loss_percent"`
}

// Summary is the valuation of a whole portfolio. Totals only cover holdings
// whose token resolves in the catalog; the others are listed in Unresolved.
type Summary struct {
	Positions              []Position      `json:"positions"`
	TotalValue             decimal.Decimal `json:"total_value"`
	TotalCostBasis         decimal.Decimal `json:"total_cost_basis"`
	TotalProfitLoss        decimal.Decimal `json:"total_profit_loss"`
	TotalProfitLossPercent decimal.Decimal `json:"total_profit_loss_percent"`
	Unresolved             []string        `json:"unresolved,omitempty"`
}

// Percent returns part/base*100, or zero when base is not positive.
func Percent(part, base decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}
	return part.Div(base).Mul(hundred)
}

// Value computes a single position at price.
func Value(h domain.Holding, token domain.Token) Position {
	current := h.Amount.Mul(token.Price)
	cost := h.Amount.Mul(h.BoughtAtPrice)
	pl := current.Sub(cost)
	return Position{
		Holding:           h,
		Token:             token,
		CurrentValue:      current,
		CostBasis:         cost,
		ProfitLoss:        pl,
		ProfitLossPercent: Percent(pl, cost),
	}
}

// Summarize values every holding against prices and sums the totals.
func Summarize(holdings []domain.Holding, prices PriceBook) Summary {
	s := Summary{
		Positions:              make([]Position, 0, len(holdings)),
		TotalValue:             decimal.Zero,
		TotalCostBasis:         decimal.Zero,
		TotalProfitLoss:        decimal.Zero,
		TotalProfitLossPercent: decimal.Zero,
	}
	for _, h := range holdings {
		token, ok := prices.GetByID(h.TokenID)
		if !ok {
			s.Unresolved = append(s.Unresolved, h.TokenID) // Token left the catalog
			continue
		}
		p := Value(h, token)
		s.Positions = append(s.Positions, p)
		s.TotalValue = s.TotalValue.Add(p.CurrentValue)
		s.TotalCostBasis = s.TotalCostBasis.Add(p.CostBasis)
		s.TotalProfitLoss = s.TotalProfitLoss.Add(p.ProfitLoss)
	}
	s.TotalProfitLossPercent = Percent(s.TotalProfitLoss, s.TotalCostBasis)
	return s
}
