// Package economy implements the fixed-formula tick-end recomputation of
// prices, inflation, GDP, budget, unemployment, stability, and protest
// pressure. Every step is a small pure function composed in Recalculate,
// mirroring the teacher's small-pure-function style for derived economic
// quantities.
package economy

import (
	"math"

	"govsim.ai/internal/sim/world/kernel/model"
)

func clampf(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func priceIndex(prev, demand, supply float64) float64 {
	if supply <= 0 {
		return clampf(prev, 0.01, 1000)
	}
	next := 0.8*prev + 0.2*(demand/supply)
	return clampf(next, 0.01, 1000)
}

func isShortage(demand, supply float64) bool {
	return demand > 1.2*supply
}

func inflation(prev, priceIdx, deficit float64) float64 {
	next := 0.7*prev + 0.3*(10*(priceIdx-1)+math.Max(0, deficit)*0.01)
	return clampf(next, -20, 500)
}

func gdpGrowth(prev, inflationRate, unemployment float64) (next, delta float64) {
	next = prev * (1 + 0.02 - 0.001*inflationRate - 0.001*unemployment)
	next = clampf(next, 0, 100000)
	return next, next - prev
}

func ticksPerYear(tickIntervalHours int) int {
	if tickIntervalHours <= 0 {
		tickIntervalHours = 24
	}
	return int(math.Round(365 / (float64(tickIntervalHours) / 24)))
}

func budgetStep(gdp, taxRate, taxCompliance, spending, reserves float64, tickIntervalHours int) (revenue, deficit, nextReserves float64) {
	n := ticksPerYear(tickIntervalHours)
	if n <= 0 {
		n = 1
	}
	revenue = gdp * taxRate * 0.01 * taxCompliance / float64(n)
	deficit = spending - revenue
	nextReserves = clampf(reserves-deficit, -10000, 100000)
	return revenue, deficit, nextReserves
}

func unemploymentStep(prev, gdpDelta float64) float64 {
	if gdpDelta > 0 {
		return clampf(prev-0.3, 0, 100)
	}
	return clampf(prev+0.5, 0, 100)
}

// SpendingEffects is the per-tick feedback of the five budget categories
// into society/economy scalars, each scaled by its allocation fraction and
// the current total spending.
type SpendingEffects struct {
	SatisfactionDelta   float64
	RadicalizationDelta float64
	PublicTrustDelta    float64
	StabilityDelta      float64
	GDPDelta            float64
}

func spendingEffects(alloc map[model.BudgetCategory]float64, totalSpending float64) SpendingEffects {
	return SpendingEffects{
		SatisfactionDelta:   alloc[model.CategoryWelfare] * totalSpending * 0.001,
		RadicalizationDelta: -alloc[model.CategoryEnforcement] * totalSpending * 0.0005,
		PublicTrustDelta:    -alloc[model.CategoryEnforcement] * totalSpending * 0.0002,
		StabilityDelta:      alloc[model.CategoryEducation] * totalSpending * 0.0001,
		GDPDelta:            alloc[model.CategoryInfrastructure] * totalSpending * 0.005,
	}
}

func stabilityFeedback(stability, satisfaction, radicalization float64) float64 {
	next := stability
	if satisfaction < 30 {
		next -= (30 - satisfaction) * 0.05
	}
	if radicalization > 50 {
		next -= (radicalization - 50) * 0.03
	}
	return clampf(next, 0, 100)
}

func protestPressure(prev float64, satisfaction, unemployment float64, shortage bool) float64 {
	next := prev
	if satisfaction < 40 {
		next += 0.05
	}
	if shortage {
		next += 0.10
	}
	if unemployment > 15 {
		next += 0.03
	}
	next *= 0.9
	return clampf(next, 0, 1)
}

// Recalculate runs the fixed ten-step sequence against the post-action
// state, in the exact order spec.md requires.
func Recalculate(w *model.WorldState) {
	e := &w.Economy
	s := &w.Society

	e.Market.PriceIndex = priceIndex(e.Market.PriceIndex, e.Market.Demand, e.Market.Supply)
	e.Market.Shortage = isShortage(e.Market.Demand, e.Market.Supply)
	e.Inflation = inflation(e.Inflation, e.Market.PriceIndex, e.Budget.Deficit)

	nextGDP, delta := gdpGrowth(e.GDP, e.Inflation, e.Unemployment)
	e.GDP = nextGDP
	e.GDPDelta = delta

	revenue, deficit, reserves := budgetStep(e.GDP, e.TaxRate, e.TaxCompliance, e.Budget.Spending, e.Budget.Reserves, w.Meta.TickIntervalHours)
	e.Budget.Revenue = revenue
	e.Budget.Deficit = deficit
	e.Budget.Reserves = reserves

	e.Unemployment = unemploymentStep(e.Unemployment, e.GDPDelta)

	eff := spendingEffects(w.Government.BudgetAllocation, e.Budget.Spending)
	s.Satisfaction = clampf(s.Satisfaction+eff.SatisfactionDelta, 0, 100)
	s.Radicalization = clampf(s.Radicalization+eff.RadicalizationDelta, 0, 100)
	s.PublicTrust = clampf(s.PublicTrust+eff.PublicTrustDelta, 0, 100)
	s.Stability = clampf(s.Stability+eff.StabilityDelta, 0, 100)
	e.GDP = clampf(e.GDP+eff.GDPDelta, 0, 100000)

	s.Stability = stabilityFeedback(s.Stability, s.Satisfaction, s.Radicalization)
	s.ProtestPressure = protestPressure(s.ProtestPressure, s.Satisfaction, e.Unemployment, e.Market.Shortage)

	e.Market.Supply = clampf(e.Market.Supply*0.95, 0, 100000)
	e.Market.Demand = clampf(e.Market.Demand*0.90, 0, 100000)
}
