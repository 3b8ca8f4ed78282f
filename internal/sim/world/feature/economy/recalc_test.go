package economy

import (
	"testing"

	"govsim.ai/internal/sim/world/kernel/model"
)

func TestRecalculate_MarketDecaysTowardEquilibrium(t *testing.T) {
	w := model.New("srv", 1, 24)
	w.Economy.Market.Supply = 10000
	w.Economy.Market.Demand = 10000

	Recalculate(w)

	if w.Economy.Market.Supply >= 10000 {
		t.Fatalf("supply=%v want decayed below 10000", w.Economy.Market.Supply)
	}
	if w.Economy.Market.Demand >= 10000 {
		t.Fatalf("demand=%v want decayed below 10000", w.Economy.Market.Demand)
	}
}

func TestRecalculate_ShortageFlagsWhenDemandOutstripsSupply(t *testing.T) {
	w := model.New("srv", 1, 24)
	w.Economy.Market.Supply = 100
	w.Economy.Market.Demand = 500

	Recalculate(w)

	if !w.Economy.Market.Shortage {
		t.Fatalf("expected shortage flag when demand > 1.2x supply")
	}
}

func TestRecalculate_UnemploymentRisesOnGDPContraction(t *testing.T) {
	w := model.New("srv", 1, 24)
	w.Economy.GDP = 100
	w.Economy.Inflation = 400 // drives next-tick GDP down via the growth formula
	w.Economy.Unemployment = 8
	before := w.Economy.Unemployment

	Recalculate(w)

	if w.Economy.GDPDelta >= 0 {
		t.Fatalf("expected GDP contraction with inflation=%v, delta=%v", w.Economy.Inflation, w.Economy.GDPDelta)
	}
	if w.Economy.Unemployment <= before {
		t.Fatalf("unemployment=%v want risen above %v on contraction", w.Economy.Unemployment, before)
	}
}

func TestRecalculate_ValuesStayWithinHardBounds(t *testing.T) {
	w := model.New("srv", 1, 24)
	w.Economy.GDP = 99999
	w.Economy.Inflation = 499
	w.Economy.Unemployment = 99
	w.Economy.Market.Demand = 99999
	w.Economy.Market.Supply = 1
	w.Society.Stability = 1
	w.Society.Radicalization = 99

	for i := 0; i < 50; i++ {
		Recalculate(w)
	}

	if w.Economy.GDP < 0 || w.Economy.GDP > 100000 {
		t.Fatalf("gdp out of bounds: %v", w.Economy.GDP)
	}
	if w.Economy.Inflation < -20 || w.Economy.Inflation > 500 {
		t.Fatalf("inflation out of bounds: %v", w.Economy.Inflation)
	}
	if w.Economy.Unemployment < 0 || w.Economy.Unemployment > 100 {
		t.Fatalf("unemployment out of bounds: %v", w.Economy.Unemployment)
	}
	if w.Society.Stability < 0 || w.Society.Stability > 100 {
		t.Fatalf("stability out of bounds: %v", w.Society.Stability)
	}
}

func TestRecalculate_IsDeterministic(t *testing.T) {
	run := func() (float64, float64, float64, float64) {
		w := model.New("srv", 7, 24)
		w.Economy.Market.Demand = 12000
		w.Economy.Market.Supply = 9000
		Recalculate(w)
		return w.Economy.GDP, w.Economy.Inflation, w.Economy.Unemployment, w.Economy.Market.PriceIndex
	}
	gdpA, infA, unA, priceA := run()
	gdpB, infB, unB, priceB := run()
	if gdpA != gdpB || infA != infB || unA != unB || priceA != priceB {
		t.Fatalf("Recalculate is not deterministic: (%v,%v,%v,%v) vs (%v,%v,%v,%v)", gdpA, infA, unA, priceA, gdpB, infB, unB, priceB)
	}
}
