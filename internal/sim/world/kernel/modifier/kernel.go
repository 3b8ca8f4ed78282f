// Package modifier implements the dot-path addressed mutation layer every
// state write outside an action handler or the recalculator must go
// through. It resolves a leaf by static table lookup, never reflection.
package modifier

import (
	"fmt"
	"math"
	"sort"

	"govsim.ai/internal/sim/world/kernel/model"
)

// ErrVariableNotFound is returned when a dot-path has no entry in the table.
type ErrVariableNotFound struct{ Path string }

func (e *ErrVariableNotFound) Error() string {
	return fmt.Sprintf("variable_not_found: %s", e.Path)
}

// ErrNotFinite is returned when an operation would write a non-finite value.
type ErrNotFinite struct{ Path string }

func (e *ErrNotFinite) Error() string {
	return fmt.Sprintf("not_finite: %s", e.Path)
}

// leaf is one addressable scalar: a getter/setter pair plus its hard
// constraint, if the Hard Constraints Table names one.
type leaf struct {
	get        func(w *model.WorldState) float64
	set        func(w *model.WorldState, v float64)
	hasBound   bool
	min, max   float64
}

// table is the static set of every dot-path the kernel knows how to reach.
// Entries mirror the Hard Constraints Table for the bounded paths; fields
// with no hard bound (e.g. gdp_delta) still get an entry, just with
// hasBound left false. Per-movement and per-player fields are addressed
// through Go struct access in the action/event handlers instead, since
// they are keyed by id, not by a fixed dot-path.
var table = map[string]leaf{
	"economy.gdp": {
		get: func(w *model.WorldState) float64 { return w.Economy.GDP },
		set: func(w *model.WorldState, v float64) { w.Economy.GDP = v },
		hasBound: true, min: 0, max: 100000,
	},
	"economy.gdp_delta": {
		get: func(w *model.WorldState) float64 { return w.Economy.GDPDelta },
		set: func(w *model.WorldState, v float64) { w.Economy.GDPDelta = v },
	},
	"economy.inflation": {
		get: func(w *model.WorldState) float64 { return w.Economy.Inflation },
		set: func(w *model.WorldState, v float64) { w.Economy.Inflation = v },
		hasBound: true, min: -20, max: 500,
	},
	"economy.unemployment": {
		get: func(w *model.WorldState) float64 { return w.Economy.Unemployment },
		set: func(w *model.WorldState, v float64) { w.Economy.Unemployment = v },
		hasBound: true, min: 0, max: 100,
	},
	"economy.tax_rate": {
		get: func(w *model.WorldState) float64 { return w.Economy.TaxRate },
		set: func(w *model.WorldState, v float64) { w.Economy.TaxRate = v },
		hasBound: true, min: 0, max: 100,
	},
	"economy.tax_compliance": {
		get: func(w *model.WorldState) float64 { return w.Economy.TaxCompliance },
		set: func(w *model.WorldState, v float64) { w.Economy.TaxCompliance = v },
		hasBound: true, min: 0, max: 1,
	},
	"economy.wage_index": {
		get: func(w *model.WorldState) float64 { return w.Economy.WageIndex },
		set: func(w *model.WorldState, v float64) { w.Economy.WageIndex = v },
		hasBound: true, min: 0.01, max: 100,
	},
	"economy.budget.revenue": {
		get: func(w *model.WorldState) float64 { return w.Economy.Budget.Revenue },
		set: func(w *model.WorldState, v float64) { w.Economy.Budget.Revenue = v },
	},
	"economy.budget.spending": {
		get: func(w *model.WorldState) float64 { return w.Economy.Budget.Spending },
		set: func(w *model.WorldState, v float64) { w.Economy.Budget.Spending = v },
	},
	"economy.budget.reserves": {
		get: func(w *model.WorldState) float64 { return w.Economy.Budget.Reserves },
		set: func(w *model.WorldState, v float64) { w.Economy.Budget.Reserves = v },
		hasBound: true, min: -10000, max: 100000,
	},
	"economy.budget.deficit": {
		get: func(w *model.WorldState) float64 { return w.Economy.Budget.Deficit },
		set: func(w *model.WorldState, v float64) { w.Economy.Budget.Deficit = v },
	},
	"economy.market.supply": {
		get: func(w *model.WorldState) float64 { return w.Economy.Market.Supply },
		set: func(w *model.WorldState, v float64) { w.Economy.Market.Supply = v },
		hasBound: true, min: 0, max: 100000,
	},
	"economy.market.demand": {
		get: func(w *model.WorldState) float64 { return w.Economy.Market.Demand },
		set: func(w *model.WorldState, v float64) { w.Economy.Market.Demand = v },
		hasBound: true, min: 0, max: 100000,
	},
	"economy.market.price_index": {
		get: func(w *model.WorldState) float64 { return w.Economy.Market.PriceIndex },
		set: func(w *model.WorldState, v float64) { w.Economy.Market.PriceIndex = v },
		hasBound: true, min: 0.01, max: 1000,
	},
	"society.stability": {
		get: func(w *model.WorldState) float64 { return w.Society.Stability },
		set: func(w *model.WorldState, v float64) { w.Society.Stability = v },
		hasBound: true, min: 0, max: 100,
	},
	"society.public_trust": {
		get: func(w *model.WorldState) float64 { return w.Society.PublicTrust },
		set: func(w *model.WorldState, v float64) { w.Society.PublicTrust = v },
		hasBound: true, min: 0, max: 100,
	},
	"society.satisfaction": {
		get: func(w *model.WorldState) float64 { return w.Society.Satisfaction },
		set: func(w *model.WorldState, v float64) { w.Society.Satisfaction = v },
		hasBound: true, min: 0, max: 100,
	},
	"society.radicalization": {
		get: func(w *model.WorldState) float64 { return w.Society.Radicalization },
		set: func(w *model.WorldState, v float64) { w.Society.Radicalization = v },
		hasBound: true, min: 0, max: 100,
	},
	"society.protest_pressure": {
		get: func(w *model.WorldState) float64 { return w.Society.ProtestPressure },
		set: func(w *model.WorldState, v float64) { w.Society.ProtestPressure = v },
		hasBound: true, min: 0, max: 1,
	},
	"government.approval.economic": {
		get: func(w *model.WorldState) float64 { return w.Government.Approval.Economic },
		set: func(w *model.WorldState, v float64) { w.Government.Approval.Economic = v },
		hasBound: true, min: 0, max: 100,
	},
	"government.approval.social": {
		get: func(w *model.WorldState) float64 { return w.Government.Approval.Social },
		set: func(w *model.WorldState, v float64) { w.Government.Approval.Social = v },
		hasBound: true, min: 0, max: 100,
	},
	"government.approval.security": {
		get: func(w *model.WorldState) float64 { return w.Government.Approval.Security },
		set: func(w *model.WorldState, v float64) { w.Government.Approval.Security = v },
		hasBound: true, min: 0, max: 100,
	},
	"government.approval.overall": {
		get: func(w *model.WorldState) float64 { return w.Government.Approval.Overall },
		set: func(w *model.WorldState, v float64) { w.Government.Approval.Overall = v },
		hasBound: true, min: 0, max: 100,
	},
}

func resolve(path string) (leaf, bool) {
	l, ok := table[path]
	return l, ok
}

// Get returns the current value at path, or an error if path is unknown.
func Get(w *model.WorldState, path string) (float64, error) {
	l, ok := resolve(path)
	if !ok {
		return 0, &ErrVariableNotFound{Path: path}
	}
	return l.get(w), nil
}

// applied records one write for rollback purposes.
type applied struct {
	path string
	prior float64
}

// Apply performs a single modifier against w, returning the prior value for
// rollback bookkeeping. It does not itself roll back.
func apply(w *model.WorldState, m model.Modifier) (applied, error) {
	l, ok := resolve(m.Path)
	if !ok {
		return applied{}, &ErrVariableNotFound{Path: m.Path}
	}
	prior := l.get(w)
	var next float64
	switch m.Op {
	case model.OpSet:
		next = m.Value
	case model.OpAdd:
		next = prior + m.Value
	case model.OpMultiply:
		next = prior * m.Value
	case model.OpClamp:
		next = prior
		if next < m.Min {
			next = m.Min
		}
		if next > m.Max {
			next = m.Max
		}
	default:
		return applied{}, fmt.Errorf("unknown op %q", m.Op)
	}
	if l.hasBound {
		if next < l.min {
			next = l.min
		}
		if next > l.max {
			next = l.max
		}
	}
	if !isFinite(next) {
		return applied{}, &ErrNotFinite{Path: m.Path}
	}
	l.set(w, next)
	return applied{path: m.Path, prior: prior}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Source tags a modifier batch's origin. It does not change rollback
// behaviour: ApplyBatch unwinds a rejected batch for every source.
type Source string

const (
	SourceEvent Source = "event"
	SourceLaw   Source = "law"
)

// ApplyBatch applies every modifier in order. On the first rejection it
// rolls back every write already made in the batch and returns the error,
// whatever the source, so a rejected batch leaves no partial trace. What
// happens next is up to the caller: the Event Processor marks the event
// rejected, the Law Lifecycle flags rejected_by_core.
func ApplyBatch(w *model.WorldState, mods []model.Modifier, source Source) error {
	done := make([]applied, 0, len(mods))
	for _, m := range mods {
		a, err := apply(w, m)
		if err != nil {
			rollback(w, done)
			return err
		}
		done = append(done, a)
	}
	return nil
}

func rollback(w *model.WorldState, done []applied) {
	for i := len(done) - 1; i >= 0; i-- {
		l, ok := resolve(done[i].path)
		if !ok {
			continue
		}
		l.set(w, done[i].prior)
	}
}

// SortByPath is a convenience used by callers building deterministic test
// fixtures; production code never needs path ordering.
func SortByPath(mods []model.Modifier) {
	sort.Slice(mods, func(i, j int) bool { return mods[i].Path < mods[j].Path })
}
