// Package observer builds the per-player, role-filtered, seeded-noise
// view of a post-tick WorldState. No hidden stat, raw society scalar, or
// law vote tally ever crosses this boundary.
package observer

import (
	"math"

	"govsim.ai/internal/sim/world/kernel/model"
	"govsim.ai/internal/sim/world/logic/noise"
)

// View is the lossy projection delivered to one player.
type View struct {
	Wealth         float64        `json:"wealth"`
	PriceTrend     string         `json:"price_trend"`
	Availability   string         `json:"availability"`
	ApprovalVague  string         `json:"approval_vague"`
	Headlines      []model.Headline `json:"headlines"`
	Rumors         []model.Rumor    `json:"rumors"`
	Role           model.Role     `json:"role"`
	RoleBlock      any            `json:"role_block"`
}

type CitizenBlock struct {
	Employed bool   `json:"employed"`
	Mood     string `json:"mood"`
}

type BusinessBlock struct {
	Employees  int     `json:"employees"`
	Production float64 `json:"production"`
	WageLevel  float64 `json:"wage_level"`
	LaborMood  string  `json:"labor_mood"`
}

type PoliticianBlock struct {
	LawsProposed        int     `json:"laws_proposed"`
	LawsPassed          int     `json:"laws_passed"`
	ApprovalEstimate    float64 `json:"approval_estimate"`
	UnemploymentEstimate float64 `json:"unemployment_estimate"`
}

func bucket3(v, hi, mid, lo float64, labels [4]string) string {
	switch {
	case v > hi:
		return labels[0]
	case v > mid:
		return labels[1]
	case v > lo:
		return labels[2]
	default:
		return labels[3]
	}
}

// Project computes player playerID's view of w. Each noise draw uses a
// fixed per-field counter: 1..3 for the fields every role sees, 4 and 5
// for the politician estimates.
func Project(w *model.WorldState, playerID string) *View {
	p := w.Players[playerID]
	if p == nil {
		return nil
	}
	seed := w.Meta.Seed
	tick := w.Meta.Tick

	priceDelta := noise.Perturb(seed, tick, 1, w.Economy.Market.PriceIndex-1, 0.1)
	priceTrend := "stable"
	switch {
	case priceDelta > 0.05:
		priceTrend = "rising"
	case priceDelta < -0.05:
		priceTrend = "falling"
	}

	ratio := w.Economy.Market.Supply / math.Max(1, w.Economy.Market.Demand)
	availabilityVal := noise.Perturb(seed, tick, 2, ratio, 0.15)
	availability := bucket3(availabilityVal, 1.3, 0.8, 0.5, [4]string{"abundant", "normal", "scarce", "shortage"})

	approvalVal := noise.Perturb(seed, tick, 3, w.Government.Approval.Overall, 10)
	approvalVague := bucket3(approvalVal, 65, 40, 20, [4]string{"popular", "mixed", "unpopular", "crisis"})

	v := &View{
		Wealth:        round2(p.Visible.Wealth),
		PriceTrend:    priceTrend,
		Availability:  availability,
		ApprovalVague: approvalVague,
		Headlines:     w.Media.Headlines,
		Rumors:        w.Media.Rumors,
		Role:          p.Role,
	}

	switch p.Role {
	case model.RoleCitizen:
		if p.Citizen != nil {
			v.RoleBlock = CitizenBlock{
				Employed: p.Citizen.Employed,
				Mood:     bucket3(w.Society.Satisfaction, 70, 45, 20, [4]string{"content", "uneasy", "discontent", "desperate"}),
			}
		}
	case model.RoleBusinessOwner:
		if p.Business != nil {
			v.RoleBlock = BusinessBlock{
				Employees:  p.Business.Employees,
				Production: p.Business.ProductionCapacity,
				WageLevel:  p.Business.WageLevel,
				LaborMood:  bucket3(1-p.Business.StrikeRisk, 0.8, 0.5, 0.2, [4]string{"content", "uneasy", "restless", "on_strike_footing"}),
			}
		}
	case model.RolePolitician:
		if p.Politician != nil {
			approvalEstimate := math.Round(noise.Perturb(seed, tick, 4, w.Government.Approval.Overall, 8))
			unemploymentEstimate := math.Round(noise.Perturb(seed, tick, 5, w.Economy.Unemployment, 3)*10) / 10
			v.RoleBlock = PoliticianBlock{
				LawsProposed:         p.Politician.LawsProposed,
				LawsPassed:           p.Politician.LawsPassed,
				ApprovalEstimate:     approvalEstimate,
				UnemploymentEstimate: unemploymentEstimate,
			}
		}
	}

	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
