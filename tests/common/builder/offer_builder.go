//go:build unit || e2e

package builder

import (
	"entitlement-service/internal/domain/offer"

	"github.com/google/uuid"
)

type OfferBuilder struct {
	p offer.Params
}

// NewOfferBuilder starts from the QUICK catalog entry.
func NewOfferBuilder() *OfferBuilder {
	return &OfferBuilder{p: offer.Params{
		ID:                   uuid.New(),
		Code:                 "QUICK",
		Version:              1,
		Kind:                 offer.KindMain,
		NameEN:               "Quick Prep",
		NameFR:               "Préparation rapide",
		PriceCents:           29900,
		Currency:             "CAD",
		CoachingMinutes:      900,
		AIDailyMinutes:       15,
		AccessDurationMonths: 6,
		IncludesDiagnostic:   true,
		IncludesLearningPlan: true,
		SimulationsIncluded:  1,
		IsActive:             true,
	}}
}

func (b *OfferBuilder) Boost() *OfferBuilder {
	b.p.Code, b.p.NameEN, b.p.NameFR = "BOOST", "Boost", "Boost"
	b.p.PriceCents = 6700
	b.p.CoachingMinutes, b.p.AIDailyMinutes, b.p.AccessDurationMonths = 60, 10, 3
	b.p.IncludesDiagnostic, b.p.IncludesLearningPlan, b.p.SimulationsIncluded = true, false, 1
	return b
}

func (b *OfferBuilder) Progressive() *OfferBuilder {
	b.p.Code, b.p.NameEN, b.p.NameFR = "PROGRESSIVE", "Progressive", "Progressif"
	b.p.PriceCents = 89900
	b.p.CoachingMinutes, b.p.AIDailyMinutes, b.p.AccessDurationMonths = 900, 15, 12
	b.p.SimulationsIncluded = 3
	return b
}

func (b *OfferBuilder) Mastery() *OfferBuilder {
	b.p.Code, b.p.NameEN, b.p.NameFR = "MASTERY", "Mastery", "Maîtrise"
	b.p.PriceCents = 189900
	b.p.CoachingMinutes, b.p.AIDailyMinutes, b.p.AccessDurationMonths = 1800, 30, 24
	b.p.SimulationsIncluded = 6
	return b
}

func (b *OfferBuilder) Topup60() *OfferBuilder {
	b.p.Code, b.p.Kind, b.p.NameEN, b.p.NameFR = "AI_TOPUP_60", offer.KindTopup, "AI Top-up 60", "Recharge IA 60"
	b.p.PriceCents = 3900
	b.p.CoachingMinutes, b.p.AIDailyMinutes, b.p.AccessDurationMonths, b.p.TopupMinutes = 0, 0, 12, 60
	b.p.IncludesDiagnostic, b.p.IncludesLearningPlan, b.p.SimulationsIncluded = false, false, 0
	return b
}

func (b *OfferBuilder) With(mutate func(*offer.Params)) *OfferBuilder {
	mutate(&b.p)
	return b
}

func (b *OfferBuilder) Params() offer.Params {
	return b.p
}

func (b *OfferBuilder) BuildDomain() (*offer.Offer, error) {
	return offer.New(b.p)
}

// MustBuild is for fixtures whose params are known to be valid.
func (b *OfferBuilder) MustBuild() *offer.Offer {
	o, err := offer.New(b.p)
	if err != nil {
		panic(err)
	}
	return o
}
