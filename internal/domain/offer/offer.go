package offer

import (
	"strings"

	"entitlement-service/internal/domain/locale"
	"entitlement-service/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidKind        = errs.New("invalid offer kind")
	ErrEmptyCode          = errs.New("offer code is required")
	ErrInvalidMainOffer   = errs.New("main offer requires a positive access duration and a non-negative AI daily allowance")
	ErrInvalidTopupOffer  = errs.New("topup offer requires topup minutes and no AI daily allowance")
	ErrNegativeAllocation = errs.New("offer allocations must not be negative")
)

// Offer is read-only catalog data. A purchase may reference a retired
// (inactive) offer; availability for sale is not the engine's concern.
type Offer struct {
	id                   uuid.UUID
	code                 string
	version              int32
	kind                 Kind
	nameEN               string
	nameFR               string
	priceCents           int64
	currency             string
	coachingMinutes      int32
	aiDailyMinutes       int32
	accessDurationMonths int32
	topupMinutes         int32
	includesDiagnostic   bool
	includesLearningPlan bool
	simulationsIncluded  int32
	isActive             bool
}

type Params struct {
	ID                   uuid.UUID
	Code                 string
	Version              int32
	Kind                 Kind
	NameEN               string
	NameFR               string
	PriceCents           int64
	Currency             string
	CoachingMinutes      int32
	AIDailyMinutes       int32
	AccessDurationMonths int32
	TopupMinutes         int32
	IncludesDiagnostic   bool
	IncludesLearningPlan bool
	SimulationsIncluded  int32
	IsActive             bool
}

func New(p Params) (*Offer, error) {
	code := strings.TrimSpace(p.Code)
	if code == "" {
		return nil, ErrEmptyCode
	}
	if !p.Kind.IsValid() {
		return nil, ErrInvalidKind
	}
	if p.PriceCents < 0 || p.CoachingMinutes < 0 || p.TopupMinutes < 0 || p.SimulationsIncluded < 0 {
		return nil, ErrNegativeAllocation
	}

	switch p.Kind {
	case KindMain:
		if p.AccessDurationMonths <= 0 || p.AIDailyMinutes < 0 {
			return nil, ErrInvalidMainOffer
		}
	case KindTopup:
		if p.AIDailyMinutes != 0 || p.TopupMinutes <= 0 {
			return nil, ErrInvalidTopupOffer
		}
	}

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}

	return &Offer{
		id:                   p.ID,
		code:                 code,
		version:              p.Version,
		kind:                 p.Kind,
		nameEN:               p.NameEN,
		nameFR:               p.NameFR,
		priceCents:           p.PriceCents,
		currency:             p.Currency,
		coachingMinutes:      p.CoachingMinutes,
		aiDailyMinutes:       p.AIDailyMinutes,
		accessDurationMonths: p.AccessDurationMonths,
		topupMinutes:         p.TopupMinutes,
		includesDiagnostic:   p.IncludesDiagnostic,
		includesLearningPlan: p.IncludesLearningPlan,
		simulationsIncluded:  p.SimulationsIncluded,
		isActive:             p.IsActive,
	}, nil
}

func (o *Offer) ID() uuid.UUID               { return o.id }
func (o *Offer) Code() string                { return o.code }
func (o *Offer) Version() int32              { return o.version }
func (o *Offer) Kind() Kind                  { return o.kind }
func (o *Offer) PriceCents() int64           { return o.priceCents }
func (o *Offer) Currency() string            { return o.currency }
func (o *Offer) CoachingMinutes() int32      { return o.coachingMinutes }
func (o *Offer) AIDailyMinutes() int32       { return o.aiDailyMinutes }
func (o *Offer) AccessDurationMonths() int32 { return o.accessDurationMonths }
func (o *Offer) TopupMinutes() int32         { return o.topupMinutes }
func (o *Offer) IncludesDiagnostic() bool    { return o.includesDiagnostic }
func (o *Offer) IncludesLearningPlan() bool  { return o.includesLearningPlan }
func (o *Offer) SimulationsIncluded() int32  { return o.simulationsIncluded }
func (o *Offer) IsActive() bool              { return o.isActive }
func (o *Offer) IsTopup() bool               { return o.kind == KindTopup }

// Name returns the localized display name, falling back to English.
func (o *Offer) Name(l locale.Locale) string {
	if l == locale.FR && o.nameFR != "" {
		return o.nameFR
	}
	return o.nameEN
}
