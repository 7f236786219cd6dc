//go:build unit

package commands_test

import (
	"context"
	"sync"
	"time"

	"entitlement-service/internal/domain/artifact"
	"entitlement-service/internal/domain/entitlement"
	"entitlement-service/internal/domain/offer"
	"entitlement-service/internal/domain/purchase"
	"entitlement-service/internal/domain/quota"
	"entitlement-service/internal/domain/user"
	"entitlement-service/internal/infra"
	"entitlement-service/internal/infra/sqlc"
	"entitlement-service/internal/usecase/shared"

	"github.com/google/uuid"
)

// Failure injection points understood by memUoW.
const (
	failReadsProcessed     = "reads.processed"
	failPurchaseUpsert     = "purchase.upsert"
	failEntitlementUpsert  = "entitlement.upsert"
	failQuotaLock          = "quota.lock"
	failQuotaSave          = "quota.save"
	failNotificationInsert = "notification.enqueue"
	failProcessedMark      = "processed.mark"
)

type storedPurchase struct {
	id     uuid.UUID
	status purchase.Status
	p      *purchase.Purchase
}

type memState struct {
	purchases    map[string]storedPurchase
	entitlements map[uuid.UUID]*entitlement.Entitlement // by purchase id
	quotas       map[uuid.UUID]quota.Snapshot
	grants       map[uuid.UUID]shared.QuotaGrant
	diagnostics  map[uuid.UUID]*artifact.Diagnostic   // by entitlement id
	plans        map[uuid.UUID]*artifact.LearningPlan // by entitlement id
	processed    map[string]shared.ProcessedEvent
	jobs         map[string]shared.NotificationJob
	usage        []shared.UsageRecord
}

func newMemState() *memState {
	return &memState{
		purchases:    map[string]storedPurchase{},
		entitlements: map[uuid.UUID]*entitlement.Entitlement{},
		quotas:       map[uuid.UUID]quota.Snapshot{},
		grants:       map[uuid.UUID]shared.QuotaGrant{},
		diagnostics:  map[uuid.UUID]*artifact.Diagnostic{},
		plans:        map[uuid.UUID]*artifact.LearningPlan{},
		processed:    map[string]shared.ProcessedEvent{},
		jobs:         map[string]shared.NotificationJob{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *memState) clone() *memState {
	return &memState{
		purchases:    cloneMap(s.purchases),
		entitlements: cloneMap(s.entitlements),
		quotas:       cloneMap(s.quotas),
		grants:       cloneMap(s.grants),
		diagnostics:  cloneMap(s.diagnostics),
		plans:        cloneMap(s.plans),
		processed:    cloneMap(s.processed),
		jobs:         cloneMap(s.jobs),
		usage:        append([]shared.UsageRecord(nil), s.usage...),
	}
}

// memUoW commits a transaction by swapping in its staged copy of the state,
// so a failing fn leaves nothing behind.
type memUoW struct {
	mu     sync.Mutex
	state  *memState
	offers map[string]*offer.Offer
	users  map[uuid.UUID]*user.User
	fail   map[string]error
}

func newMemUoW() *memUoW {
	return &memUoW{
		state:  newMemState(),
		offers: map[string]*offer.Offer{},
		users:  map[uuid.UUID]*user.User{},
		fail:   map[string]error{},
	}
}

func (u *memUoW) addOffer(o *offer.Offer) { u.offers[o.Code()] = o }
func (u *memUoW) addUser(usr *user.User)  { u.users[usr.ID()] = usr }

func (u *memUoW) injected(op string) error {
	return u.fail[op]
}

func (u *memUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	staged := u.state.clone()
	if err := fn(ctx, &memTx{uow: u, state: staged}); err != nil {
		return err
	}
	u.state = staged
	return nil
}

func (u *memUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *memUoW) WithDB(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *memUoW) CommandReads() shared.CommandReads {
	return memReads{uow: u}
}

// snapshot returns the committed state.
func (u *memUoW) snapshot() *memState {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state.clone()
}

type memReads struct{ uow *memUoW }

func (r memReads) OfferByCode(_ context.Context, code string) (*offer.Offer, error) {
	o, ok := r.uow.offers[code]
	if !ok {
		return nil, infra.WrapRepoErr("offer not found", nil, infra.KindNotFound)
	}
	return o, nil
}

func (r memReads) UserByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	usr, ok := r.uow.users[id]
	if !ok {
		return nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound)
	}
	return usr, nil
}

func (r memReads) IsEventProcessed(_ context.Context, eventID string) (bool, error) {
	if err := r.uow.injected(failReadsProcessed); err != nil {
		return false, err
	}
	st := r.uow.snapshot()
	_, ok := st.processed[eventID]
	return ok, nil
}

type memTx struct {
	uow   *memUoW
	state *memState
}

func (t *memTx) Purchases() shared.PurchaseRepository             { return memPurchases{t} }
func (t *memTx) Entitlements() shared.EntitlementRepository       { return memEntitlements{t} }
func (t *memTx) Quotas() shared.QuotaRepository                   { return memQuotas{t} }
func (t *memTx) Artifacts() shared.ArtifactRepository             { return memArtifacts{t} }
func (t *memTx) ProcessedEvents() shared.ProcessedEventRepository { return memProcessed{t} }
func (t *memTx) Notifications() shared.NotificationRepository     { return memNotifications{t} }
func (t *memTx) Reads() shared.CommandReads                       { return memReads{uow: t.uow} }
func (t *memTx) DB() sqlc.DBTX                                    { return nil }

type memPurchases struct{ tx *memTx }

func (r memPurchases) Upsert(_ context.Context, _ sqlc.DBTX, p *purchase.Purchase) (*shared.PurchaseUpsert, error) {
	if err := r.tx.uow.injected(failPurchaseUpsert); err != nil {
		return nil, err
	}
	if existing, ok := r.tx.state.purchases[p.CheckoutSessionID()]; ok {
		return &shared.PurchaseUpsert{ID: existing.id, Status: existing.status}, nil
	}
	r.tx.state.purchases[p.CheckoutSessionID()] = storedPurchase{id: p.ID(), status: p.Status(), p: p}
	return &shared.PurchaseUpsert{ID: p.ID(), Status: p.Status(), Created: true}, nil
}

type memEntitlements struct{ tx *memTx }

func (r memEntitlements) Upsert(_ context.Context, _ sqlc.DBTX, e *entitlement.Entitlement) (uuid.UUID, bool, error) {
	if err := r.tx.uow.injected(failEntitlementUpsert); err != nil {
		return uuid.Nil, false, err
	}
	if existing, ok := r.tx.state.entitlements[e.PurchaseID()]; ok {
		return existing.ID(), false, nil
	}
	r.tx.state.entitlements[e.PurchaseID()] = e
	return e.ID(), true, nil
}

type memQuotas struct{ tx *memTx }

func (r memQuotas) LockForUpdate(_ context.Context, _ sqlc.DBTX, userID uuid.UUID, now time.Time) (*quota.AIQuota, error) {
	if err := r.tx.uow.injected(failQuotaLock); err != nil {
		return nil, err
	}
	snap, ok := r.tx.state.quotas[userID]
	if !ok {
		q := quota.NewEmpty(userID, now)
		r.tx.state.quotas[userID] = q.Snapshot()
		return q, nil
	}
	return quota.FromSnapshot(snap)
}

func (r memQuotas) RecordGrant(_ context.Context, _ sqlc.DBTX, grant shared.QuotaGrant) (bool, error) {
	if _, ok := r.tx.state.grants[grant.PurchaseID]; ok {
		return false, nil
	}
	r.tx.state.grants[grant.PurchaseID] = grant
	return true, nil
}

func (r memQuotas) Save(_ context.Context, _ sqlc.DBTX, q *quota.AIQuota) error {
	if err := r.tx.uow.injected(failQuotaSave); err != nil {
		return err
	}
	r.tx.state.quotas[q.UserID()] = q.Snapshot()
	return nil
}

func (r memQuotas) AppendUsage(_ context.Context, _ sqlc.DBTX, rec shared.UsageRecord) error {
	r.tx.state.usage = append(r.tx.state.usage, rec)
	return nil
}

type memArtifacts struct{ tx *memTx }

func (r memArtifacts) CreateDiagnostic(_ context.Context, _ sqlc.DBTX, d *artifact.Diagnostic) (bool, error) {
	if _, ok := r.tx.state.diagnostics[d.EntitlementID]; ok {
		return false, nil
	}
	r.tx.state.diagnostics[d.EntitlementID] = d
	return true, nil
}

func (r memArtifacts) CreateLearningPlan(_ context.Context, _ sqlc.DBTX, lp *artifact.LearningPlan) (bool, error) {
	if _, ok := r.tx.state.plans[lp.EntitlementID]; ok {
		return false, nil
	}
	r.tx.state.plans[lp.EntitlementID] = lp
	return true, nil
}

type memProcessed struct{ tx *memTx }

func (r memProcessed) MarkProcessed(_ context.Context, _ sqlc.DBTX, ev shared.ProcessedEvent) error {
	if err := r.tx.uow.injected(failProcessedMark); err != nil {
		return err
	}
	if _, ok := r.tx.state.processed[ev.EventID]; !ok {
		r.tx.state.processed[ev.EventID] = ev
	}
	return nil
}

type memNotifications struct{ tx *memTx }

func (r memNotifications) Enqueue(_ context.Context, _ sqlc.DBTX, job shared.NotificationJob) (bool, error) {
	if err := r.tx.uow.injected(failNotificationInsert); err != nil {
		return false, err
	}
	if _, ok := r.tx.state.jobs[job.DedupeKey]; ok {
		return false, nil
	}
	r.tx.state.jobs[job.DedupeKey] = job
	return true, nil
}

// stubLocker returns err from every TryLock, or a no-op unlock when err is nil.
type stubLocker struct {
	err   error
	calls []string
}

func (l *stubLocker) TryLock(_ context.Context, key string, _ time.Duration) (shared.Unlock, error) {
	l.calls = append(l.calls, key)
	if l.err != nil {
		return nil, l.err
	}
	return func(context.Context) error { return nil }, nil
}
