package commands

import (
	"context"
	"log/slog"
	"time"

	"entitlement-service/internal/domain/artifact"
	"entitlement-service/internal/domain/checkout"
	"entitlement-service/internal/domain/entitlement"
	"entitlement-service/internal/domain/fulfillment"
	"entitlement-service/internal/domain/locale"
	"entitlement-service/internal/domain/offer"
	"entitlement-service/internal/domain/purchase"
	"entitlement-service/internal/domain/quota"
	"entitlement-service/internal/domain/user"
	"entitlement-service/internal/infra"
	"entitlement-service/internal/pkg/clock"
	"entitlement-service/internal/pkg/config"
	"entitlement-service/internal/pkg/errs"
	"entitlement-service/internal/usecase/shared"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrInvalidEvent          = errs.New("invalid checkout event")
	ErrOfferNotFound         = errs.New("offer not found")
	ErrUserNotFound          = errs.New("user not found")
	ErrFulfillmentInProgress = errs.New("fulfillment already in progress for this checkout session")
	ErrFulfillmentFailed     = errs.New("fulfillment failed")
)

type FulfillmentResult struct {
	Outcome       fulfillment.Outcome
	EventID       string
	PurchaseID    uuid.UUID
	EntitlementID *uuid.UUID
	OfferCode     string
	OfferKind     offer.Kind
	// Replayed is true when the event was already marked and nothing ran.
	Replayed bool
}

type FulfillmentCommands interface {
	// Fulfill handles one delivery of a processor event. Event types other
	// than checkout.session.completed are acknowledged and ignored.
	Fulfill(ctx context.Context, eventType string, raw checkout.Raw) (*FulfillmentResult, error)
}

type fulfillmentUseCaseImpl struct {
	uow     shared.UnitOfWork
	locker  shared.SessionLocker
	planner *NotificationPlanner
	metrics shared.Metrics
	tracer  trace.Tracer
	clock   clock.Clock
	cfg     config.FulfillmentConfig
}

func NewFulfillmentUseCase(
	uow shared.UnitOfWork,
	locker shared.SessionLocker,
	planner *NotificationPlanner,
	metrics shared.Metrics,
	tracer trace.Tracer,
	clk clock.Clock,
	cfg config.FulfillmentConfig,
) FulfillmentCommands {
	return &fulfillmentUseCaseImpl{
		uow:     uow,
		locker:  locker,
		planner: planner,
		metrics: metrics,
		tracer:  tracer,
		clock:   clk,
		cfg:     cfg,
	}
}

// fulfillmentRun is the state one Fulfill call accumulates across stages.
type fulfillmentRun struct {
	event    *checkout.Completed
	offer    *offer.Offer
	user     *user.User
	purchase *purchase.Purchase
	result   *FulfillmentResult
	log      *slog.Logger
}

func (uc *fulfillmentUseCaseImpl) Fulfill(ctx context.Context, eventType string, raw checkout.Raw) (*FulfillmentResult, error) {
	started := time.Now()
	ctx, span := uc.tracer.Start(ctx, "fulfillment.Fulfill", trace.WithAttributes(
		attribute.String("event.id", raw.EventID),
		attribute.String("event.type", eventType),
		attribute.String("checkout.session_id", raw.CheckoutSessionID),
	))
	defer span.End()

	result, err := uc.fulfill(ctx, eventType, raw)

	outcome := outcomeOf(result, err)
	kind := ""
	if result != nil {
		kind = result.OfferKind.String()
	}
	uc.metrics.FulfillmentFinished(outcome.String(), kind, time.Since(started))
	span.SetAttributes(attribute.String("fulfillment.outcome", outcome.String()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome.String())
	}
	return result, err
}

func (uc *fulfillmentUseCaseImpl) fulfill(ctx context.Context, eventType string, raw checkout.Raw) (*FulfillmentResult, error) {
	log := slog.With("event_id", raw.EventID, "checkout_session_id", raw.CheckoutSessionID)
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		log = log.With("trace_id", sc.TraceID().String())
	}

	if eventType != checkout.EventTypeCompleted {
		log.Info("ignoring checkout event type", "event_type", eventType)
		return &FulfillmentResult{Outcome: fulfillment.OutcomeIgnored, EventID: raw.EventID}, nil
	}

	defaultLocale := locale.Parse(uc.cfg.DefaultLocale, locale.EN)
	event, err := checkout.Parse(raw, defaultLocale)
	if err != nil {
		log.Warn("rejecting malformed checkout event", "error", err.Error())
		return nil, errs.Mark(err, ErrInvalidEvent)
	}

	run := &fulfillmentRun{
		event:  event,
		result: &FulfillmentResult{EventID: event.EventID, OfferCode: event.OfferCode},
		log:    log.With("user_id", event.UserID.String(), "offer_code", event.OfferCode),
	}
	run.log.Info("checkout event received", "stage", fulfillment.StageReceived)

	processed, err := uc.isProcessed(ctx, event.EventID)
	if err != nil {
		return nil, uc.stageFailed(run, fulfillment.StageReceived, err)
	}
	if processed {
		run.log.Info("checkout event already processed, replaying")
		run.result.Outcome = fulfillment.OutcomeReplayed
		run.result.Replayed = true
		return run.result, nil
	}

	unlock, err := uc.locker.TryLock(ctx, sessionLockKey(event.CheckoutSessionID), uc.cfg.SessionLockTTL)
	switch {
	case errs.Is(err, shared.ErrLockHeld):
		run.log.Info("checkout session is being fulfilled by another delivery")
		return nil, ErrFulfillmentInProgress
	case err != nil:
		// Every write is keyed by natural key, so running without the lock
		// cannot double-grant; it only loses the early 409.
		run.log.Warn("session lock unavailable, continuing without it", "error", err.Error())
	default:
		defer func() {
			if uerr := unlock(context.WithoutCancel(ctx)); uerr != nil {
				run.log.Warn("failed to release session lock", "error", uerr.Error())
			}
		}()
	}

	if err := uc.step(ctx, run, fulfillment.StageValidated, uc.validate); err != nil {
		return nil, err
	}
	if err := uc.step(ctx, run, fulfillment.StagePurchaseRecorded, uc.applyGrants); err != nil {
		return nil, err
	}
	if run.result.Outcome != fulfillment.OutcomeSkipped {
		// best effort: never fails the run
		_ = uc.step(ctx, run, fulfillment.StageNotified, uc.enqueueNotifications)
	}
	if err := uc.step(ctx, run, fulfillment.StageMarkedProcessed, uc.markProcessed); err != nil {
		return nil, err
	}

	if run.result.Outcome == "" {
		run.result.Outcome = fulfillment.OutcomeFulfilled
	}
	run.log.Info("checkout event fulfilled", "outcome", run.result.Outcome, "purchase_id", run.result.PurchaseID.String())
	return run.result, nil
}

// step runs fn under the per-step deadline inside its own span.
func (uc *fulfillmentUseCaseImpl) step(
	ctx context.Context,
	run *fulfillmentRun,
	stage fulfillment.Stage,
	fn func(ctx context.Context, run *fulfillmentRun) error,
) error {
	ctx, span := uc.tracer.Start(ctx, "fulfillment."+stage.String())
	defer span.End()

	if uc.cfg.StepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.StepTimeout)
		defer cancel()
	}

	if err := fn(ctx, run); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, stage.String())
		return uc.stageFailed(run, stage, err)
	}
	return nil
}

func (uc *fulfillmentUseCaseImpl) stageFailed(run *fulfillmentRun, stage fulfillment.Stage, err error) error {
	uc.metrics.FulfillmentStageFailed(stage.String())
	if isRejection(err) {
		run.log.Warn("checkout event rejected", "stage", stage, "error", err.Error())
		return err
	}
	if stage == fulfillment.StageNotified {
		run.log.Warn("notification enqueue failed; fulfillment continues", "error", err.Error())
		return err
	}
	run.log.Error("fulfillment stage failed", "stage", stage, "error", err.Error())
	return errs.Mark(err, ErrFulfillmentFailed)
}

func (uc *fulfillmentUseCaseImpl) isProcessed(ctx context.Context, eventID string) (bool, error) {
	if uc.cfg.StepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.StepTimeout)
		defer cancel()
	}
	return uc.uow.CommandReads().IsEventProcessed(ctx, eventID)
}

// validate resolves the offer and the user. Nothing has been written yet,
// so a failure here leaves no trace of the event.
func (uc *fulfillmentUseCaseImpl) validate(ctx context.Context, run *fulfillmentRun) error {
	reads := uc.uow.CommandReads()

	o, err := reads.OfferByCode(ctx, run.event.OfferCode)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, ErrOfferNotFound)
		}
		return err
	}

	u, err := reads.UserByID(ctx, run.event.UserID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, ErrUserNotFound)
		}
		return err
	}

	amount := o.PriceCents()
	if run.event.AmountTotal != nil {
		amount = *run.event.AmountTotal
	}
	currency := run.event.Currency
	if currency == "" {
		currency = o.Currency()
	}
	if currency == "" {
		currency = uc.cfg.DefaultCurrency
	}

	p, err := purchase.NewPaid(purchase.PaidParams{
		UserID:            u.ID(),
		OfferID:           o.ID(),
		OfferCode:         o.Code(),
		CheckoutSessionID: run.event.CheckoutSessionID,
		PaymentIntentID:   run.event.PaymentIntentID,
		CustomerID:        run.event.CustomerID,
		AmountCents:       amount,
		Currency:          currency,
		Locale:            run.event.Locale,
	}, uc.clock.Now())
	if err != nil {
		return errs.Mark(err, ErrInvalidEvent)
	}

	run.offer = o
	run.user = u
	run.purchase = p
	run.result.OfferKind = o.Kind()
	run.log.Info("checkout event validated", "stage", fulfillment.StageValidated, "offer_kind", o.Kind())
	return nil
}

// applyGrants records the purchase and every grant it implies in one
// transaction. Each write is an upsert on its natural key, so re-running it
// after a partial failure converges to the same state.
func (uc *fulfillmentUseCaseImpl) applyGrants(ctx context.Context, run *fulfillmentRun) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		up, err := tx.Purchases().Upsert(ctx, tx.DB(), run.purchase)
		if err != nil {
			return err
		}
		run.result.PurchaseID = up.ID
		run.result.EntitlementID = nil
		run.log.Info("purchase recorded", "stage", fulfillment.StagePurchaseRecorded,
			"purchase_id", up.ID.String(), "created", up.Created, "status", up.Status)

		if up.Status.IsTerminal() {
			run.log.Warn("purchase is no longer payable, skipping grants", "status", up.Status)
			run.result.Outcome = fulfillment.OutcomeSkipped
			return nil
		}
		run.result.Outcome = ""

		if run.offer.IsTopup() {
			return uc.reconcileTopup(ctx, tx, run, up.ID)
		}
		return uc.grantMainOffer(ctx, tx, run, up.ID)
	})
}

func (uc *fulfillmentUseCaseImpl) grantMainOffer(ctx context.Context, tx shared.Tx, run *fulfillmentRun, purchaseID uuid.UUID) error {
	now := uc.clock.Now()

	ent, err := entitlement.NewFromOffer(run.offer, run.user.ID(), purchaseID, now)
	if err != nil {
		return err
	}
	entitlementID, created, err := tx.Entitlements().Upsert(ctx, tx.DB(), ent)
	if err != nil {
		return err
	}
	run.result.EntitlementID = &entitlementID
	run.log.Info("entitlement merged", "stage", fulfillment.StageEntitlementMerged,
		"entitlement_id", entitlementID.String(), "created", created)

	if err := uc.createArtifacts(ctx, tx, run, entitlementID, now); err != nil {
		return err
	}

	return uc.reconcileQuota(ctx, tx, run, shared.QuotaGrant{
		PurchaseID:   purchaseID,
		UserID:       run.user.ID(),
		OfferCode:    run.offer.Code(),
		Kind:         run.offer.Kind(),
		DailyMinutes: run.offer.AIDailyMinutes(),
	}, func(q *quota.AIQuota) (bool, error) {
		return q.ApplyMainGrant(run.offer.Code(), run.offer.AIDailyMinutes(), ent.ValidUntil())
	})
}

func (uc *fulfillmentUseCaseImpl) reconcileTopup(ctx context.Context, tx shared.Tx, run *fulfillmentRun, purchaseID uuid.UUID) error {
	return uc.reconcileQuota(ctx, tx, run, shared.QuotaGrant{
		PurchaseID:   purchaseID,
		UserID:       run.user.ID(),
		OfferCode:    run.offer.Code(),
		Kind:         run.offer.Kind(),
		TopupMinutes: run.offer.TopupMinutes(),
	}, func(q *quota.AIQuota) (bool, error) {
		return true, q.ApplyTopup(run.offer.TopupMinutes())
	})
}

// reconcileQuota holds the user's quota row lock, then lets the grant ledger
// decide whether this purchase already moved the quota.
func (uc *fulfillmentUseCaseImpl) reconcileQuota(
	ctx context.Context,
	tx shared.Tx,
	run *fulfillmentRun,
	grant shared.QuotaGrant,
	apply func(q *quota.AIQuota) (bool, error),
) error {
	quotas := tx.Quotas()

	q, err := quotas.LockForUpdate(ctx, tx.DB(), grant.UserID, uc.clock.Now())
	if err != nil {
		return err
	}

	recorded, err := quotas.RecordGrant(ctx, tx.DB(), grant)
	if err != nil {
		return err
	}
	if !recorded {
		run.log.Info("quota grant already applied for purchase", "stage", fulfillment.StageQuotaReconciled)
		return nil
	}

	changed, err := apply(q)
	if err != nil {
		return err
	}
	if changed {
		if err := quotas.Save(ctx, tx.DB(), q); err != nil {
			return err
		}
	}

	run.log.Info("quota reconciled", "stage", fulfillment.StageQuotaReconciled,
		"changed", changed,
		"daily_quota_minutes", q.DailyQuotaMinutes(),
		"topup_minutes_balance", q.TopupMinutesBalance())
	return nil
}

func (uc *fulfillmentUseCaseImpl) createArtifacts(ctx context.Context, tx shared.Tx, run *fulfillmentRun, entitlementID uuid.UUID, now time.Time) error {
	if run.offer.IncludesDiagnostic() {
		d, err := artifact.NewPendingDiagnostic(run.user.ID(), entitlementID, now)
		if err != nil {
			return err
		}
		if _, err := tx.Artifacts().CreateDiagnostic(ctx, tx.DB(), d); err != nil {
			return err
		}
	}

	if run.offer.IncludesLearningPlan() {
		lp, err := artifact.NewDraftLearningPlan(run.user.ID(), entitlementID, now)
		if err != nil {
			return err
		}
		if _, err := tx.Artifacts().CreateLearningPlan(ctx, tx.DB(), lp); err != nil {
			return err
		}
	}

	run.log.Info("derived artifacts ensured", "stage", fulfillment.StageArtifactsCreated,
		"diagnostic", run.offer.IncludesDiagnostic(),
		"learning_plan", run.offer.IncludesLearningPlan())
	return nil
}

func (uc *fulfillmentUseCaseImpl) enqueueNotifications(ctx context.Context, run *fulfillmentRun) error {
	jobs, err := uc.planner.Plan(NotificationInput{
		EventID:       run.event.EventID,
		User:          run.user,
		Offer:         run.offer,
		Purchase:      run.purchase,
		PurchaseID:    run.result.PurchaseID,
		EntitlementID: run.result.EntitlementID,
		At:            uc.clock.Now(),
	})
	if err != nil {
		return err
	}

	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		for _, job := range jobs {
			inserted, err := tx.Notifications().Enqueue(ctx, tx.DB(), job)
			if err != nil {
				return err
			}
			if inserted {
				uc.metrics.NotificationEnqueued(string(job.Kind))
			}
			run.log.Info("notification enqueued", "stage", fulfillment.StageNotified,
				"topic", job.Topic, "dedupe_key", job.DedupeKey, "inserted", inserted)
		}
		return nil
	})
}

func (uc *fulfillmentUseCaseImpl) markProcessed(ctx context.Context, run *fulfillmentRun) error {
	return uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.ProcessedEvents().MarkProcessed(ctx, tx.DB(), shared.ProcessedEvent{
			EventID:           run.event.EventID,
			EventType:         checkout.EventTypeCompleted,
			CheckoutSessionID: run.event.CheckoutSessionID,
			PurchaseID:        run.result.PurchaseID,
			At:                uc.clock.Now(),
		})
	})
}

func sessionLockKey(checkoutSessionID string) string {
	return "fulfillment:session:" + checkoutSessionID
}

func isRejection(err error) bool {
	return errs.Is(err, ErrInvalidEvent) || errs.Is(err, ErrOfferNotFound) || errs.Is(err, ErrUserNotFound)
}

func outcomeOf(result *FulfillmentResult, err error) fulfillment.Outcome {
	switch {
	case err == nil && result != nil:
		return result.Outcome
	case errs.Is(err, ErrFulfillmentInProgress):
		return fulfillment.OutcomeBusy
	case isRejection(err):
		return fulfillment.OutcomeRejected
	default:
		return fulfillment.OutcomeFailed
	}
}
