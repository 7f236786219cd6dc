package fulfillment

// Stage names one step of turning a checkout event into access rights.
// Stages run in declaration order; the event is only complete at
// StageMarkedProcessed.
type Stage string

const (
	StageReceived          Stage = "received"
	StageValidated         Stage = "validated"
	StagePurchaseRecorded  Stage = "purchase-recorded"
	StageEntitlementMerged Stage = "entitlement-merged"
	StageQuotaReconciled   Stage = "quota-reconciled"
	StageArtifactsCreated  Stage = "artifacts-created"
	StageNotified          Stage = "notified"
	StageMarkedProcessed   Stage = "marked-processed"
)

func (s Stage) String() string { return string(s) }

type Outcome string

// OutcomeFulfilled also covers grants found already applied by an earlier,
// unmarked run. OutcomeSkipped means the purchase was already refunded or
// disputed and nothing was granted.
const (
	OutcomeFulfilled Outcome = "fulfilled"
	OutcomeReplayed  Outcome = "replayed"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeRejected  Outcome = "rejected"
	OutcomeFailed    Outcome = "failed"
	OutcomeBusy      Outcome = "in-progress"
)

func (o Outcome) String() string { return string(o) }
