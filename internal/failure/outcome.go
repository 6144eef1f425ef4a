package failure

// Outcome is the job-level state computed from clip classifications.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

// DeriveOutcome folds clip failure kinds into the job outcome. A job
// completes only when every clip succeeded; a cancellation with no other
// failure is a cancelled job; anything else is failed. An empty collection is
// failed, never completed, because a job with no verified clip results has
// nothing to vouch for it.
func DeriveOutcome(kinds []Kind) Outcome {
	if len(kinds) == 0 {
		return OutcomeFailed
	}
	sawCancel := false
	for _, kind := range kinds {
		switch kind {
		case KindNone:
		case KindCancelled:
			sawCancel = true
		default:
			return OutcomeFailed
		}
	}
	if sawCancel {
		return OutcomeCancelled
	}
	return OutcomeCompleted
}
