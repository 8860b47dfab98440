package moderation

import (
	"strings"

	"github.com/mohitbansal25082006/MannSahay-sub001/internal/classifier"
	"github.com/mohitbansal25082006/MannSahay-sub001/internal/models"
)

// Decision is the target moderation state derived from a verdict and a risk
// level. It is always one of the valid rows of the mapping table: REJECTED is
// always hidden, and flagged content with no violation stays APPROVED.
type Decision struct {
	Status   models.ModerationStatus
	IsHidden bool
	Flagged  bool
	Reason   string
	Note     string
}

// MapDecision translates a classifier verdict and a previously assessed risk
// level into the moderation state to persist. It is pure and deterministic.
//
// The policy verdict alone drives status and visibility. The risk level only
// ever contributes to the flagged bit: HIGH-risk but policy-compliant content
// stays APPROVED and visible, because risk denotes possible self-harm, not a
// content violation, and hiding it would cut the author off from support.
func MapDecision(v classifier.Verdict, risk models.RiskLevel) Decision {
	riskFlag := risk == models.RiskMedium || risk == models.RiskHigh

	if !v.ViolatesPolicy {
		return Decision{
			Status:   models.ModerationApproved,
			IsHidden: false,
			Flagged:  riskFlag,
			Reason:   "",
			Note:     "approved: " + v.Explanation,
		}
	}

	reason := strings.Join(v.ViolationTypes, ",")

	switch v.RecommendedAction {
	case classifier.ActionRemove:
		return Decision{
			Status:   models.ModerationRejected,
			IsHidden: true,
			Flagged:  true,
			Reason:   reason,
			Note:     "removed: " + v.Explanation,
		}
	case classifier.ActionHide:
		return Decision{
			Status:   models.ModerationUnderReview,
			IsHidden: true,
			Flagged:  true,
			Reason:   reason,
			Note:     "hidden pending review: " + v.Explanation,
		}
	default:
		// flag, and any violating verdict with a softer action: visible but
		// queued for human review.
		return Decision{
			Status:   models.ModerationUnderReview,
			IsHidden: false,
			Flagged:  true,
			Reason:   reason,
			Note:     "flagged for review: " + v.Explanation,
		}
	}
}
