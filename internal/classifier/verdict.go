package classifier

import "strings"

// Recommended actions in increasing order of severity.
const (
	ActionAllow  = "allow"
	ActionFlag   = "flag"
	ActionHide   = "hide"
	ActionRemove = "remove"
)

// Severity tiers reported by the classification service.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Verdict is the structured outcome of one policy-classification attempt.
type Verdict struct {
	ViolatesPolicy    bool     `json:"violates_policy"`
	ViolationTypes    []string `json:"violation_types"`
	Severity          string   `json:"severity"`
	Confidence        float64  `json:"confidence"`
	Explanation       string   `json:"explanation"`
	RecommendedAction string   `json:"recommended_action"`
}

// SafeDefault is the verdict used whenever the classification service cannot
// be reached or understood. Content is never auto-removed on classifier
// failure, so the default must always allow.
func SafeDefault() Verdict {
	return Verdict{
		ViolatesPolicy:    false,
		ViolationTypes:    []string{},
		Severity:          SeverityLow,
		Confidence:        0,
		Explanation:       "automatic review unavailable",
		RecommendedAction: ActionAllow,
	}
}

// normalize clamps and canonicalizes a decoded verdict so downstream mapping
// only ever sees known action and severity values.
func (v *Verdict) normalize() {
	v.RecommendedAction = strings.ToLower(strings.TrimSpace(v.RecommendedAction))
	switch v.RecommendedAction {
	case ActionAllow, ActionFlag, ActionHide, ActionRemove:
	default:
		if v.ViolatesPolicy {
			v.RecommendedAction = ActionFlag
		} else {
			v.RecommendedAction = ActionAllow
		}
	}

	v.Severity = strings.ToLower(strings.TrimSpace(v.Severity))
	switch v.Severity {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
	default:
		v.Severity = SeverityLow
	}

	if v.Confidence < 0 {
		v.Confidence = 0
	}
	if v.Confidence > 1 {
		v.Confidence = 1
	}
	if v.ViolationTypes == nil {
		v.ViolationTypes = []string{}
	}
}
