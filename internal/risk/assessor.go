package risk

import (
	"regexp"
	"sync"

	"github.com/mohitbansal25082006/MannSahay-sub001/internal/models"
)

// Phrase lists are matched as whole words, case-insensitive. The product
// serves English and romanized Hindi, so both vocabularies are listed.

// CrisisPhrases always yield HIGH on their own.
var CrisisPhrases = []string{
	"kill myself", "killing myself", "end my life", "ending my life",
	"want to die", "wanna die", "better off dead", "suicide", "suicidal",
	"take my own life", "no reason to live", "end it all",
	"khudkushi", "aatmahatya", "marna chahta hu", "marna chahti hu",
	"jeena nahi chahta", "jeena nahi chahti", "mar jana chahta",
}

// SelfHarmPhrases yield MEDIUM, or HIGH when a severity modifier is present.
var SelfHarmPhrases = []string{
	"hurt myself", "hurting myself", "harm myself", "harming myself",
	"cut myself", "cutting myself", "self harm", "self-harm",
	"starve myself", "punish myself", "overdose",
	"khud ko nuksan", "khud ko chot", "apne aap ko saza",
}

// DistressPhrases yield LOW.
var DistressPhrases = []string{
	"hopeless", "worthless", "can't go on", "cant go on", "give up on life",
	"nobody cares", "no one cares", "hate myself", "empty inside",
	"bahut akela", "koi nahi samajhta", "haar gaya hu", "haar gayi hu",
	"kuch acha nahi lagta",
}

// SeverityModifiers escalate a self-harm match by one tier. They signal
// immediacy or an actual plan rather than rumination.
var SeverityModifiers = []string{
	"tonight", "right now", "today", "already decided", "have a plan",
	"planned", "goodbye", "last time", "aaj raat", "abhi", "aakhri baar",
	"alvida",
}

// Assessor classifies free text into a crisis-risk tier. It is deterministic,
// does no I/O and is safe for concurrent use, so it can sit inline in a live
// chat turn.
type Assessor struct {
	crisis    []*regexp.Regexp
	selfHarm  []*regexp.Regexp
	distress  []*regexp.Regexp
	modifiers []*regexp.Regexp
	mu        sync.RWMutex
	compiled  bool
}

func NewAssessor() *Assessor {
	a := &Assessor{}
	a.compilePatterns()
	return a
}

func (a *Assessor) compilePatterns() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.compiled {
		return
	}
	a.crisis = compilePhraseList(CrisisPhrases)
	a.selfHarm = compilePhraseList(SelfHarmPhrases)
	a.distress = compilePhraseList(DistressPhrases)
	a.modifiers = compilePhraseList(SeverityModifiers)
	a.compiled = true
}

func compilePhraseList(phrases []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(phrases))
	for _, p := range phrases {
		pattern := `(?i)\b` + regexp.QuoteMeta(p) + `\b`
		re, err := regexp.Compile(pattern)
		if err == nil {
			out = append(out, re)
		}
	}
	return out
}

// Assess returns the highest matching risk tier for the given text. Unknown
// or empty input is NONE; there is no error case.
func (a *Assessor) Assess(text string) models.RiskLevel {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if text == "" {
		return models.RiskNone
	}

	if matchAny(a.crisis, text) {
		return models.RiskHigh
	}
	if matchAny(a.selfHarm, text) {
		if matchAny(a.modifiers, text) {
			return models.RiskHigh
		}
		return models.RiskMedium
	}
	if matchAny(a.distress, text) {
		return models.RiskLow
	}
	return models.RiskNone
}

func matchAny(res []*regexp.Regexp, text string) bool {
	for _, re := range res {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
