package filter

import (
	"regexp"
	"strings"

	"github.com/histodesop/story-interactions/domain"
)

const (
	ReasonLink = "links are not allowed in comments"
	ReasonSpam = "this looks like spam"
)

// trailing punctuation that must not turn an ordinary word into a "domain"
const punctCutset = ".,!?;:¡¿()[]{}\"'`…"

var (
	schemeRe = regexp.MustCompile(`https?://\S+`)

	// bare host, optionally with a path: label(.label)*.tld[/path]
	bareHostRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*(\.[a-z0-9-]+)*\.([a-z]{2,})(/\S*)?$`)

	// promotional/scam phrasing, mirrored from the legacy client-side filter
	keywordRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)bit\.ly`),
		regexp.MustCompile(`(?i)tinyurl`),
		regexp.MustCompile(`(?i)shorturl`),
		regexp.MustCompile(`(?i)click.*here`),
		regexp.MustCompile(`(?i)free.*money`),
		regexp.MustCompile(`(?i)win.*prize`),
		regexp.MustCompile(`(?i)urgent`),
		regexp.MustCompile(`(?i)congratulations`),
		regexp.MustCompile(`(?i)viagra`),
		regexp.MustCompile(`(?i)casino`),
		regexp.MustCompile(`(?i)lottery`),
		regexp.MustCompile(`(?i)click.*now`),
		regexp.MustCompile(`(?i)limited.*time`),
	}

	// TLDs accepted as evidence that a bare token really is a host. A sentence
	// glued across a period ("great.Thanks") must stay clean.
	bareTLDs = map[string]struct{}{
		"com": {}, "net": {}, "org": {}, "info": {}, "biz": {}, "io": {},
		"co": {}, "me": {}, "tv": {}, "xyz": {}, "online": {}, "site": {},
		"club": {}, "top": {}, "shop": {}, "link": {}, "es": {}, "ru": {},
	}
)

// Classifier is the stateless spam heuristic applied to comment text.
type Classifier struct{}

var _ domain.ContentFilter = (*Classifier)(nil)

func New() *Classifier {
	return &Classifier{}
}

// Classify runs the link detector first, then the keyword patterns.
// False negatives are acceptable; false positives block real comments, so the
// bare-host check demands either a path or a recognized TLD.
func (f *Classifier) Classify(text string) domain.Verdict {
	lower := strings.ToLower(text)

	if schemeRe.MatchString(lower) {
		return domain.Verdict{Reason: ReasonLink}
	}

	for _, token := range strings.Fields(lower) {
		token = strings.Trim(token, punctCutset)
		if token == "" {
			continue
		}
		if strings.HasPrefix(token, "www.") {
			return domain.Verdict{Reason: ReasonLink}
		}
		if m := bareHostRe.FindStringSubmatch(token); m != nil {
			hasPath := m[3] != ""
			_, knownTLD := bareTLDs[m[2]]
			if hasPath || knownTLD {
				return domain.Verdict{Reason: ReasonLink}
			}
		}
	}

	for _, re := range keywordRes {
		if re.MatchString(text) {
			return domain.Verdict{Reason: ReasonSpam}
		}
	}

	return domain.Verdict{Clean: true}
}
