package scoring

import (
	"strings"

	"jobscout/internal/jobs"
	"jobscout/internal/profile"
)

// Criterion names double as weight keys in the profile's scoring section.
const (
	CriterionRequiredSkills  = "required_skills"
	CriterionPreferredSkills = "preferred_skills"
	CriterionLocation        = "location"
	CriterionTitleRelevance  = "title_relevance"
)

// neutralScore is used when the profile provides no data for a criterion, so
// incomplete profiles are not penalized.
const neutralScore = 50

var defaultWeights = map[string]float64{
	CriterionRequiredSkills:  0.40,
	CriterionPreferredSkills: 0.25,
	CriterionLocation:        0.20,
	CriterionTitleRelevance:  0.15,
}

// titleKeywords mark a job title as role-relevant.
var titleKeywords = []string{"developer", "engineer", "software", "programmer", "coding"}

// criterion is a single named scoring rule producing a sub-score in [0,100].
type criterion struct {
	name string
	eval func(user *profile.User, job *jobs.Posting, blob string) float64
}

// criteria is the ordered rule table behind the weighted sum. New criteria
// are added here and given a default weight above; the scorer itself never
// hardcodes a rule.
var criteria = []criterion{
	{CriterionRequiredSkills, scoreRequiredSkills},
	{CriterionPreferredSkills, scorePreferredSkills},
	{CriterionLocation, scoreLocation},
	{CriterionTitleRelevance, scoreTitleRelevance},
}

// mergeWeights overlays profile-supplied weights on the defaults. Only
// individual missing entries default; callers guarantee the profile exists.
func mergeWeights(overrides map[string]float64) map[string]float64 {
	weights := make(map[string]float64, len(defaultWeights))
	for name, weight := range defaultWeights {
		weights[name] = weight
	}
	for name, weight := range overrides {
		weights[name] = weight
	}
	return weights
}

func scoreRequiredSkills(user *profile.User, _ *jobs.Posting, blob string) float64 {
	return scoreSkillList(user.Skills.Required, blob)
}

func scorePreferredSkills(user *profile.User, _ *jobs.Posting, blob string) float64 {
	return scoreSkillList(user.Skills.Preferred, blob)
}

// scoreSkillList returns the fraction of skills found in the text scaled to
// 100, or the neutral score for an empty list.
func scoreSkillList(skills []string, blob string) float64 {
	if len(skills) == 0 {
		return neutralScore
	}

	matches := 0
	for _, skill := range skills {
		if strings.Contains(blob, strings.ToLower(skill)) {
			matches++
		}
	}
	return float64(matches) / float64(len(skills)) * 100
}

// scoreLocation applies the mutually exclusive location tiers: 100 for a
// preferred location, 50 for an acceptable one, otherwise 0. A posting with
// no location data falls through both tiers.
func scoreLocation(user *profile.User, job *jobs.Posting, _ string) float64 {
	location := strings.ToLower(job.Location)

	if containsAny(location, user.Locations.Preferred) {
		return 100
	}
	if containsAny(location, user.Locations.Acceptable) {
		return 50
	}
	return 0
}

func scoreTitleRelevance(_ *profile.User, job *jobs.Posting, _ string) float64 {
	if containsAny(strings.ToLower(job.Title), titleKeywords) {
		return 100
	}
	return neutralScore
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
