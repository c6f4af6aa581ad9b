package insight

import (
	"fmt"
	"strings"
)

// Rule maps a category keyword set and anomaly direction to a canned
// recommendation. Rules are evaluated in order, first match wins.
type Rule struct {
	Keywords  []string
	Direction Direction
	Message   string
}

// rules is the fixed category playbook. The entity label is matched
// case-insensitively by substring against each keyword.
var rules = []Rule{
	{
		Keywords:  []string{"beauty", "cosmetic"},
		Direction: Spike,
		Message:   "**Opportunity:** Viral trend or influencer mention? Check social mentions and ensure shelf availability.",
	},
	{
		Keywords:  []string{"electronic", "tech"},
		Direction: Spike,
		Message:   "**Opportunity:** New product launch or tech event? Consider bundling accessories for this high-demand period.",
	},
	{
		Keywords:  []string{"clothing", "fashion"},
		Direction: Spike,
		Message:   "**Opportunity:** Seasonal shift? Double down on similar styles in your upcoming marketing campaign.",
	},
	{
		Keywords:  []string{"beauty", "cosmetic"},
		Direction: Dip,
		Message:   "**Risk:** Stock-out or competitor sale? Verify inventory levels and check for regional price wars.",
	},
	{
		Keywords:  []string{"electronic", "tech"},
		Direction: Dip,
		Message:   "**Risk:** Supply chain delay? Monitor shipping logs and provide proactive updates to waiting customers.",
	},
	{
		Keywords:  []string{"clothing", "fashion"},
		Direction: Dip,
		Message:   "**Risk:** Out-of-season inventory? Consider a flash clearance to move slow-moving stock.",
	},
}

// Recommend picks the canned strategy for an entity label and anomaly
// direction. Unmatched categories fall back to a generic message
// parameterized by magnitude.
func Recommend(entityLabel string, direction Direction, magnitude float64) string {
	label := strings.ToLower(entityLabel)
	for _, rule := range rules {
		if rule.Direction != direction {
			continue
		}
		for _, kw := range rule.Keywords {
			if strings.Contains(label, kw) {
				return rule.Message
			}
		}
	}

	if direction == Spike {
		return fmt.Sprintf("**Opportunity:** Unusual %.1fx growth! Analyze marketing channels and consider extending current promotions.", magnitude)
	}
	return "**Risk:** Sales dropped significantly below expected levels. Check for data entry errors or operational disruptions."
}
