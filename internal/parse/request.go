package parse

import (
	"regexp"

	"frontdesk-backend/internal/model"
)

// Checked in order; the first match wins.
var requestPatterns = []struct {
	typ model.RequestType
	re  *regexp.Regexp
}{
	{model.RequestWater, regexp.MustCompile(`(?i)\b(water|refill|glass(es)?|drinks?)\b`)},
	{model.RequestNapkins, regexp.MustCompile(`(?i)\b(napkins?|tissues?|serviettes?)\b`)},
	{model.RequestCleaning, regexp.MustCompile(`(?i)\b(clean(ing|\s+up)?|spill(ed)?|wipe|mess)\b`)},
	{model.RequestAssistance, regexp.MustCompile(`(?i)\b(help|waiter|assist(ance)?|staff|manager|call)\b`)},
}

// ClassifyRequest guesses the request type from a guest's free-text message.
func ClassifyRequest(message string) model.RequestType {
	for _, p := range requestPatterns {
		if p.re.MatchString(message) {
			return p.typ
		}
	}
	return model.RequestOther
}

// Priority ranks request types for display, lower first. Water is the most urgent.
func Priority(t model.RequestType) int {
	switch t {
	case model.RequestWater:
		return 0
	case model.RequestCleaning:
		return 1
	case model.RequestAssistance:
		return 2
	default:
		return 3
	}
}
