package llm

import "strings"

// Canned notices shown in place of a reply when the completion call fails.
const (
	QuotaNotice       = "API error: insufficient quota. Please add billing/credit to your OpenAI account and try again."
	RateLimitNotice   = "API error: rate limit hit. Please wait a few seconds and try again."
	InvalidKeyNotice  = "API error: invalid API key. Double-check and paste a valid key."
	backendErrorLabel = "Backend error: "
)

type failureRule struct {
	substrings []string
	message    string
}

// failureRules is checked top to bottom and the first match wins. Order
// matters: an insufficient_quota error from OpenAI also carries a 429.
var failureRules = []failureRule{
	{substrings: []string{"insufficient_quota", "quota"}, message: QuotaNotice},
	{substrings: []string{"Rate limit", "429"}, message: RateLimitNotice},
	{substrings: []string{"invalid_api_key"}, message: InvalidKeyNotice},
}

// ClassifyFailure turns the text of a failed completion call into the message
// shown to the user. Unrecognized errors are passed through verbatim.
func ClassifyFailure(errText string) string {
	for _, rule := range failureRules {
		for _, sub := range rule.substrings {
			if strings.Contains(errText, sub) {
				return rule.message
			}
		}
	}
	return backendErrorLabel + errText
}
