// internal/extraction/money.go
package extraction

import (
	"regexp"
	"strconv"
	"strings"
)

// Confidence tiers for the money topics.
const (
	confExact       = 0.9 // keyword-anchored number
	confApproximate = 0.7 // number without a topic keyword anchor
	confRelative    = 0.5 // "low/middle/high income" phrasing
	confVague       = 0.4 // "make good money" phrasing
	confUnparsable  = 0.3 // matched digits that fail to parse
)

// Keyword-anchored numeric patterns. The trailing group captures a shorthand
// suffix so the multiplier applies only when it directly follows the number.
var (
	incomeAmountRe   = regexp.MustCompile(`(?:income|make|earn|salary)\s+(?:is|was|of|at|are)?\s*(?:about|around|approximately|roughly)?\s*[\$£€]?\s*(\d[,\d]*(?:\.\d+)?)\s*(thousand|million|k|m)?\b`)
	expensesAmountRe = regexp.MustCompile(`(?:expenses|spending|costs|bills)\s+(?:is|are|of|was)?\s*(?:about|around|approximately|roughly)?\s*[\$£€]?\s*(\d[,\d]*(?:\.\d+)?)\s*(thousand|million|k|m)?\b`)
	savingsAmountRe  = regexp.MustCompile(`(?:savings|saved|save|reserve)\s+(?:is|are|of|was)?\s*(?:about|around|approximately|roughly)?\s*[\$£€]?\s*(\d[,\d]*(?:\.\d+)?)\s*(thousand|million|k|m)?\b`)
	debtAmountRe     = regexp.MustCompile(`(?:debt|loan|credit|owe)\s+(?:is|of|was|about)?\s*(?:about|around|approximately|roughly)?\s*[\$£€]?\s*(\d[,\d]*(?:\.\d+)?)\s*(thousand|million|k|m)?\b`)

	approxAmountRe   = regexp.MustCompile(`(?:about|around|approximately|roughly)\s+[\$£€]?\s*\d[,\d]*(?:\.\d+)?\s*(?:thousand|million|k|m)?`)
	relativeIncomeRe = regexp.MustCompile(`(?:low|middle|high)\s+(?:income|earner)`)
	vagueIncomeRe    = regexp.MustCompile(`(?:make|earn|salary)\s+(?:good|great|decent|lot)`)
)

var debtTypeTerms = []string{
	"mortgage", "student loan", "car loan", "auto loan", "credit card", "personal loan",
}

var debtFreeTerms = []string{
	"no debt", "debt free", "debt-free", "no loans", "paid off",
}

// Income extracts an annual income figure.
func Income(text string) Result {
	text = strings.ToLower(text)
	if res, ok := matchAmount(incomeAmountRe, text); ok {
		return res
	}
	if approxAmountRe.MatchString(text) {
		return Result{Confidence: confApproximate}
	}
	if relativeIncomeRe.MatchString(text) {
		return Result{Confidence: confRelative}
	}
	if vagueIncomeRe.MatchString(text) {
		return Result{Confidence: confVague}
	}
	return Result{}
}

// Expenses extracts a monthly expenses figure.
func Expenses(text string) Result {
	text = strings.ToLower(text)
	if res, ok := matchAmount(expensesAmountRe, text); ok {
		return res
	}
	return Result{}
}

// Savings extracts a total savings figure.
func Savings(text string) Result {
	text = strings.ToLower(text)
	if res, ok := matchAmount(savingsAmountRe, text); ok {
		return res
	}
	return Result{}
}

// Debt extracts a debt figure, a named debt type, or a debt-free statement.
func Debt(text string) Result {
	text = strings.ToLower(text)
	if res, ok := matchAmount(debtAmountRe, text); ok {
		return res
	}
	if containsAny(text, debtTypeTerms) {
		return Result{Confidence: 0.7}
	}
	if containsAny(text, debtFreeTerms) {
		return Result{Confidence: 0.8}
	}
	return Result{}
}

func matchAmount(re *regexp.Regexp, text string) (Result, bool) {
	groups := re.FindStringSubmatch(text)
	if groups == nil {
		return Result{}, false
	}
	raw := strings.ReplaceAll(groups[1], ",", "")
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Result{Confidence: confUnparsable}, true
	}
	switch groups[2] {
	case "k", "thousand":
		amount *= 1_000
	case "m", "million":
		amount *= 1_000_000
	}
	return Result{Confidence: confExact, Amount: amount}, true
}
