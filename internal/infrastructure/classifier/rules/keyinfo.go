package rules

import (
	"regexp"
	"strings"

	"github.com/xichaow/document-classification/internal/core/domain"
)

var (
	dateRe  = regexp.MustCompile(`\b\d{1,2}[-/]\d{1,2}[-/]\d{2,4}\b`)
	moneyRe = regexp.MustCompile(`\$[\d,]+\.?\d*`)

	accountRes = []*regexp.Regexp{
		regexp.MustCompile(`account\s+number[:\s]+([*\d-]+)`),
		regexp.MustCompile(`account[:\s]+([*\d-]+)`),
	}
)

// ExtractKeyInfo pulls dates, dollar amounts and category-specific fields
// out of document text. Best effort: missing fields are simply absent, and
// an empty extraction returns nil.
func ExtractKeyInfo(text string, category domain.Category) *domain.KeyInfo {
	var info domain.KeyInfo

	if dates := dateRe.FindAllString(text, 3); len(dates) > 0 {
		info.Dates = dates
	}
	if amounts := moneyRe.FindAllString(text, 5); len(amounts) > 0 {
		info.Amounts = amounts
	}

	if category == domain.CategoryBankStatement {
		normalized := strings.ToLower(text)
		for _, re := range accountRes {
			if m := re.FindStringSubmatch(normalized); len(m) == 2 {
				info.AccountNumber = m[1]
				break
			}
		}
	}

	if info.Dates == nil && info.Amounts == nil && info.AccountNumber == "" {
		return nil
	}
	return &info
}
