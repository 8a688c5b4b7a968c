package ledger

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	typePrefixRe = regexp.MustCompile(`^(消费|支付|转账|退款|退货)[:：\-\s]*`)
	separatorRe  = regexp.MustCompile(`[\s\-_]+`)
)

// NormalizeMerchant derives the merchant comparison key used by refund
// matching. The merchant name is preferred over the description; leading
// transaction-type prefixes are stripped and separators collapsed.
func NormalizeMerchant(merchant, description string) string {
	text := merchant
	if text == "" {
		text = description
	}
	if text == "" {
		return ""
	}

	text = typePrefixRe.ReplaceAllString(text, "")
	text = separatorRe.ReplaceAllString(text, "")
	return strings.ToLower(strings.TrimSpace(text))
}

// maskedOrPersonal reports whether a raw merchant string looks like an
// anonymized or person-name counterparty: it contains a masking marker
// ("张**"), or is a short run of 2-4 ideographic characters.
func maskedOrPersonal(s string) bool {
	if s == "" {
		return false
	}
	if strings.Contains(s, "**") {
		return true
	}
	runes := []rune(s)
	if len(runes) < 2 || len(runes) > 4 {
		return false
	}
	for _, r := range runes {
		if !unicode.Is(unicode.Han, r) {
			return false
		}
	}
	return true
}
