package intent

import (
	"regexp"
	"strings"
)

// keywordRule matches when any of its lowercased phrases occurs in the text.
type keywordRule struct {
	intent  Intent
	phrases []string
}

// Classifier is the pre-LLM layer: trigger phrases and keyword tables only,
// never the network. Rules are checked in priority order.
type Classifier struct {
	rules []keywordRule
}

func NewClassifier() *Classifier {
	return &Classifier{
		rules: []keywordRule{
			{
				intent: ProductList,
				phrases: []string{
					"what are your products", "show products", "products?",
					"list products", "all products", "product list",
					"المنتجات", "ما هي منتجاتك", "عرض المنتجات", "قائمة المنتجات",
				},
			},
			{
				intent: Refund,
				phrases: []string{
					"refund", "return",
					"استرجاع", "استرداد", "إرجاع", "ارجاع",
				},
			},
			{
				intent: Order,
				phrases: []string{
					"order", "#", "track", "delivery",
					"طلب", "تتبع", "التسليم", "توصيل",
				},
			},
			{
				intent: Summary,
				phrases: []string{
					"summary", "summarize", "ملخص",
				},
			},
			{
				intent: Product,
				phrases: []string{
					"product", "price",
					"منتج", "سعر", "كم ثمن",
				},
			},
		},
	}
}

// Match returns the first intent whose keyword table hits, or (Fallback, false).
func (c *Classifier) Match(text string) (Intent, bool) {
	lower := strings.ToLower(text)

	for _, rule := range c.rules {
		for _, phrase := range rule.phrases {
			if strings.Contains(lower, phrase) {
				return rule.intent, true
			}
		}
	}

	return Fallback, false
}

var arabicDigits = map[rune]rune{
	'٠': '0', '١': '1', '٢': '2', '٣': '3', '٤': '4',
	'٥': '5', '٦': '6', '٧': '7', '٨': '8', '٩': '9',
}

// NormalizeDigits maps Arabic-Indic digits to ASCII.
func NormalizeDigits(msg string) string {
	return strings.Map(func(r rune) rune {
		if d, ok := arabicDigits[r]; ok {
			return d
		}
		return r
	}, msg)
}

var (
	orderIDPattern  = regexp.MustCompile(`\d[\s.\-]?\d[\s.\-]?\d[\s.\-]?\d[\s.\-]?\d`)
	orderSeparators = regexp.MustCompile(`[\s.\-]`)
)

// ExtractOrderID finds a five-digit order id, tolerating space, dot and dash
// separators and Arabic-Indic digits. Returns "" when no id is present.
func ExtractOrderID(msg string) string {
	msg = NormalizeDigits(msg)

	found := orderIDPattern.FindString(msg)
	if found == "" {
		return ""
	}

	clean := orderSeparators.ReplaceAllString(found, "")
	if len(clean) != 5 {
		return ""
	}

	return clean
}

// Politeness and lead-in phrases stripped before product resolution.
// Longer phrases first so that substrings don't leave fragments behind.
var leadInPhrases = []string{
	"can you tell me about",
	"tell me more about",
	"can you tell me",
	"tell me about",
	"tell me more",
	"please",
	"pls",

	"أخبرني أكثر عن",
	"اخبرني اكثر عن",
	"أخبرني عن",
	"اخبرني عن",
	"هل يمكنك شرح",
	"من فضلك",
	"لو سمحت",
}

// CleanMessage lowercases the message and strips lead-in phrases, leaving
// the part that names a product.
func CleanMessage(msg string) string {
	text := strings.ToLower(msg)

	for _, p := range leadInPhrases {
		text = strings.ReplaceAll(text, p, "")
	}

	return strings.TrimSpace(text)
}
