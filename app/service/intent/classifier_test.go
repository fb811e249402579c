package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifierMatch(t *testing.T) {
	classifier := NewClassifier()

	tests := []struct {
		name     string
		text     string
		expected Intent
		hit      bool
	}{
		{"product list english", "What are your products?", ProductList, true},
		{"product list arabic", "ما هي منتجاتك؟", ProductList, true},
		{"refund english", "I want a refund for this", Refund, true},
		{"return english", "How do I return an item?", Refund, true},
		{"refund arabic", "أريد استرجاع المنتج", Refund, true},
		{"order english", "Where is my order?", Order, true},
		{"order hash", "status of #12345", Order, true},
		{"order arabic", "ما حالة طلبي", Order, true},
		{"summary english", "Give me a summary", Summary, true},
		{"summary arabic", "أعطني ملخص المحادثة", Summary, true},
		{"product price", "how much is the price?", Product, true},
		{"product arabic", "كم سعر السماعات", Product, true},
		{"no match", "hello there", Fallback, false},
		{"empty", "", Fallback, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			matched, hit := classifier.Match(tt.text)
			assert.Equal(t, tt.expected, matched)
			assert.Equal(t, tt.hit, hit)
		})
	}
}

func TestClassifierPriority(t *testing.T) {
	classifier := NewClassifier()

	// "refund my order" mentions both; refund wins like the original chain.
	matched, hit := classifier.Match("I want to refund my order")
	require.True(t, hit)
	assert.Equal(t, Refund, matched)

	// The catalog trigger wins over the generic product keyword.
	matched, hit = classifier.Match("show products")
	require.True(t, hit)
	assert.Equal(t, ProductList, matched)
}

func TestNormalizeDigits(t *testing.T) {
	assert.Equal(t, "12345", NormalizeDigits("١٢٣٤٥"))
	assert.Equal(t, "order 90", NormalizeDigits("order ٩0"))
	assert.Equal(t, "no digits", NormalizeDigits("no digits"))
}

func TestExtractOrderID(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"plain", "my order id is 12345", "12345"},
		{"hash prefix", "track #54321 please", "54321"},
		{"spaced", "order 12 345", "12345"},
		{"dashed", "1-2-3-4-5", "12345"},
		{"dotted", "12.345", "12345"},
		{"arabic digits", "رقم الطلب ٥٤٣٢١", "54321"},
		{"too short", "order 1234", ""},
		{"no digits", "where is my order", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractOrderID(tt.text))
		})
	}
}

func TestCleanMessage(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"lead-in english", "Tell me more about the Aurora Headphones please", "the aurora headphones"},
		{"lead-in only", "tell me more", ""},
		{"lead-in arabic", "أخبرني عن السماعات", "السماعات"},
		{"plain", "Aurora Headphones", "aurora headphones"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanMessage(tt.text))
		})
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("order"))
	assert.True(t, Valid("fallback"))
	assert.False(t, Valid("banana"))
	assert.False(t, Valid(""))
}
