package extract

import "strings"

// urlVocabulary covers known partner domains, business CRM systems, and
// generic URL markers. One hit is enough to count a document as carrying
// authenticity evidence.
var urlVocabulary = []string{
	"zomato", "blinkit", "lifeline", "exotel", "swiggy", "uber", "ola", "amazon",
	"flipkart", "dunzo", "bigbasket", "grofers", "myntra", "meesho", "paytm",
	"phonepe", "gpay", "hdfc", "crm", "dynamics", "salesforce", "persistency",
	"persistence", "shipsy", "gam", "portal", "analytics", "visualize",
	"http://", "https://", "www.",
	".com", ".in", ".org", ".net", ".io", ".co", ".ai", ".tech",
}

// logoVocabulary covers generic receipt/order/branding text that appears in
// legitimate proof documents.
var logoVocabulary = []string{
	"order", "delivery", "invoice", "receipt", "bill", "lead", "policy",
	"hdfc", "life", "insurance", "visualisation", "dashboard", "analytics",
}

// ExtractBrandEvidence returns the vocabulary tokens present in text
// (case-insensitive), URL tokens first.
func ExtractBrandEvidence(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	seen := map[string]struct{}{}
	for _, vocab := range [][]string{urlVocabulary, logoVocabulary} {
		for _, token := range vocab {
			if _, ok := seen[token]; ok {
				continue
			}
			if strings.Contains(lower, token) {
				seen[token] = struct{}{}
				out = append(out, token)
			}
		}
	}
	return out
}
