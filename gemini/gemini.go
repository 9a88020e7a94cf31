// Package gemini implements [cascade.Transport] for the Google Gemini API.
//
// It wraps the google.golang.org/genai SDK. API failures surface as
// [cascade.StatusError] values carrying the HTTP code the SDK reports.
package gemini

import "github.com/fwojciec/cascade"

const defaultMaxTokens = 8192

// Catalog is the built-in cascade over Gemini models, strongest first.
var Catalog = cascade.MustCatalog(
	cascade.Backend{
		ID:          "gemini-2.5-pro",
		DisplayName: "Gemini 2.5 Pro",
		Description: "Deep reasoning over long context.",
		Quota:       cascade.QuotaLow,
		Quality:     cascade.QualityHighest,
		Priority:    1,
	},
	cascade.Backend{
		ID:          "gemini-2.5-flash",
		DisplayName: "Gemini 2.5 Flash",
		Description: "Balanced speed and quality.",
		Quota:       cascade.QuotaMedium,
		Quality:     cascade.QualityHigh,
		Priority:    2,
	},
	cascade.Backend{
		ID:          "gemini-2.5-flash-lite",
		DisplayName: "Gemini 2.5 Flash-Lite",
		Description: "Cheapest fallback with the largest quota.",
		Quota:       cascade.QuotaHigh,
		Quality:     cascade.QualityStandard,
		Priority:    3,
	},
)
