package model

// ClaimType categorizes the nature of an extracted claim
type ClaimType string

const (
	ClaimTypeEvent        ClaimType = "event"
	ClaimTypeAnnouncement ClaimType = "announcement"
	ClaimTypeNumber       ClaimType = "number"
	ClaimTypeDecision     ClaimType = "decision"
	ClaimTypeSafety       ClaimType = "safety"
	ClaimTypeOther        ClaimType = "other"
)

// Claim is a discrete factual assertion extracted from the transcript for
// independent verification. Claims below confidence 0.5 are discarded at
// extraction time.
type Claim struct {
	Text       string    `json:"text"`
	Type       ClaimType `json:"type"`
	Airline    string    `json:"airline,omitempty"`
	Confidence float64   `json:"confidence"`
}

// VerificationStatus is the outcome of checking one claim or a whole
// transcript against news sources
type VerificationStatus string

const (
	StatusVerified     VerificationStatus = "verified"
	StatusContradicted VerificationStatus = "contradicted"
	StatusPartial      VerificationStatus = "partial"
	StatusUnverified   VerificationStatus = "unverified"
	StatusUnclear      VerificationStatus = "unclear"
)

// VerifiedClaim is a claim supported by at least one article
type VerifiedClaim struct {
	Claim              string    `json:"claim"`
	Confidence         float64   `json:"confidence"`
	SupportingArticles []Article `json:"supportingArticles"`
}

// UnverifiedClaim is a claim with no matching coverage
type UnverifiedClaim struct {
	Claim  string `json:"claim"`
	Reason string `json:"reason"`
}

// ContradictedClaim is a claim the coverage disputes
type ContradictedClaim struct {
	Claim                 string    `json:"claim"`
	Reason                string    `json:"reason,omitempty"`
	ContradictingArticles []Article `json:"contradictingArticles"`
}

// CorrelationResult is the news-verification block of an analysis record
type CorrelationResult struct {
	AccuracyScore      float64             `json:"accuracyScore"`
	CorrelationScore   float64             `json:"correlationScore"` // Same value, legacy field name
	IsCorrect          bool                `json:"isCorrect"`
	VerificationStatus VerificationStatus  `json:"verificationStatus"`
	VerifiedClaims     []VerifiedClaim     `json:"verifiedClaims"`
	UnverifiedClaims   []UnverifiedClaim   `json:"unverifiedClaims"`
	ContradictedClaims []ContradictedClaim `json:"contradictingClaims"`
	TotalClaims        int                 `json:"totalClaims"`
	VerifiedCount      int                 `json:"verifiedCount"`
	ContradictedCount  int                 `json:"contradictedCount"`
	MatchedArticles    []Article           `json:"matchedArticles"`
	SupportingRefs     []Reference         `json:"supportingReferences"`
	Error              string              `json:"error,omitempty"`
}

// UnverifiedCorrelation is the degraded block used when correlation cannot run
func UnverifiedCorrelation(errMsg string) *CorrelationResult {
	return &CorrelationResult{
		VerificationStatus: StatusUnverified,
		VerifiedClaims:     []VerifiedClaim{},
		UnverifiedClaims:   []UnverifiedClaim{},
		ContradictedClaims: []ContradictedClaim{},
		MatchedArticles:    []Article{},
		SupportingRefs:     []Reference{},
		Error:              errMsg,
	}
}
