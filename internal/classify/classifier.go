// Package classify provides the coarse email-category label used to gate
// routing. The trained model artifacts live behind the Classifier interface;
// the keyword classifier is the in-process fallback when no model service is
// configured.
package classify

import (
	"context"
	"strings"
)

const (
	CategorySpam             = "spam"
	CategoryPromotions       = "promotions"
	CategorySocialMedia      = "social_media"
	CategoryForum            = "forum"
	CategoryUpdates          = "updates"
	CategoryVerifyCode       = "verify_code"
	CategoryConcertPromotion = "concert_promotion"
	CategoryFlightBooking    = "flight_booking"
)

type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

type Classifier interface {
	Classify(ctx context.Context, emailText string) (*Prediction, error)
}

// IsSpam reports whether a category label should suppress all routing.
func IsSpam(label string) bool {
	return strings.EqualFold(label, CategorySpam)
}

// SchedulableCategory reports whether a category label marks the email as
// calendar-worthy on its own.
func SchedulableCategory(label string) bool {
	return label == CategoryConcertPromotion || label == CategoryFlightBooking
}

type KeywordClassifier struct {
	minConfidence float64
}

func NewKeywordClassifier(minConfidence float64) *KeywordClassifier {
	return &KeywordClassifier{minConfidence: minConfidence}
}

var categoryKeywords = map[string][]string{
	CategorySpam:             {"winner", "claim your prize", "act now", "free money", "lottery", "click here now"},
	CategoryPromotions:       {"sale", "discount", "offer", "deal", "promo", "% off", "limited time"},
	CategorySocialMedia:      {"friend request", "mentioned you", "tagged you", "new follower", "liked your"},
	CategoryForum:            {"new reply", "thread", "digest", "community", "posted in"},
	CategoryVerifyCode:       {"verification code", "verify your", "one-time password", "otp", "security code"},
	CategoryConcertPromotion: {"concert", "tickets", "live show", "tour", "performing", "gig"},
	CategoryFlightBooking:    {"flight", "itinerary", "boarding", "departure", "airline", "booking confirmation"},
}

// Classify scores every category by keyword hits and returns the best one.
// Emails matching nothing fall back to "updates" with low confidence.
func (c *KeywordClassifier) Classify(ctx context.Context, emailText string) (*Prediction, error) {
	text := strings.ToLower(emailText)

	best := &Prediction{Label: CategoryUpdates, Confidence: 0.1}
	for category, keywords := range categoryKeywords {
		hits := 0
		for _, keyword := range keywords {
			if strings.Contains(text, keyword) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		confidence := float64(hits) / float64(len(keywords))
		if confidence < c.minConfidence {
			confidence = c.minConfidence
		}
		if confidence > best.Confidence {
			best = &Prediction{Label: category, Confidence: confidence}
		}
	}
	return best, nil
}
