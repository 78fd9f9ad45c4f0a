package trading

import (
	"context" // Context for store calls
	"fmt"     // Error wrapping

	"github.com/sirupsen/logrus" // Logging

	"token_swipe/internal/domain" // Domain models
	"token_swipe/internal/errs"   // Error taxonomy
)

// Step names one stage of a like.
type Step string

// Like stages, in execution order.
const (
	StepPreference Step = "preference"
	StepBuy        Step = "buy"
)

// StepResult reports whether a stage ran and how it ended.
type StepResult struct {
	Attempted bool
	Err       error
}

// Succeeded reports a stage that ran without error.
func (r StepResult) Succeeded() bool { return r.Attempted && r.Err == nil }

// LikeOutcome is the per-stage record of a like. The preference can be recorded
// while the buy failed; the token then leaves the feed without a holding.
type LikeOutcome struct {
	TokenID    string
	Preference StepResult
	Buy        StepResult
	Holding    *domain.Holding
}

// PreferenceRecorded reports whether the liked preference was written.
func (o LikeOutcome) PreferenceRecorded() bool { return o.Preference.Succeeded() }

// FailedStep returns the first stage that failed, or "" when all ran cleanly.
func (o LikeOutcome) FailedStep() Step {
	switch {
	case o.Preference.Err != nil:
		return StepPreference
	case o.Buy.Err != nil:
		return StepBuy
	}
	return ""
}

// Like writes a liked preference and then buys the token with the default spend.
// The buy is skipped when the preference write fails. A failed buy leaves the
// preference in place.
func (e *Engine) Like(ctx context.Context, user *domain.Identity, tokenID string) (LikeOutcome, error) {
	outcome := LikeOutcome{TokenID: tokenID}
	if user == nil {
		return outcome, fmt.Errorf("like %s: %w", tokenID, errs.ErrUnauthenticated)
	}
	log := e.log.WithFields(logrus.Fields{"user_id": user.UserID, "token_id": tokenID})

	outcome.Preference.Attempted = true
	if err := e.preferences.SetPreference(ctx, user.UserID, tokenID, domain.Liked); err != nil {
		outcome.Preference.Err = err
		log.WithError(err).Error("Like failed at preference step")
		return outcome, fmt.Errorf("like %s: %s step: %w", tokenID, StepPreference, err)
	}

	outcome.Buy.Attempted = true
	holding, err := e.Buy(ctx, user, tokenID)
	if err != nil {
		outcome.Buy.Err = err
		log.WithError(err).Warn("Like recorded but buy failed")
		return outcome, fmt.Errorf("like %s: %s step: %w", tokenID, StepBuy, err)
	}
	outcome.Holding = holding

	log.Info("Token liked")
	return outcome, nil
}
