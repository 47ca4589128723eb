package engine

import (
	"fmt"
	"time"

	"github.com/brightpath-edu/study-scheduler-api/internal/models"
)

// ContextInput carries everything the adaptive engine reads. Intent is
// supplied explicitly by the caller so the engine stays testable without a
// rendering surface.
type ContextInput struct {
	Now           time.Time
	VisibleEvents int
	Intent        models.Intent
	Family        models.FamilyCoordination
}

// BuildAdaptiveContext derives the situational snapshot and at most two
// ranked recommendations. Recommendations are advisory annotations; they
// never block an operation.
func BuildAdaptiveContext(in ContextInput) (models.AdaptiveContext, []models.Recommendation) {
	ctx := models.AdaptiveContext{
		TimeOfDay:    timeOfDay(in.Now),
		DayType:      dayType(in.Now),
		ScheduleLoad: scheduleLoad(in.VisibleEvents),
		UserAction:   intentOrDefault(in.Intent),
		MultiChild:   in.Family.IsMultiChild,
	}

	recommendations := rankRecommendations(ctx, in)
	if len(recommendations) > 2 {
		recommendations = recommendations[:2]
	}
	return ctx, recommendations
}

// rankRecommendations emits candidates in strict priority order: family
// conflicts first, then load imbalance, then time-of-day heuristics, then
// opportunity nudges.
func rankRecommendations(ctx models.AdaptiveContext, in ContextInput) []models.Recommendation {
	var recs []models.Recommendation

	if count := len(in.Family.Conflicts); count > 0 {
		recs = append(recs, models.Recommendation{
			Priority: models.RecommendationHigh,
			Message:  fmt.Sprintf("%d overlapping family sessions need attention this week", count),
		})
	}

	if in.Family.IsMultiChild && !in.Family.LoadBalance.Balanced {
		message := "session counts are uneven across the family; consider redistributing"
		if len(in.Family.LoadBalance.Recommendations) > 0 {
			message = in.Family.LoadBalance.Recommendations[0]
		}
		recs = append(recs, models.Recommendation{
			Priority: models.RecommendationMedium,
			Message:  message,
		})
	}

	switch {
	case ctx.ScheduleLoad == models.ScheduleLoadHeavy:
		recs = append(recs, models.Recommendation{
			Priority: models.RecommendationMedium,
			Message:  "this week is packed; leave breathing room between sessions",
		})
	case ctx.TimeOfDay == models.TimeOfDayEvening && ctx.UserAction == models.IntentScheduling:
		recs = append(recs, models.Recommendation{
			Priority: models.RecommendationLow,
			Message:  "evening slots work best for short review sessions",
		})
	case ctx.TimeOfDay == models.TimeOfDayMorning && ctx.DayType == models.DayTypeWeekday:
		recs = append(recs, models.Recommendation{
			Priority: models.RecommendationLow,
			Message:  "mornings suit the harder subjects; schedule them first",
		})
	}

	if ctx.ScheduleLoad == models.ScheduleLoadLight && ctx.UserAction == models.IntentBrowsing {
		recs = append(recs, models.Recommendation{
			Priority: models.RecommendationLow,
			Message:  "the week is still light; a good moment to plan ahead",
		})
	}

	return recs
}

func timeOfDay(now time.Time) models.TimeOfDay {
	switch hour := now.Hour(); {
	case hour < 12:
		return models.TimeOfDayMorning
	case hour < 17:
		return models.TimeOfDayAfternoon
	default:
		return models.TimeOfDayEvening
	}
}

func dayType(now time.Time) models.DayType {
	if day := now.Weekday(); day == time.Saturday || day == time.Sunday {
		return models.DayTypeWeekend
	}
	return models.DayTypeWeekday
}

func scheduleLoad(visible int) models.ScheduleLoad {
	switch {
	case visible < 5:
		return models.ScheduleLoadLight
	case visible < 15:
		return models.ScheduleLoadModerate
	default:
		return models.ScheduleLoadHeavy
	}
}

func intentOrDefault(intent models.Intent) models.Intent {
	switch intent {
	case models.IntentScheduling, models.IntentOrganizing:
		return intent
	default:
		return models.IntentBrowsing
	}
}
