package models

// TimeOfDay buckets wall-clock time for the adaptive engine.
type TimeOfDay string

const (
	TimeOfDayMorning   TimeOfDay = "morning"
	TimeOfDayAfternoon TimeOfDay = "afternoon"
	TimeOfDayEvening   TimeOfDay = "evening"
)

// DayType separates weekdays from weekends.
type DayType string

const (
	DayTypeWeekday DayType = "weekday"
	DayTypeWeekend DayType = "weekend"
)

// ScheduleLoad buckets the density of the visible date range.
type ScheduleLoad string

const (
	ScheduleLoadLight    ScheduleLoad = "light"
	ScheduleLoadModerate ScheduleLoad = "moderate"
	ScheduleLoadHeavy    ScheduleLoad = "heavy"
)

// Intent is the user's current activity, supplied explicitly by the
// presentation layer so the engine never reads UI internals.
type Intent string

const (
	IntentBrowsing   Intent = "browsing"
	IntentScheduling Intent = "scheduling"
	IntentOrganizing Intent = "organizing"
)

// AdaptiveContext is the engine's situational snapshot.
type AdaptiveContext struct {
	TimeOfDay    TimeOfDay    `json:"time_of_day"`
	DayType      DayType      `json:"day_type"`
	ScheduleLoad ScheduleLoad `json:"schedule_load"`
	UserAction   Intent       `json:"user_action"`
	MultiChild   bool         `json:"multi_child"`
}

// RecommendationPriority ranks advisory recommendations.
type RecommendationPriority string

const (
	RecommendationHigh   RecommendationPriority = "high"
	RecommendationMedium RecommendationPriority = "medium"
	RecommendationLow    RecommendationPriority = "low"
)

// Recommendation is a ranked, human-readable nudge. Advisory only; it never
// blocks an operation.
type Recommendation struct {
	Priority RecommendationPriority `json:"priority"`
	Message  string                 `json:"message"`
}
