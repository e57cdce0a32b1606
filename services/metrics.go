package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/charleybodyf1rst/BodyF1rst-Backend-CLEAN-sub001/models"
)

// Metric is the numeric dimension a leaderboard ranks by.
type Metric string

const (
	MetricPoints   Metric = "points"
	MetricWorkouts Metric = "workouts"
	// MetricStreak ranks by the current overall streak and ignores the period
	// parameter entirely: a current streak has no historical-window meaning.
	MetricStreak         Metric = "streak"
	MetricAchievements   Metric = "achievements"
	MetricActiveMinutes  Metric = "active_minutes"
	MetricCaloriesBurned Metric = "calories_burned"
)

// Period is the time window a metric is aggregated over.
type Period string

const (
	PeriodAllTime Period = "all_time"
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
	PeriodYear    Period = "year"
)

// Scope is the population a leaderboard ranks over.
type Scope string

const (
	ScopeGlobal       Scope = "global"
	ScopeOrganization Scope = "organization"
	ScopeFriends      Scope = "friends"
)

// ParseMetric maps a request string onto a metric. Unrecognized values
// degrade to points rather than failing.
func ParseMetric(s string) Metric {
	switch Metric(s) {
	case MetricPoints, MetricWorkouts, MetricStreak, MetricAchievements, MetricActiveMinutes, MetricCaloriesBurned:
		return Metric(s)
	default:
		return MetricPoints
	}
}

// ParsePeriod maps a request string onto a period, degrading to all_time.
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodAllTime, PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
		return Period(s)
	default:
		return PeriodAllTime
	}
}

// ParseScope maps a request string onto a scope, degrading to global.
func ParseScope(s string) Scope {
	switch Scope(s) {
	case ScopeGlobal, ScopeOrganization, ScopeFriends:
		return Scope(s)
	default:
		return ScopeGlobal
	}
}

// periodStart returns the inclusive lower bound of a rolling window ending
// now. ok is false for the unbounded all-time period.
func periodStart(p Period, now time.Time) (start time.Time, ok bool) {
	switch p {
	case PeriodWeek:
		return now.AddDate(0, 0, -7), true
	case PeriodMonth:
		return now.AddDate(0, -1, 0), true
	case PeriodQuarter:
		return now.AddDate(0, -3, 0), true
	case PeriodYear:
		return now.AddDate(-1, 0, 0), true
	default:
		return time.Time{}, false
	}
}

type userValueRow struct {
	UserID uint    `gorm:"column:user_id"`
	Value  float64 `gorm:"column:value"`
}

// metricValues computes one value per candidate user, with the aggregation
// pushed to SQL GROUP BY rather than per-user queries.
func metricValues(db *gorm.DB, streaks *StreakEngine, userIDs []uint, metric Metric, period Period, now time.Time) (map[uint]float64, error) {
	if len(userIDs) == 0 {
		return map[uint]float64{}, nil
	}

	if metric == MetricStreak {
		current, err := streaks.OverallStreaks(userIDs)
		if err != nil {
			return nil, err
		}
		out := make(map[uint]float64, len(current))
		for id, v := range current {
			out[id] = float64(v)
		}
		return out, nil
	}

	start, bounded := periodStart(period, now)

	var rows []userValueRow
	var err error
	switch metric {
	case MetricPoints:
		if bounded {
			q := db.Model(&models.PointsEntry{}).
				Select("user_id, COALESCE(SUM(points),0) AS value").
				Where("user_id IN ? AND created_at >= ?", userIDs, start).
				Group("user_id")
			err = q.Scan(&rows).Error
		} else {
			// All-time points read the materialized running counter.
			err = db.Model(&models.User{}).
				Select("id AS user_id, body_points AS value").
				Where("id IN ?", userIDs).
				Scan(&rows).Error
		}
	case MetricWorkouts:
		q := db.Model(&models.WorkoutSession{}).
			Select("user_id, COUNT(*) AS value").
			Where("user_id IN ? AND completed = ?", userIDs, true).
			Group("user_id")
		if bounded {
			q = q.Where("performed_at >= ?", start)
		}
		err = q.Scan(&rows).Error
	case MetricAchievements:
		q := db.Model(&models.UserAchievement{}).
			Select("user_id, COUNT(*) AS value").
			Where("user_id IN ?", userIDs).
			Group("user_id")
		if bounded {
			q = q.Where("unlocked_at >= ?", start)
		}
		err = q.Scan(&rows).Error
	case MetricActiveMinutes:
		q := db.Model(&models.WorkoutSession{}).
			Select("user_id, COALESCE(SUM(duration_minutes),0) AS value").
			Where("user_id IN ? AND completed = ?", userIDs, true).
			Group("user_id")
		if bounded {
			q = q.Where("performed_at >= ?", start)
		}
		err = q.Scan(&rows).Error
	case MetricCaloriesBurned:
		q := db.Model(&models.WorkoutSession{}).
			Select("user_id, COALESCE(SUM(calories_burned),0) AS value").
			Where("user_id IN ? AND completed = ?", userIDs, true).
			Group("user_id")
		if bounded {
			q = q.Where("performed_at >= ?", start)
		}
		err = q.Scan(&rows).Error
	}
	if err != nil {
		return nil, err
	}

	out := make(map[uint]float64, len(rows))
	for _, r := range rows {
		out[r.UserID] = r.Value
	}
	return out, nil
}
