package reward

import "time"

const (
	FirstActivityPoints = 10
	SameDayPoints       = 5
	DailyPoints         = 10
)

// DaysBetween returns the number of calendar days from one to two,
// with both instants read in two's location.
func DaysBetween(from, to time.Time) int {
	loc := to.Location()
	fy, fm, fd := from.In(loc).Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// DayBounds returns midnight of t's calendar day and midnight of the next day, in t's location.
func DayBounds(t time.Time) (start, end time.Time) {
	y, m, d := t.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}

// ApplyStreakUpdate computes the rewards row that results from crediting
// activity to current. A nil current means the user has no row yet.
// The input is never modified.
func ApplyStreakUpdate(current *Rewards, activity Activity, policy Policy) Rewards {
	if policy == PolicyNetBalanceGated {
		return applyNetBalanceGated(current, activity)
	}
	return applyConsecutiveDay(current, activity)
}

func applyConsecutiveDay(current *Rewards, activity Activity) Rewards {
	if current == nil {
		return Rewards{
			Points:         FirstActivityPoints,
			LifetimePoints: FirstActivityPoints,
			Streak:         1,
			LastUpdate:     activity.At,
		}
	}

	next := *current
	next.LastUpdate = activity.At

	switch days := DaysBetween(current.LastUpdate, activity.At); {
	case days <= 0:
		next.addPoints(SameDayPoints)
	case days == 1:
		next.addPoints(DailyPoints)
		next.Streak++
	default:
		next.addPoints(DailyPoints)
		next.Streak = 1
	}

	return next
}

func applyNetBalanceGated(current *Rewards, activity Activity) Rewards {
	positive := !activity.DailyNet.IsNegative()

	if current == nil {
		r := Rewards{LastUpdate: activity.At}
		if positive {
			r.addPoints(FirstActivityPoints)
			r.Streak = 1
		}
		return r
	}

	if DaysBetween(current.LastUpdate, activity.At) < 1 {
		return *current
	}

	next := *current
	next.LastUpdate = activity.At
	if positive {
		next.addPoints(DailyPoints)
		next.Streak++
	} else {
		next.Streak = 0
	}
	return next
}

func (r *Rewards) addPoints(n int) {
	r.Points += n
	r.LifetimePoints += n
}

// CurrentStreak is the streak as it should be displayed at now: a gap of
// more than one day means the streak has already lapsed even though the
// stored row is only reset on the next qualifying action.
func (r *Rewards) CurrentStreak(now time.Time) int {
	if r == nil {
		return 0
	}
	if DaysBetween(r.LastUpdate, now) > 1 {
		return 0
	}
	return r.Streak
}
