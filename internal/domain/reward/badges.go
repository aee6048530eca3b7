package reward

// Badge is the saver tier shown next to the streak counter.
type Badge struct {
	Name     string `json:"name"`
	MinDays  int    `json:"minDays"`
	ColorKey string `json:"colorKey"`
}

var badges = []Badge{
	{Name: "Gold Saver", MinDays: 30, ColorKey: "warning"},
	{Name: "Silver Saver", MinDays: 7, ColorKey: "muted"},
	{Name: "Bronze Saver", MinDays: 3, ColorKey: "primary"},
}

// BadgeFor returns the highest badge earned by streak, or nil below Bronze.
func BadgeFor(streak int) *Badge {
	for _, b := range badges {
		if streak >= b.MinDays {
			b := b
			return &b
		}
	}
	return nil
}

type Achievement struct {
	Name        string `json:"name"`
	MinStreak   int    `json:"minStreak"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

var achievementLadder = []Achievement{
	{Name: "Beginner", MinStreak: 1, Description: "Started your journey!"},
	{Name: "Consistent", MinStreak: 3, Description: "3 days streak"},
	{Name: "Committed", MinStreak: 7, Description: "7 days on fire!"},
	{Name: "Dedicated", MinStreak: 14, Description: "2 weeks strong"},
	{Name: "Champion", MinStreak: 30, Description: "30 days champion!"},
	{Name: "Legend", MinStreak: 60, Description: "2 months legend!"},
}

// Achievements returns the full ladder with Unlocked set for streak.
func Achievements(streak int) []Achievement {
	out := make([]Achievement, len(achievementLadder))
	for i, a := range achievementLadder {
		a.Unlocked = streak >= a.MinStreak
		out[i] = a
	}
	return out
}

// CurrentAchievement is the highest unlocked rung; Beginner when none is unlocked.
func CurrentAchievement(streak int) Achievement {
	current := achievementLadder[0]
	for _, a := range achievementLadder {
		if streak >= a.MinStreak {
			current = a
		}
	}
	current.Unlocked = streak >= current.MinStreak
	return current
}

// NextAchievement returns the first locked rung and the days still needed.
// ok is false once Legend is reached.
func NextAchievement(streak int) (next Achievement, daysRemaining int, ok bool) {
	for _, a := range achievementLadder {
		if streak < a.MinStreak {
			return a, a.MinStreak - streak, true
		}
	}
	return Achievement{}, 0, false
}
