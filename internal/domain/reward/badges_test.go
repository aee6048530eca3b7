package reward

import "testing"

func TestBadgeFor(t *testing.T) {
	tests := []struct {
		streak int
		want   string
	}{
		{0, ""},
		{2, ""},
		{3, "Bronze Saver"},
		{6, "Bronze Saver"},
		{7, "Silver Saver"},
		{29, "Silver Saver"},
		{30, "Gold Saver"},
		{365, "Gold Saver"},
	}

	for _, tt := range tests {
		got := BadgeFor(tt.streak)
		name := ""
		if got != nil {
			name = got.Name
		}
		if name != tt.want {
			t.Errorf("BadgeFor(%d) = %q, want %q", tt.streak, name, tt.want)
		}
	}
}

func TestAchievements(t *testing.T) {
	list := Achievements(7)
	if len(list) != 6 {
		t.Fatalf("Achievements() returned %d entries, want 6", len(list))
	}

	unlocked := 0
	for _, a := range list {
		if a.Unlocked {
			unlocked++
		}
	}
	if unlocked != 3 {
		t.Errorf("unlocked at streak 7 = %d, want 3", unlocked)
	}
}

func TestCurrentAchievement(t *testing.T) {
	tests := []struct {
		streak       int
		want         string
		wantUnlocked bool
	}{
		{0, "Beginner", false},
		{1, "Beginner", true},
		{13, "Committed", true},
		{14, "Dedicated", true},
		{90, "Legend", true},
	}

	for _, tt := range tests {
		got := CurrentAchievement(tt.streak)
		if got.Name != tt.want || got.Unlocked != tt.wantUnlocked {
			t.Errorf("CurrentAchievement(%d) = %s/%v, want %s/%v", tt.streak, got.Name, got.Unlocked, tt.want, tt.wantUnlocked)
		}
	}
}

func TestNextAchievement(t *testing.T) {
	next, days, ok := NextAchievement(10)
	if !ok {
		t.Fatal("NextAchievement(10) ok = false, want true")
	}
	if next.Name != "Dedicated" || days != 4 {
		t.Errorf("NextAchievement(10) = %s in %d days, want Dedicated in 4", next.Name, days)
	}

	if _, _, ok := NextAchievement(60); ok {
		t.Error("NextAchievement(60) ok = true, want false")
	}
}
