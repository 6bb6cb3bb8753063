package model

// SeedTasks returns the built-in task list. It doubles as the local-only
// fallback and as the one-time remote seed when the tasks table is empty, so
// the hard-coded ids 1..36 are part of the contract.
func SeedTasks() []Task {
	seed := []Task{
		{ID: 1, Text: "Reply to landlord about the lease renewal", Category: CategoryPersonal, Priority: PriorityCritical, Duration: "15m"},
		{ID: 2, Text: "Pay electricity bill", Category: CategoryPersonal, Priority: PriorityCritical, Duration: "5m"},
		{ID: 3, Text: "Finish the quarterly report draft", Category: CategoryWork, Priority: PriorityCritical, Duration: "2h"},
		{ID: 4, Text: "Book dentist appointment", Category: CategoryHealth, Priority: PriorityQuickWin, Duration: "5m"},
		{ID: 5, Text: "Unsubscribe from old newsletters", Category: CategoryPersonal, Priority: PriorityQuickWin, Duration: "10m"},
		{ID: 6, Text: "Order printer ink", Category: CategoryHome, Priority: PriorityQuickWin, Duration: "5m"},
		{ID: 7, Text: "Prepare slides for Monday standup", Category: CategoryWork, Priority: PriorityHigh, Duration: "45m"},
		{ID: 8, Text: "Review pull requests from the team", Category: CategoryWork, Priority: PriorityHigh, Duration: "1h"},
		{ID: 9, Text: "Write follow-up email to the client", Category: CategoryWork, Priority: PriorityMedium, Duration: "20m"},
		{ID: 10, Text: "Clean up project board", Category: CategoryWork, Priority: PriorityLow, Duration: "30m"},
		{ID: 11, Text: "Plan next week's meals", Category: CategoryHome, Priority: PriorityMedium, Duration: "30m"},
		{ID: 12, Text: "Fix the kitchen cabinet hinge", Category: CategoryHome, Priority: PriorityLow, Duration: "1h"},
		{ID: 13, Text: "Deep-clean the car interior", Category: CategoryHome, Priority: PriorityLow, Duration: "1h"},
		{ID: 14, Text: "Renew gym membership", Category: CategoryHealth, Priority: PriorityMedium, Duration: "10m"},
		{ID: 15, Text: "Schedule annual checkup", Category: CategoryHealth, Priority: PriorityMedium, Duration: "10m"},
		{ID: 16, Text: "Research standing desk options", Category: CategoryHealth, Priority: PriorityLow, Duration: "30m"},
		{ID: 17, Text: "Finish chapter 4 of the Go book", Category: CategoryLearning, Priority: PriorityMedium, Duration: "1h"},
		{ID: 18, Text: "Watch the saved distributed-systems talk", Category: CategoryLearning, Priority: PriorityLow, Duration: "45m"},
		{ID: 19, Text: "Practice Arabic vocabulary deck", Category: CategoryLearning, Priority: PriorityMedium, Duration: "20m"},
		{ID: 20, Text: "Set up the side-project repo", Category: CategoryLearning, Priority: PriorityHigh, Duration: "30m"},
		{ID: 21, Text: "Review Surah Al-Mulk memorization", Category: CategoryDeen, Priority: PriorityHigh, Duration: "30m"},
		{ID: 22, Text: "Read tafsir of this week's juz", Category: CategoryDeen, Priority: PriorityMedium, Duration: "45m"},
		{ID: 23, Text: "Prepare Friday khutbah notes", Category: CategoryDeen, Priority: PriorityMedium, Duration: "1h"},
		{ID: 24, Text: "Donate to the masjid fundraiser", Category: CategoryDeen, Priority: PriorityQuickWin, Duration: "5m"},
		{ID: 25, Text: "Call parents", Category: CategoryPersonal, Priority: PriorityHigh, Duration: "30m", PinnedToToday: true},
		{ID: 26, Text: "Submit expense report", Category: CategoryWork, Priority: PriorityMedium, Duration: "15m", PinnedToToday: true},
		{ID: 27, Text: "Pick up the dry cleaning", Category: CategoryHome, Priority: PriorityLow, Duration: "20m", PinnedToToday: true},
		{ID: 28, Text: "Morning adhkar", Category: CategoryStreaks, Priority: PriorityMedium, Duration: "10m", IsStreak: true},
		{ID: 29, Text: "Evening adhkar", Category: CategoryStreaks, Priority: PriorityMedium, Duration: "10m", IsStreak: true},
		{ID: 30, Text: "Read one page of Quran", Category: CategoryStreaks, Priority: PriorityHigh, Duration: "10m", IsStreak: true},
		{ID: 31, Text: "30 minutes of exercise", Category: CategoryStreaks, Priority: PriorityMedium, Duration: "30m", IsStreak: true},
		{ID: 32, Text: "No phone after 10pm", Category: CategoryStreaks, Priority: PriorityLow, Duration: "—", IsStreak: true},
		{ID: 33, Text: "Journal three lines", Category: CategoryStreaks, Priority: PriorityLow, Duration: "5m", IsStreak: true},
		{ID: 34, Text: "idea: automate the weekly review", Category: CategoryVoiceInbox, Priority: PriorityLow, Duration: "—"},
		{ID: 35, Text: "look into that budgeting app Hamza mentioned", Category: CategoryVoiceInbox, Priority: PriorityLow, Duration: "—"},
		{ID: 36, Text: "gift idea for Aisha's graduation", Category: CategoryVoiceInbox, Priority: PriorityLow, Duration: "—"},
	}

	for i := range seed {
		if seed[i].IsStreak && seed[i].StreakTarget == 0 {
			seed[i].StreakTarget = DefaultStreakTarget
		}
	}
	return seed
}
