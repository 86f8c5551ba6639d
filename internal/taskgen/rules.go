package taskgen

import "github.com/mtran/planhub/internal/model"

// defaultRules is the built-in keyword table. Order matters: earlier
// rules shadow later ones when keywords overlap.
var defaultRules = []Rule{
	{
		Name:     "website",
		Keywords: []string{"website", "web site", "landing page", "webpage"},
		Tasks: []model.TemplateTask{
			{Title: "Draft sitemap and content outline", Priority: model.PriorityHigh, Effort: 2, EstimatedHours: 3},
			{Title: "Design page layouts", Priority: model.PriorityHigh, Effort: 3, EstimatedHours: 8},
			{Title: "Build pages", Priority: model.PriorityMedium, Effort: 4, EstimatedHours: 16},
			{Title: "Cross-browser and mobile review", Priority: model.PriorityMedium, Effort: 2, EstimatedHours: 4},
			{Title: "Launch and announce", Priority: model.PriorityUrgent, Effort: 1, EstimatedHours: 2},
		},
	},
	{
		Name:     "marketing",
		Keywords: []string{"marketing", "campaign", "promotion", "ads"},
		Tasks: []model.TemplateTask{
			{Title: "Define audience and goals", Priority: model.PriorityHigh, Effort: 2, EstimatedHours: 3},
			{Title: "Write copy and creative brief", Priority: model.PriorityHigh, Effort: 3, EstimatedHours: 6},
			{Title: "Set up channels and schedule", Priority: model.PriorityMedium, Effort: 2, EstimatedHours: 4},
			{Title: "Run campaign", Priority: model.PriorityMedium, Effort: 3, EstimatedHours: 8},
			{Title: "Measure results", Priority: model.PriorityLow, Effort: 2, EstimatedHours: 3},
		},
	},
	{
		Name:     "event",
		Keywords: []string{"event", "meetup", "conference", "workshop", "party"},
		Tasks: []model.TemplateTask{
			{Title: "Pick date and venue", Priority: model.PriorityUrgent, Effort: 2, EstimatedHours: 4},
			{Title: "Send invitations", Priority: model.PriorityHigh, Effort: 1, EstimatedHours: 2},
			{Title: "Arrange catering and equipment", Priority: model.PriorityMedium, Effort: 3, EstimatedHours: 6},
			{Title: "Run the event", Priority: model.PriorityHigh, Effort: 4, EstimatedHours: 8},
			{Title: "Follow up with attendees", Priority: model.PriorityLow, Effort: 1, EstimatedHours: 2},
		},
	},
	{
		Name:     "report",
		Keywords: []string{"report", "research", "analysis", "study"},
		Tasks: []model.TemplateTask{
			{Title: "Collect source material", Priority: model.PriorityHigh, Effort: 2, EstimatedHours: 4},
			{Title: "Analyze findings", Priority: model.PriorityHigh, Effort: 3, EstimatedHours: 8},
			{Title: "Write draft", Priority: model.PriorityMedium, Effort: 3, EstimatedHours: 6},
			{Title: "Review and publish", Priority: model.PriorityMedium, Effort: 2, EstimatedHours: 3},
		},
	},
	{
		Name:     "release",
		Keywords: []string{"release", "deploy", "ship", "launch"},
		Tasks: []model.TemplateTask{
			{Title: "Freeze scope and tag release candidate", Priority: model.PriorityHigh, Effort: 1, EstimatedHours: 1},
			{Title: "Run regression checks", Priority: model.PriorityUrgent, Effort: 3, EstimatedHours: 6},
			{Title: "Write release notes", Priority: model.PriorityMedium, Effort: 1, EstimatedHours: 2},
			{Title: "Deploy and verify", Priority: model.PriorityUrgent, Effort: 2, EstimatedHours: 3},
		},
	},
}
