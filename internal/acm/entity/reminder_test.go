package entity

import "testing"

func TestReminderRuleFor(t *testing.T) {
	tests := []struct {
		daysLeft int
		rule     string
		ok       bool
	}{
		{-30, ReminderRuleOverdue, true},
		{-1, ReminderRuleOverdue, true},
		{0, ReminderRuleDueSoon, true},
		{7, ReminderRuleDueSoon, true},
		{8, ReminderRuleUpcoming, true},
		{15, ReminderRuleUpcoming, true},
		{16, "", false},
		{365, "", false},
	}
	for _, tt := range tests {
		rule, ok := ReminderRuleFor(tt.daysLeft)
		if rule != tt.rule || ok != tt.ok {
			t.Errorf("ReminderRuleFor(%d) = (%q, %v), want (%q, %v)",
				tt.daysLeft, rule, ok, tt.rule, tt.ok)
		}
	}
}

func TestReminderSeverityRank(t *testing.T) {
	if !(ReminderSeverityRank(ReminderRuleOverdue) < ReminderSeverityRank(ReminderRuleDueSoon) &&
		ReminderSeverityRank(ReminderRuleDueSoon) < ReminderSeverityRank(ReminderRuleUpcoming)) {
		t.Error("severity ranks are not ordered overdue < due_soon < upcoming")
	}
}
