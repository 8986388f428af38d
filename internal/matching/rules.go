package matching

import (
	"strings"

	"jobscout/internal/profile"
)

// fieldRule answers a common identity, salary or work-authorization field
// from the databank's structured records instead of the free-form bank.
type fieldRule struct {
	name    string
	matches func(lower string) bool
	value   func(bank *profile.Databank) string
}

// fieldRules run in order and the first hit wins, so the more specific rules
// sit above the general ones: "last name" must be classified before a bare
// "name" question reaches the full-name rule.
var fieldRules = []fieldRule{
	{
		name: "first_name",
		matches: func(q string) bool {
			return strings.Contains(q, "first name") && !strings.Contains(q, "last")
		},
		value: func(b *profile.Databank) string { return firstName(b.PersonalInfo.FullName) },
	},
	{
		name: "last_name",
		matches: anyOf("last name", "surname", "family name"),
		value:   func(b *profile.Databank) string { return lastName(b.PersonalInfo.FullName) },
	},
	{
		name:    "full_name",
		matches: anyOf("your name", "full name", "name"),
		value:   func(b *profile.Databank) string { return b.PersonalInfo.FullName },
	},
	{
		name:    "email",
		matches: anyOf("email", "e-mail"),
		value:   func(b *profile.Databank) string { return b.PersonalInfo.Email },
	},
	{
		name:    "phone",
		matches: anyOf("phone", "telephone", "mobile", "contact number"),
		value:   func(b *profile.Databank) string { return b.PersonalInfo.Phone },
	},
	{
		name:    "location",
		matches: anyOf("location", "address", "city", "where do you live"),
		value:   func(b *profile.Databank) string { return b.PersonalInfo.Location },
	},
	{
		name:    "linkedin",
		matches: anyOf("linkedin"),
		value:   func(b *profile.Databank) string { return b.PersonalInfo.LinkedIn },
	},
	{
		name:    "salary",
		matches: anyOf("salary", "compensation", "pay", "wage", "expected"),
		value:   func(b *profile.Databank) string { return b.Salary.ExpectedSalary },
	},
	{
		name:    "work_authorization",
		matches: anyOf("eligible to work", "right to work", "authorization", "authorised to work", "authorized to work"),
		value:   func(b *profile.Databank) string { return b.WorkAuthorization.EligibleToWork },
	},
	{
		name:    "sponsorship",
		matches: anyOf("sponsor", "visa"),
		value:   func(b *profile.Databank) string { return b.WorkAuthorization.RequireSponsorship },
	},
	{
		name:    "notice_period",
		matches: anyOf("notice period", "start date", "when can you start"),
		value:   func(b *profile.Databank) string { return b.WorkAuthorization.NoticePeriod },
	},
}

func anyOf(needles ...string) func(string) bool {
	return func(q string) bool {
		for _, needle := range needles {
			if strings.Contains(q, needle) {
				return true
			}
		}
		return false
	}
}

func firstName(full string) string {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

func lastName(full string) string {
	parts := strings.Fields(full)
	if len(parts) < 2 {
		return ""
	}
	return strings.Join(parts[1:], " ")
}
