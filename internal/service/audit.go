package service

import (
	"fmt"

	"fitcollab/fitness-app/internal/domain"
)

// trackedProfileFields is the fixed, ordered list of profile scalars the
// audit diff recorder watches. Adding a field here is the only change
// needed to start tracking it.
var trackedProfileFields = []struct {
	name string
	get  func(*domain.User) string
}{
	{"name", func(u *domain.User) string { return u.Name }},
	{"email", func(u *domain.User) string { return u.Email }},
	{"street", func(u *domain.User) string { return u.Street }},
	{"number", func(u *domain.User) string { return u.Number }},
	{"zipCode", func(u *domain.User) string { return u.ZipCode }},
	{"city", func(u *domain.User) string { return u.City }},
	{"state", func(u *domain.User) string { return u.State }},
	{"sex", func(u *domain.User) string { return u.Sex }},
	{"phone", func(u *domain.User) string { return u.Phone }},
	{"birthDate", func(u *domain.User) string { return u.BirthDate }},
}

// DiffProfile compares the tracked scalars of the persisted user against the
// submitted one, in declared order, and returns one audit message per
// changed field. The caller appends these as history events in the same
// transaction as the profile save.
func DiffProfile(existing, submitted *domain.User) []string {
	var messages []string
	for _, field := range trackedProfileFields {
		oldVal := field.get(existing)
		newVal := field.get(submitted)
		if oldVal != newVal {
			messages = append(messages,
				fmt.Sprintf("The field %s has been changed from %s to %s", field.name, oldVal, newVal))
		}
	}
	return messages
}
