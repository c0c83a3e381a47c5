package service

import (
	"testing"

	"fitcollab/fitness-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffProfile_NoChangesYieldsNoMessages(t *testing.T) {
	existing := &domain.User{Name: "Ana", Email: "ana@example.com", City: "Lisbon"}
	submitted := *existing

	assert.Empty(t, DiffProfile(existing, &submitted))
}

func TestDiffProfile_OneMessagePerChangedField(t *testing.T) {
	existing := &domain.User{
		Name:  "Ana",
		Email: "ana@example.com",
		City:  "Lisbon",
		Phone: "111",
	}
	submitted := &domain.User{
		Name:  "Ana Silva",
		Email: "ana@example.com",
		City:  "Porto",
		Phone: "222",
	}

	messages := DiffProfile(existing, submitted)
	assert.Len(t, messages, 3)
}

func TestDiffProfile_MessageFormat(t *testing.T) {
	existing := &domain.User{City: "Lisbon"}
	submitted := &domain.User{City: "Porto"}

	messages := DiffProfile(existing, submitted)
	require.Len(t, messages, 1)
	assert.Equal(t, "The field city has been changed from Lisbon to Porto", messages[0])
}

func TestDiffProfile_MessagesFollowDeclaredFieldOrder(t *testing.T) {
	existing := &domain.User{Name: "Ana", City: "Lisbon", BirthDate: "1990-01-01"}
	submitted := &domain.User{Name: "Bia", City: "Porto", BirthDate: "1991-02-02"}

	messages := DiffProfile(existing, submitted)
	require.Len(t, messages, 3)
	assert.Equal(t, "The field name has been changed from Ana to Bia", messages[0])
	assert.Equal(t, "The field city has been changed from Lisbon to Porto", messages[1])
	assert.Equal(t, "The field birthDate has been changed from 1990-01-01 to 1991-02-02", messages[2])
}

func TestDiffProfile_ClearingAFieldIsAChange(t *testing.T) {
	existing := &domain.User{Phone: "111"}
	submitted := &domain.User{}

	messages := DiffProfile(existing, submitted)
	require.Len(t, messages, 1)
	assert.Equal(t, "The field phone has been changed from 111 to ", messages[0])
}
