package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var allStatuses = []AppointmentStatus{
	StatusPendingApproval,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
	StatusRescheduled,
}

func TestAppointmentStatus_TerminalStatesHaveNoExits(t *testing.T) {
	for _, from := range []AppointmentStatus{StatusCompleted, StatusCancelled} {
		assert.True(t, from.IsTerminal())
		for _, to := range allStatuses {
			assert.False(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestAppointmentStatus_Transitions(t *testing.T) {
	allowed := map[AppointmentStatus][]AppointmentStatus{
		StatusPendingApproval: {StatusConfirmed, StatusCancelled},
		StatusRescheduled:     {StatusConfirmed, StatusCancelled, StatusRescheduled},
		StatusConfirmed:       {StatusInProgress, StatusCompleted, StatusCancelled, StatusRescheduled},
		StatusInProgress:      {StatusCompleted},
	}
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestAppointmentStatus_PendingCannotBeRescheduled(t *testing.T) {
	assert.False(t, StatusPendingApproval.CanTransitionTo(StatusRescheduled))
	assert.True(t, StatusConfirmed.CanTransitionTo(StatusRescheduled))
}

func TestAppointmentStatus_LabelsAndParse(t *testing.T) {
	for _, st := range allStatuses {
		assert.NotEmpty(t, st.Label(), st)
		parsed, ok := ParseAppointmentStatus(string(st))
		assert.True(t, ok)
		assert.Equal(t, st, parsed)
	}
	assert.Equal(t, "Beklemede", StatusPendingApproval.Label())
	assert.Equal(t, "İptal Edildi", StatusCancelled.Label())

	_, ok := ParseAppointmentStatus("done")
	assert.False(t, ok)
}

func TestAppointmentStatus_AwaitingApproval(t *testing.T) {
	assert.True(t, StatusPendingApproval.AwaitingApproval())
	assert.True(t, StatusRescheduled.AwaitingApproval())
	assert.False(t, StatusConfirmed.AwaitingApproval())
}

func TestCompletionPhotos_Missing(t *testing.T) {
	assert.Equal(t, RequiredPhotoAngles, CompletionPhotos{}.Missing())
	assert.Empty(t, CompletionPhotos{Front: "a", Back: "b", Left: "c", Right: "d"}.Missing())
	assert.Equal(t, []PhotoAngle{PhotoRight}, CompletionPhotos{Front: "a", Back: "b", Left: "c", Interior: []string{"i"}}.Missing())
}
