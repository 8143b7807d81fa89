package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskFilter_Query(t *testing.T) {
	yes := true
	f := TaskFilter{
		Title:            "  report ",
		Responsible:      " ",
		Priority:         PriorityHigh,
		DeadlineFrom:     NewDate(2025, time.March, 1),
		OnlyNotConcluded: &yes,
	}

	q := f.Query()
	assert.Equal(t, "report", q.Get("title"))
	assert.False(t, q.Has("responsible"))
	assert.Equal(t, "ALTA", q.Get("priority"))
	assert.Equal(t, "2025-03-01", q.Get("deadlineFrom"))
	assert.False(t, q.Has("deadlineTo"))
	assert.Equal(t, "true", q.Get("onlyNotConcluded"))
}

func TestTaskFilter_EmptyQuery(t *testing.T) {
	assert.Empty(t, TaskFilter{}.Query())
}

func TestParsePriority(t *testing.T) {
	tests := map[string]Priority{"alta": PriorityHigh, "HIGH": PriorityHigh, "media": PriorityMedium, "low": PriorityLow, "BAIXA": PriorityLow}
	for in, want := range tests {
		got, err := ParsePriority(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParsePriority("urgent")
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("done")
	require.NoError(t, err)
	assert.Equal(t, StatusDone, s)

	s, err = ParseStatus("EM_ANDAMENTO")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, s)

	_, err = ParseStatus("paused")
	assert.Error(t, err)
}

func TestTask_DecodeFromAPI(t *testing.T) {
	raw := `{"id":3,"title":"Write docs","description":null,"priority":"ALTA","deadline":"2025-05-10",
		"status":"EM_ANDAMENTO","responsible":"","responsibleId":null,"createdAt":"x","updatedAt":"y"}`

	var task Task
	require.NoError(t, json.Unmarshal([]byte(raw), &task))
	assert.Equal(t, int64(3), task.ID)
	assert.Nil(t, task.Description)
	assert.False(t, task.HasResponsible())
	assert.False(t, task.IsDone())
	assert.Equal(t, "10/05/2025", task.Deadline.FormatBR())
}

func TestUpdateTaskRequest_OnlySetFieldsAreSent(t *testing.T) {
	id := int64(9)
	b, err := json.Marshal(UpdateTaskRequest{ResponsibleUserID: &id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"responsibleUserId":9}`, string(b))
}
