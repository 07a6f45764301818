package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadingStatus_Next(t *testing.T) {
	assert.Equal(t, StatusReading, StatusNotStarted.Next())
	assert.Equal(t, StatusCompleted, StatusReading.Next())
	assert.Equal(t, StatusNotStarted, StatusCompleted.Next())
	assert.Equal(t, StatusNotStarted, ReadingStatus("Abandoned").Next())
}

func TestParseReadingStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected ReadingStatus
	}{
		{"Not Started", StatusNotStarted},
		{"not_started", StatusNotStarted},
		{" READING ", StatusReading},
		{"completed", StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseReadingStatus(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := ParseReadingStatus("abandoned")
	assert.Error(t, err)
}

func TestReadingStatus_SlugAndEmoji(t *testing.T) {
	assert.Equal(t, "not_started", StatusNotStarted.Slug())
	assert.Equal(t, "📕", StatusNotStarted.Emoji())
	assert.Equal(t, "📘", StatusReading.Emoji())
	assert.Equal(t, "📗", StatusCompleted.Emoji())
	assert.Len(t, AllReadingStatuses(), 3)
}

func TestBook_UnmarshalStatus(t *testing.T) {
	var book Book
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Emma","author":"Jane Austen","status":"","synopsis":null}`), &book))
	assert.Equal(t, StatusNotStarted, book.Status)
	assert.Nil(t, book.Synopsis)

	err := json.Unmarshal([]byte(`{"status":"Shelved"}`), &book)
	assert.Error(t, err)
}

func TestBook_CloneSharesNoPointers(t *testing.T) {
	book := NewBook("Emma", "Jane Austen")
	book.Synopsis = StringPtr("Matchmaking in Highbury.")

	clone := book.Clone()
	*clone.Synopsis = "changed"

	assert.Equal(t, "Matchmaking in Highbury.", *book.Synopsis)
	assert.True(t, book.SameWork(clone))
	assert.False(t, book.SameWork(NewBook("Emma", "J. Austen")))
}
