package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	tests := []struct {
		in      string
		want    Priority
		wantErr bool
	}{
		{"low", PriorityLow, false},
		{"HIGH", PriorityHigh, false},
		{" medium ", PriorityMedium, false},
		{"", PriorityMedium, false},
		{"urgent", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePriority(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriority_RankAndNext(t *testing.T) {
	assert.Equal(t, 0, PriorityHigh.Rank())
	assert.Equal(t, 1, PriorityMedium.Rank())
	assert.Equal(t, 2, PriorityLow.Rank())

	assert.Equal(t, PriorityMedium, PriorityLow.Next())
	assert.Equal(t, PriorityHigh, PriorityMedium.Next())
	assert.Equal(t, PriorityLow, PriorityHigh.Next())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-02-28")
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2025, Month: time.February, Day: 28}, d)

	d, err = parseDateIn("2025-02-28T23:30:00.000Z", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-28", d.String())

	_, err = ParseDate("28/02/2025")
	assert.Error(t, err)
}

func TestParseDate_TimestampUsesLocalDay(t *testing.T) {
	tokyo := time.FixedZone("UTC+9", 9*60*60)

	// Mar 14 picked at 08:00 in Tokyo, stored as UTC.
	d, err := parseDateIn("2025-03-13T23:00:00.000Z", tokyo)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", d.String())

	d, err = parseDateIn("2025-03-13T23:00:00.000Z", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-13", d.String())

	d, err = parseDateIn("2025-03-14", tokyo)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", d.String(), "plain dates ignore the zone")
}

func TestDate_AddDaysAndCompare(t *testing.T) {
	d := Date{Year: 2024, Month: time.February, Day: 28}
	assert.Equal(t, "2024-02-29", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
	assert.Equal(t, -1, d.Compare(d.AddDays(1)))
	assert.Equal(t, 0, d.Compare(d))
	assert.Equal(t, 1, d.AddDays(1).Compare(d))
}

func TestEncode_WireFormat(t *testing.T) {
	due := Date{Year: 2025, Month: time.January, Day: 31}
	payload, err := encode([]Task{
		{ID: "1", Title: "A", Priority: PriorityLow, DueDate: &due, Category: "Work"},
		{ID: "2", Title: "B", Completed: true, Priority: PriorityHigh, Category: "Personal"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":"1","title":"A","completed":false,"priority":"low","dueDate":"2025-01-31","category":"Work"},
		{"id":"2","title":"B","completed":true,"priority":"high","dueDate":null,"category":"Personal"}
	]`, payload)
}

func TestEncode_EmptyCollectionIsArray(t *testing.T) {
	payload, err := encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", payload)
}
