package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "05/03/2025", want: NewDate(2025, time.March, 5)},
		{in: "2025-03-05", want: NewDate(2025, time.March, 5)},
		{in: " 31/12/2024 ", want: NewDate(2024, time.December, 31)},
		{in: "31/02/2024", wantErr: true},
		{in: "tomorrow", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestDate_Formats(t *testing.T) {
	d := NewDate(2025, time.January, 7)
	assert.Equal(t, "07/01/2025", d.FormatBR())
	assert.Equal(t, "2025-01-07", d.String())
	assert.Empty(t, Date{}.FormatBR())
}

func TestDate_JSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2025, time.June, 30))
	require.NoError(t, err)
	assert.Equal(t, `"2025-06-30"`, string(b))

	b, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(b))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-06-30T00:00:00Z"`), &d))
	assert.Equal(t, "2025-06-30", d.String())

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"30/06/2025"`), &d))
}

func TestDate_UnmarshalJSON_TrailingText(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-04-02 10:30:00"`), &d))
	assert.Equal(t, "2025-04-02", d.String())

	for _, in := range []string{`"2025-04-02garbage"`, `"2025-04-021"`, `"2025-04-02Z"`} {
		assert.Error(t, json.Unmarshal([]byte(in), &d), in)
	}
}

func TestDateOf_DropsTimeOfDay(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	d := DateOf(time.Date(2025, time.April, 2, 23, 30, 0, 0, loc))
	assert.Equal(t, "2025-04-02", d.String())
	assert.True(t, d.Before(NewDate(2025, time.April, 3)))
	assert.True(t, d.After(NewDate(2025, time.April, 1)))
}
