package gemini

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFences(t *testing.T) {
	bare := `{"recommended_hospital_id": 2}`

	assert.Equal(t, bare, stripCodeFences(bare))
	assert.Equal(t, bare, stripCodeFences("```json\n"+bare+"\n```"))
	assert.Equal(t, bare, stripCodeFences("```\n"+bare+"\n```"))
	assert.Equal(t, bare, stripCodeFences("Here you go:\n```json\n"+bare+"\n```\nLet me know!"))
}

func TestFacilityIDFromRaw(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int64
		ok   bool
	}{
		{"number", `2`, 2, true},
		{"quoted number", `"7"`, 7, true},
		{"prose", `"Hospital 2"`, 2, true},
		{"list of numbers", `[3, 1]`, 3, true},
		{"list of prose", `["Hospital 4"]`, 4, true},
		{"no digits", `"the closest one"`, 0, false},
		{"empty list", `[]`, 0, false},
		{"null", `null`, 0, false},
		{"object", `{"id": 2}`, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := facilityIDFromRaw(json.RawMessage(tc.raw))
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, id)
			}
		})
	}
}

func TestFacilityIDFromRaw_Missing(t *testing.T) {
	_, ok := facilityIDFromRaw(nil)
	assert.False(t, ok)
}

func TestScoreFromRaw(t *testing.T) {
	assert.Equal(t, 7, scoreFromRaw(json.RawMessage(`7`), 1, 10, 5))
	assert.Equal(t, 7, scoreFromRaw(json.RawMessage(`"7"`), 1, 10, 5))

	// Out-of-range values clamp instead of failing.
	assert.Equal(t, 10, scoreFromRaw(json.RawMessage(`42`), 1, 10, 5))
	assert.Equal(t, 1, scoreFromRaw(json.RawMessage(`0`), 1, 10, 5))

	// Absent or unusable values fall back to the default.
	assert.Equal(t, 5, scoreFromRaw(nil, 1, 10, 5))
	assert.Equal(t, 5, scoreFromRaw(json.RawMessage(`"very urgent"`), 1, 10, 5))
	assert.Equal(t, 5, scoreFromRaw(json.RawMessage(`null`), 1, 10, 5))
}
