package chord

import (
	"testing"

	"github.com/jsphweid/chordloop/model"
	"github.com/stretchr/testify/assert"
)

func TestVoiceInversions(t *testing.T) {
	cases := []struct {
		inversion int
		want      []string
	}{
		{0, []string{"C3", "E3", "G3"}},
		{1, []string{"E3", "G3", "C4"}},
		{2, []string{"G3", "C4", "E4"}},
		{3, []string{"C4", "E4", "G4"}},
		{-1, []string{"G2", "C3", "E3"}},
	}
	for _, tc := range cases {
		c := model.Chord{Root: "C", Quality: "", Inversion: tc.inversion, Duration: 2}
		assert.Equal(t, tc.want, Voice(c, nil), "inversion %d", tc.inversion)
	}
}

func TestVoiceExtendedChord(t *testing.T) {
	c := model.Chord{Root: "C", Quality: "maj9", Duration: 2}
	assert.Equal(t, []string{"C3", "E3", "G3", "B3", "D4"}, Voice(c, nil))
}

func TestVoiceFollowsPreviousRoot(t *testing.T) {
	c := model.Chord{Root: "F", Quality: "", Duration: 2}
	assert.Equal(t, []string{"F4", "A4", "C5"}, Voice(c, []string{"G4", "B4", "D5"}))
}

func TestVoiceUsesRecordedNotes(t *testing.T) {
	c := model.Chord{Root: "C", Quality: "", Notes: []string{"G3", "E4", "C5"}}
	assert.Equal(t, []string{"G3", "E4", "C5"}, Voice(c, nil))
}

func TestVoiceUnknown(t *testing.T) {
	assert.Nil(t, Voice(model.Chord{Root: "C", Quality: "weird"}, nil))
	assert.Nil(t, Voice(model.Chord{Root: "H", Quality: "m"}, nil))
}
