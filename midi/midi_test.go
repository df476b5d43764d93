package midi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jsphweid/chordloop/constants"
	"github.com/jsphweid/chordloop/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomidi "gitlab.com/gomidi/midi/v2"
)

type handlerSpy struct {
	events  []string
	sustain []bool
}

func (h *handlerSpy) NoteOn(n model.NoteEvent)  { h.events = append(h.events, "on "+n.Identifier) }
func (h *handlerSpy) NoteOff(n model.NoteEvent) { h.events = append(h.events, "off "+n.Identifier) }
func (h *handlerSpy) Sustain(down bool)         { h.sustain = append(h.sustain, down) }

func TestDispatch(t *testing.T) {
	h := &handlerSpy{}
	Dispatch(gomidi.NoteOn(0, 60, 100), h)
	Dispatch(gomidi.NoteOn(3, 61, 0), h)
	Dispatch(gomidi.NoteOff(0, 60), h)
	Dispatch(gomidi.ControlChange(0, 64, 127), h)
	Dispatch(gomidi.ControlChange(0, 64, 0), h)
	Dispatch(gomidi.ControlChange(0, 7, 127), h)
	Dispatch(gomidi.ProgramChange(0, 5), h)

	assert.Equal(t, []string{"on C4", "off C#4", "off C4"}, h.events)
	assert.Equal(t, []bool{true, false}, h.sustain)
}

func TestReadMidiFileErrors(t *testing.T) {
	_, err := ReadMidiFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.Error(t, err)

	garbage := filepath.Join(t.TempDir(), "garbage.mid")
	require.NoError(t, os.WriteFile(garbage, []byte("definitely not midi"), 0644))
	_, err = ReadMidiFile(garbage)
	assert.Error(t, err)
}

func TestExportThenScan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progression.mid")
	progression := model.Progression{
		model.NewChord("C", "", 2),
		model.NewChord("F", "", 0),
		model.NewChord("F", "", 2),
		model.NewChord("G", "7", 2),
	}
	require.NoError(t, ExportFile(path, progression, 120, 4))

	chords, err := ScanFile(path, constants.DebounceWindow)
	require.NoError(t, err)
	require.Len(t, chords, 3)

	assert.Equal(t, "C", chords[0].Root)
	assert.Equal(t, "", chords[0].Quality)
	assert.Equal(t, model.Notes{"C3", "E3", "G3"}, chords[0].Notes)
	assert.Equal(t, "F", chords[1].Root)
	assert.Equal(t, model.Notes{"F3", "A3", "C4"}, chords[1].Notes)
	assert.Equal(t, "G", chords[2].Root)
	assert.Equal(t, "7", chords[2].Quality)
}

func TestChangesTiming(t *testing.T) {
	path := filepath.Join(t.TempDir(), "one.mid")
	require.NoError(t, ExportFile(path, model.Progression{model.NewChord("A", "m", 1)}, 60, 4))

	s, err := ReadMidiFile(path)
	require.NoError(t, err)
	changes := Changes(s)
	require.Len(t, changes, 6)

	for _, c := range changes[:3] {
		assert.False(t, c.IsNoteOff)
		assert.Equal(t, int64(0), c.Offset.Milliseconds())
	}
	for _, c := range changes[3:] {
		assert.True(t, c.IsNoteOff)
		assert.Equal(t, int64(900), c.Offset.Milliseconds())
	}
	assert.Equal(t, "A3", changes[0].Note.Identifier)
}
