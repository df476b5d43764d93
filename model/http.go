package model

type IdentifyRequestBody struct {
	Notes []string `json:"notes"`
}

type IdentifyResponse struct {
	Chord *Chord `json:"chord"`
	Name  string `json:"name,omitempty"`
}

type InversionRequestBody struct {
	Inversion int `json:"inversion"`
}

type SeekRequestBody struct {
	Beat float64 `json:"beat"`
}

type TempoRequestBody struct {
	BPM float64 `json:"bpm"`
}

type TransportResponse struct {
	Playing      bool    `json:"playing"`
	CurrentIndex int     `json:"current_index"`
	SeekBeat     float64 `json:"seek_beat"`
	TotalBeats   float64 `json:"total_beats"`
	BPM          float64 `json:"bpm"`
	Looping      bool    `json:"looping"`
	Metronome    bool    `json:"metronome"`
}

type DetectedResponse struct {
	Chord *Chord   `json:"chord"`
	Held  []string `json:"held"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

type AddChordRequestBody struct {
	Root      string   `json:"root"`
	Quality   string   `json:"quality"`
	Inversion int      `json:"inversion"`
	Duration  *float64 `json:"duration"`
	Notes     []string `json:"notes"`
}

type TransportSettingsBody struct {
	Looping       *bool  `json:"looping"`
	Metronome     *bool  `json:"metronome"`
	TimeSignature string `json:"time_signature"`
}
