package constants

import (
	"os"
	"time"
)

func GetConfigPath() string {
	path := os.Getenv("CHORDLOOP_CONFIG")
	if path != "" {
		return path
	}
	return "./chordloop.yaml"
}

func GetProgressionPath() string {
	path := os.Getenv("PROGRESSION_PATH")
	if path != "" {
		return path
	}
	return "./out/progression.dat"
}

// how long every key has to be up before the last held set is analyzed
const DebounceWindow = 50 * time.Millisecond

// margin added after the last chord when sizing the timeline
const TimelineMarginBeats = 4

const DynamoTable = "chordloop-progressions"

const DefaultServeAddr = ":8080"
