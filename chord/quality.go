package chord

import (
	"strings"

	"golang.org/x/exp/slices"
)

// Quality is a chord quality. Each one owns a single interval formula; alternative
// spellings of its label resolve to it in ParseQuality.
type Quality int

const (
	Major Quality = iota
	Minor
	Diminished
	Augmented
	Power
	Sus2
	Sus4
	Dom7Sus2
	Dom7Sus4
	Dom9Sus4
	Dom13Sus4
	Add9
	MinorAdd9
	Major6
	Minor6
	SixNine
	Dom7
	Major7
	Minor7
	Diminished7
	HalfDiminished7
	MinorMajor7
	Major7Flat5
	Major7Sharp5
	Major7Sharp11
	Dom7Flat5
	Dom7Sharp5
	Dom7Flat9
	Dom7Flat13
	Dom7Sharp9
	Dom7Sharp11
	Dom7Flat9Flat5
	Dom7Flat9Sharp5
	Dom7Sharp9Flat5
	Dom7Sharp9Sharp5
	Dom7Flat9Sharp9
	Dom7Flat9Sharp11
	Dom7Sharp9Sharp11
	Dom7Flat9Flat13
	Dom7Sharp9Flat13
	Dom9
	Major9
	Minor9
	Dom11
	Minor11
	Dom13
	Dom13Sharp11
	Minor13
	Major13
)

type formula struct {
	quality Quality
	symbol  string
	name    string
	// voicing intervals, may reach past the octave (14 = ninth)
	intervals []int
	aliases   []string

	fingerprint []int
}

var formulas = []formula{
	{quality: Major, symbol: "", name: "major", intervals: []int{0, 4, 7}, aliases: []string{"M", "maj"}},
	{quality: Minor, symbol: "m", name: "minor", intervals: []int{0, 3, 7}, aliases: []string{"min"}},
	{quality: Diminished, symbol: "dim", name: "diminished", intervals: []int{0, 3, 6}, aliases: []string{"d"}},
	{quality: Augmented, symbol: "aug", name: "augmented", intervals: []int{0, 4, 8}, aliases: []string{"+"}},
	{quality: Power, symbol: "5", name: "power chord", intervals: []int{0, 7}},

	{quality: Sus2, symbol: "sus2", name: "sus2", intervals: []int{0, 2, 7}},
	{quality: Sus4, symbol: "sus4", name: "sus4", intervals: []int{0, 5, 7}},
	{quality: Dom7Sus2, symbol: "7sus2", name: "7sus2", intervals: []int{0, 2, 7, 10}},
	{quality: Dom7Sus4, symbol: "7sus4", name: "7sus4", intervals: []int{0, 5, 7, 10}},
	{quality: Dom9Sus4, symbol: "9sus4", name: "9sus4", intervals: []int{0, 5, 7, 10, 14}},
	{quality: Dom13Sus4, symbol: "13sus4", name: "13sus4", intervals: []int{0, 5, 7, 10, 14, 21}},

	{quality: Add9, symbol: "add9", name: "add 9", intervals: []int{0, 4, 7, 14}},
	{quality: MinorAdd9, symbol: "m(add9)", name: "minor add 9", intervals: []int{0, 3, 7, 14}},

	{quality: Major6, symbol: "6", name: "major 6", intervals: []int{0, 4, 7, 9}},
	{quality: Minor6, symbol: "m6", name: "minor 6", intervals: []int{0, 3, 7, 9}},
	{quality: SixNine, symbol: "6/9", name: "major 6/9", intervals: []int{0, 4, 7, 9, 14}},

	{quality: Dom7, symbol: "7", name: "dominant 7", intervals: []int{0, 4, 7, 10}},
	{quality: Major7, symbol: "maj7", name: "major 7", intervals: []int{0, 4, 7, 11}},
	{quality: Minor7, symbol: "m7", name: "minor 7", intervals: []int{0, 3, 7, 10}},
	{quality: Diminished7, symbol: "dim7", name: "diminished 7", intervals: []int{0, 3, 6, 9}},
	{quality: HalfDiminished7, symbol: "m7b5", name: "half diminished", intervals: []int{0, 3, 6, 10}},
	{quality: MinorMajor7, symbol: "m(maj7)", name: "minor major 7", intervals: []int{0, 3, 7, 11}},
	{quality: Major7Flat5, symbol: "maj7b5", name: "major 7b5", intervals: []int{0, 4, 6, 11}},
	{quality: Major7Sharp5, symbol: "maj7#5", name: "major 7#5", intervals: []int{0, 4, 8, 11}},
	{quality: Major7Sharp11, symbol: "maj7#11", name: "major 7#11", intervals: []int{0, 4, 7, 11, 18}},

	{quality: Dom7Flat5, symbol: "7b5", name: "7b5", intervals: []int{0, 4, 6, 10}},
	{quality: Dom7Sharp5, symbol: "7#5", name: "7#5", intervals: []int{0, 4, 8, 10}},
	{quality: Dom7Flat9, symbol: "7b9", name: "7b9", intervals: []int{0, 4, 7, 10, 13}},
	{quality: Dom7Flat13, symbol: "7b13", name: "7b13", intervals: []int{0, 4, 7, 10, 20}},
	{quality: Dom7Sharp9, symbol: "7#9", name: "7#9", intervals: []int{0, 4, 7, 10, 15}},
	{quality: Dom7Sharp11, symbol: "7#11", name: "7#11", intervals: []int{0, 4, 7, 10, 18}},
	// 7alt is spelled without the fifth but reduces to the same pitch classes
	{quality: Dom7Flat9Flat5, symbol: "7b9b5", name: "7b9b5", intervals: []int{0, 4, 6, 10, 13}, aliases: []string{"7alt"}},
	{quality: Dom7Flat9Sharp5, symbol: "7b9#5", name: "7b9#5", intervals: []int{0, 4, 8, 10, 13}},
	{quality: Dom7Sharp9Flat5, symbol: "7#9b5", name: "7#9b5", intervals: []int{0, 4, 6, 10, 15}},
	{quality: Dom7Sharp9Sharp5, symbol: "7#9#5", name: "7#9#5", intervals: []int{0, 4, 8, 10, 15}},
	{quality: Dom7Flat9Sharp9, symbol: "7b9#9", name: "7b9#9", intervals: []int{0, 4, 7, 10, 13, 15}},
	{quality: Dom7Flat9Sharp11, symbol: "7b9#11", name: "7b9#11", intervals: []int{0, 4, 7, 10, 13, 18}},
	{quality: Dom7Sharp9Sharp11, symbol: "7#9#11", name: "7#9#11", intervals: []int{0, 4, 7, 10, 15, 18}},
	{quality: Dom7Flat9Flat13, symbol: "7b9b13", name: "7b9b13", intervals: []int{0, 4, 7, 10, 13, 20}},
	{quality: Dom7Sharp9Flat13, symbol: "7#9b13", name: "7#9b13", intervals: []int{0, 4, 7, 10, 15, 20}},

	{quality: Dom9, symbol: "9", name: "dominant 9", intervals: []int{0, 4, 7, 10, 14}},
	{quality: Major9, symbol: "maj9", name: "major 9", intervals: []int{0, 4, 7, 11, 14}},
	{quality: Minor9, symbol: "m9", name: "minor 9", intervals: []int{0, 3, 7, 10, 14}},
	{quality: Dom11, symbol: "11", name: "dominant 11", intervals: []int{0, 4, 7, 10, 14, 17}},
	{quality: Minor11, symbol: "m11", name: "minor 11", intervals: []int{0, 3, 7, 10, 14, 17}},
	{quality: Dom13, symbol: "13", name: "dominant 13", intervals: []int{0, 4, 7, 10, 14, 21}},
	{quality: Dom13Sharp11, symbol: "13#11", name: "13#11", intervals: []int{0, 4, 7, 10, 14, 18, 21}},
	{quality: Minor13, symbol: "m13", name: "minor 13", intervals: []int{0, 3, 7, 10, 14, 21}},
	{quality: Major13, symbol: "maj13", name: "major 13", intervals: []int{0, 4, 7, 11, 14, 21}},
}

var (
	labels map[string]Quality
	// formulas ordered most specific (most pitch classes) first, stable on table order
	bySpecificity []*formula
)

func init() {
	labels = make(map[string]Quality)
	for i := range formulas {
		f := &formulas[i]
		f.fingerprint = normalize(f.intervals)
		labels[f.symbol] = f.quality
		for _, alias := range f.aliases {
			labels[alias] = f.quality
		}
		bySpecificity = append(bySpecificity, f)
	}
	slices.SortStableFunc(bySpecificity, func(a, b *formula) bool {
		return len(a.fingerprint) > len(b.fingerprint)
	})
}

// normalize reduces intervals to sorted unique pitch-class offsets.
func normalize(intervals []int) []int {
	res := make([]int, 0, len(intervals))
	for _, v := range intervals {
		res = append(res, ((v%12)+12)%12)
	}
	slices.Sort(res)
	return slices.Compact(res)
}

func (q Quality) formula() *formula {
	if q < 0 || int(q) >= len(formulas) {
		return nil
	}
	return &formulas[q]
}

// String returns the chord symbol suffix, "" for a major triad.
func (q Quality) String() string {
	if f := q.formula(); f != nil {
		return f.symbol
	}
	return "?"
}

func (q Quality) Name() string {
	if f := q.formula(); f != nil {
		return f.name
	}
	return "unknown"
}

// Intervals returns the voicing intervals relative to the root.
func (q Quality) Intervals() []int {
	if f := q.formula(); f != nil {
		return slices.Clone(f.intervals)
	}
	return nil
}

// Fingerprint returns the sorted unique pitch-class offsets used for matching.
func (q Quality) Fingerprint() []int {
	if f := q.formula(); f != nil {
		return slices.Clone(f.fingerprint)
	}
	return nil
}

func ParseQuality(label string) (Quality, bool) {
	q, ok := labels[strings.TrimSpace(label)]
	return q, ok
}

func Qualities() []Quality {
	res := make([]Quality, 0, len(formulas))
	for _, f := range formulas {
		res = append(res, f.quality)
	}
	return res
}

// match returns the most specific quality whose fingerprint equals intervals.
func match(intervals []int) (Quality, bool) {
	for _, f := range bySpecificity {
		if slices.Equal(f.fingerprint, intervals) {
			return f.quality, true
		}
	}
	return 0, false
}
