package glyph

import (
	"fmt"
	"strings"
)

// Source is the randomness the catalog draws from. *rand.Rand from
// math/rand/v2 satisfies it.
type Source interface {
	IntN(n int) int
	Float64() float64
}

type Set int

const (
	All Set = iota
	Elder
	Younger
	AngloSaxon
	Ogham
	Mystic
)

var (
	ElderFuthark = []rune{
		'ᚠ', 'ᚢ', 'ᚦ', 'ᚨ', 'ᚱ', 'ᚲ', 'ᚷ', 'ᚹ', 'ᚺ', 'ᚾ', 'ᛁ', 'ᛃ', 'ᛇ', 'ᛈ', 'ᛉ', 'ᛊ', 'ᛋ', 'ᛏ', 'ᛒ',
		'ᛖ', 'ᛗ', 'ᛚ', 'ᛜ', 'ᛝ', 'ᛞ', 'ᛟ',
	}

	YoungerFuthark = []rune{
		'ᚠ', 'ᚢ', 'ᚦ', 'ᚬ', 'ᚱ', 'ᚴ', 'ᚼ', 'ᚾ', 'ᛁ', 'ᛅ', 'ᛋ', 'ᛏ', 'ᛒ', 'ᛘ', 'ᛚ', 'ᛦ',
	}

	Futhorc = []rune{
		'ᚠ', 'ᚢ', 'ᚦ', 'ᚩ', 'ᚱ', 'ᚳ', 'ᚷ', 'ᚹ', 'ᚻ', 'ᚾ', 'ᛁ', 'ᛄ', 'ᛇ', 'ᛈ', 'ᛉ', 'ᛋ', 'ᛏ', 'ᛒ', 'ᛖ',
		'ᛗ', 'ᛚ', 'ᛝ', 'ᛟ', 'ᛡ', 'ᛣ', 'ᛥ',
	}

	OghamScript = []rune{
		'ᚁ', 'ᚂ', 'ᚃ', 'ᚄ', 'ᚅ', 'ᚆ', 'ᚇ', 'ᚈ', 'ᚉ', 'ᚊ', 'ᚋ', 'ᚌ', 'ᚍ', 'ᚎ', 'ᚏ', 'ᚐ', 'ᚑ', 'ᚒ', 'ᚓ',
		'ᚔ', 'ᚕ', 'ᚖ', 'ᚗ', 'ᚘ', 'ᚙ', 'ᚚ',
	}

	MysticSymbols = []rune{
		'☽', '☾', '✧', '✦', '◈', '◇', '⁂', '⊕', '⊗', '⊛', '⌘', '⍟', '♅', '♆', '♇', '⚝', '✡', '⬡', '⬢',
		'⏣', '⏥', '◉', '◎', '⦿',
	}
)

// alphabets backs All; order matches the Set constants after All.
var alphabets = [][]rune{ElderFuthark, YoungerFuthark, Futhorc, OghamScript, MysticSymbols}

var allRunes = func() []rune {
	var out []rune
	for _, a := range alphabets {
		out = append(out, a...)
	}
	return out
}()

// Sets lists every rune set in key-binding order.
var Sets = []Set{All, Elder, Younger, AngloSaxon, Ogham, Mystic}

var setNames = map[Set]struct{ key, display string }{
	All:        {"all", "All"},
	Elder:      {"elder", "Elder Futhark"},
	Younger:    {"younger", "Younger Futhark"},
	AngloSaxon: {"anglo", "Anglo-Saxon"},
	Ogham:      {"ogham", "Ogham"},
	Mystic:     {"mystic", "Mystic"},
}

var aliases = map[string]Set{
	"all":             All,
	"elder":           Elder,
	"elder-futhark":   Elder,
	"younger":         Younger,
	"younger-futhark": Younger,
	"anglo":           AngloSaxon,
	"anglo-saxon":     AngloSaxon,
	"futhorc":         AngloSaxon,
	"ogham":           Ogham,
	"mystic":          Mystic,
}

func (s Set) String() string {
	if n, ok := setNames[s]; ok {
		return n.key
	}
	return fmt.Sprintf("set(%d)", int(s))
}

// Name is the label shown in the status line.
func (s Set) Name() string {
	if n, ok := setNames[s]; ok {
		return n.display
	}
	return s.String()
}

func (s Set) Valid() bool {
	return s >= All && s <= Mystic
}

func ParseSet(name string) (Set, error) {
	if s, ok := aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return s, nil
	}
	return All, fmt.Errorf("unknown rune set %q", name)
}

// Runes returns the table for a set. All returns every alphabet
// concatenated. Callers must not modify the result.
func Runes(s Set) []rune {
	switch s {
	case Elder:
		return ElderFuthark
	case Younger:
		return YoungerFuthark
	case AngloSaxon:
		return Futhorc
	case Ogham:
		return OghamScript
	case Mystic:
		return MysticSymbols
	default:
		return allRunes
	}
}

// Random draws one rune. For All an alphabet is picked first, then a rune
// inside it, so short alphabets are not drowned out by long ones.
func Random(r Source, s Set) rune {
	table := Runes(s)
	if s == All {
		table = alphabets[r.IntN(len(alphabets))]
	}
	return table[r.IntN(len(table))]
}

// Fill overwrites dst with fresh draws from s.
func Fill(r Source, s Set, dst []rune) {
	for i := range dst {
		dst[i] = Random(r, s)
	}
}

func Contains(s Set, c rune) bool {
	for _, g := range Runes(s) {
		if g == c {
			return true
		}
	}
	return false
}
