package width

import (
	"regexp"
	"unicode/utf8"
)

// ClusterKind names the family of an emoji-like cluster.
type ClusterKind int

const (
	// Keycap is a digit, '#' or '*' followed by U+20E3.
	Keycap ClusterKind = iota
	// Symbol covers ©, ® and the U+2000–U+2FFF symbol blocks.
	Symbol
	// CJKSymbol covers the few emoji-presented CJK symbols (〰 〽 ㊗ ㊙).
	CJKSymbol
	// Tile covers mahjong, domino, playing cards and enclosed alphanumerics.
	Tile
	// Flag is a pair of regional indicators.
	Flag
	// Pictograph is a single supplementary-plane pictograph, with an
	// optional skin tone modifier. Joined sequences count one per
	// pictograph, with every U+200D and U+2764 counted as a Symbol.
	Pictograph
)

func (k ClusterKind) String() string {
	switch k {
	case Keycap:
		return "keycap"
	case Symbol:
		return "symbol"
	case CJKSymbol:
		return "cjk-symbol"
	case Tile:
		return "tile"
	case Flag:
		return "flag"
	case Pictograph:
		return "pictograph"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ClusterKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Cluster is one classified run of code points. Start and End are code
// point offsets into the classified text, End exclusive.
type Cluster struct {
	Kind  ClusterKind `json:"kind" yaml:"kind"`
	Start int         `json:"start" yaml:"start"`
	End   int         `json:"end" yaml:"end"`
	Text  string      `json:"text" yaml:"text"`
}

const (
	skinTone = `[\x{1F3FB}-\x{1F3FF}]`
	vs16     = `\x{FE0F}`
)

// clusterPattern drives the emoji width correction. Alternatives are tried
// in order and the first that matches wins, so a pictograph never extends
// past its skin tone.
var clusterPattern = regexp.MustCompile(
	`(?P<keycap>[*#0-9]` + vs16 + `?\x{20E3})` +
		`|(?P<symbol>[\x{A9}\x{AE}]|[\x{2000}-\x{2FFF}]` + skinTone + `?` + vs16 + `?)` +
		`|(?P<cjk>[\x{3030}\x{303D}\x{3297}\x{3299}]` + vs16 + `?)` +
		`|(?P<tile>[\x{1F000}-\x{1F1BF}]` + vs16 + `?)` +
		`|(?P<flag>[\x{1F1C0}-\x{1F1FF}][\x{1F1C0}-\x{1F1FF}])` +
		`|(?P<pictograph>[\x{1F000}-\x{1FFFF}]` + skinTone + `?)`,
)

var clusterKinds = map[string]ClusterKind{
	"keycap":     Keycap,
	"symbol":     Symbol,
	"cjk":        CJKSymbol,
	"tile":       Tile,
	"flag":       Flag,
	"pictograph": Pictograph,
}

// Classify finds the emoji-like clusters of text. Each cluster is drawn as
// one double-width glyph by most terminals. ANSI sequences should be
// stripped by the caller first.
func Classify(text string) []Cluster {
	matches := clusterPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	names := clusterPattern.SubexpNames()

	clusters := make([]Cluster, 0, len(matches))
	offset, runes := 0, 0
	for _, m := range matches {
		runes += utf8.RuneCountInString(text[offset:m[0]])
		length := utf8.RuneCountInString(text[m[0]:m[1]])

		kind := Pictograph
		for i := 1; i < len(names); i++ {
			k, ok := clusterKinds[names[i]]
			if ok && m[2*i] >= 0 {
				kind = k
				break
			}
		}

		clusters = append(clusters, Cluster{
			Kind:  kind,
			Start: runes,
			End:   runes + length,
			Text:  text[m[0]:m[1]],
		})
		runes += length
		offset = m[1]
	}
	return clusters
}

// CountClusters returns len(Classify(text)) without building the spans.
func CountClusters(text string) int {
	return len(clusterPattern.FindAllStringIndex(text, -1))
}
