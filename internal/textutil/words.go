package textutil

import (
	"regexp"
	"strings"
)

var wordPattern = regexp.MustCompile(`\w+`)

// Words returns the lowercase \w+ tokens of s.
func Words(s string) []string {
	return wordPattern.FindAllString(strings.ToLower(s), -1)
}

// IsStopword reports whether w (lowercase) is a common English function word.
func IsStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}

// Stopwords returns the English stopword list.
func Stopwords() []string {
	out := make([]string, 0, len(stopwords))
	for w := range stopwords {
		out = append(out, w)
	}
	return out
}

var stopwords = toSet(strings.Fields(`
a about above across after afterwards again against all almost alone along
already also although always am among amongst an and another any anyhow anyone
anything anyway anywhere are around as at back be became because become becomes
becoming been before beforehand behind being below beside besides between beyond
both but by can cannot could did do does doing done down due during each eg
either else elsewhere enough etc even ever every everyone everything everywhere
except few for former formerly from further get gets got had has have having he
hence her here hereafter hereby herein hereupon hers herself him himself his how
however i ie if im in indeed into is it its itself just keep last latter
latterly least less ll made many may me meanwhile might mine more moreover most
mostly much must my myself namely neither never nevertheless next no nobody none
noone nor not nothing now nowhere of off often on once one only onto or other
others otherwise our ours ourselves out over own per perhaps please put rather re
really s same see seem seemed seeming seems several she should since so some
somehow someone something sometime sometimes somewhere still such t than that
the their theirs them themselves then thence there thereafter thereby therefore
therein thereupon these they this those though through throughout thru thus to
together too toward towards under until up upon us ve very via was we well were
what whatever when whence whenever where whereafter whereas whereby wherein
whereupon wherever whether which while whither who whoever whole whom whose why
will with within without would yet you your yours yourself yourselves dont
doesnt didnt isnt wasnt cant wont like just https http www com amp gt lt
`))

func toSet(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
