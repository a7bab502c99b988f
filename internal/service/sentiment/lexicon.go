package sentiment

import (
	"strings"
	"unicode"

	"StockSentry/internal/domain/models"
	drepo "StockSentry/internal/domain/repository"
)

// Classification thresholds on the mean lexicon score.
const (
	bullishThreshold = 0.05
	bearishThreshold = -0.05
)

// weights maps headline words to a polarity in [-1, 1]. Deliberately small
// and finance-flavored; headlines are short and dominated by these terms.
var weights = map[string]float64{
	"beat":       0.6,
	"beats":      0.6,
	"boom":       0.6,
	"bull":       0.5,
	"bullish":    0.7,
	"buy":        0.4,
	"buyback":    0.5,
	"climb":      0.5,
	"climbs":     0.5,
	"dividend":   0.3,
	"gain":       0.5,
	"gains":      0.5,
	"growth":     0.5,
	"high":       0.3,
	"jump":       0.6,
	"jumps":      0.6,
	"outperform": 0.6,
	"profit":     0.5,
	"rally":      0.6,
	"rallies":    0.6,
	"record":     0.4,
	"rise":       0.5,
	"rises":      0.5,
	"soar":       0.8,
	"soars":      0.8,
	"strong":     0.4,
	"surge":      0.7,
	"surges":     0.7,
	"upgrade":    0.6,
	"upgraded":   0.6,
	"win":        0.4,
	"wins":       0.4,

	"bear":       -0.5,
	"bearish":    -0.7,
	"crash":      -0.9,
	"crashes":    -0.9,
	"cut":        -0.4,
	"cuts":       -0.4,
	"debt":       -0.3,
	"decline":    -0.5,
	"declines":   -0.5,
	"downgrade":  -0.6,
	"downgraded": -0.6,
	"drop":       -0.5,
	"drops":      -0.5,
	"fall":       -0.5,
	"falls":      -0.5,
	"fraud":      -0.9,
	"lawsuit":    -0.6,
	"layoff":     -0.6,
	"layoffs":    -0.6,
	"loss":       -0.5,
	"losses":     -0.5,
	"low":        -0.3,
	"miss":       -0.6,
	"misses":     -0.6,
	"plunge":     -0.8,
	"plunges":    -0.8,
	"probe":      -0.5,
	"recall":     -0.5,
	"sell":       -0.4,
	"selloff":    -0.7,
	"sink":       -0.6,
	"sinks":      -0.6,
	"slump":      -0.6,
	"slumps":     -0.6,
	"tumble":     -0.7,
	"tumbles":    -0.7,
	"weak":       -0.4,
}

// Lexicon is a deterministic word-list sentiment scorer.
type Lexicon struct{}

// New creates a lexicon scorer.
func New() drepo.SentimentScorer {
	return &Lexicon{}
}

// Score classifies text: mean matched-word score above 0.05 is Bullish,
// below -0.05 Bearish, anything else Neutral.
func (l *Lexicon) Score(text string) models.Sentiment {
	var sum float64
	var matched int
	for _, tok := range tokenize(text) {
		if w, ok := weights[tok]; ok {
			sum += w
			matched++
		}
	}
	if matched == 0 {
		return models.SentimentNeutral
	}

	score := sum / float64(matched)
	switch {
	case score > bullishThreshold:
		return models.SentimentBullish
	case score < bearishThreshold:
		return models.SentimentBearish
	default:
		return models.SentimentNeutral
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
