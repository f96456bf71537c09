package parsing

import (
	"regexp"
	"strconv"
	"strings"

	"ai-ordertaking-be/internal/constant"
	"ai-ordertaking-be/internal/dto"
)

// Local pattern extractor. This is the fallback path when the structuring
// service fails or times out: it scans for `<quantity> <unit>? <product
// phrase>` groups and tags every extracted item with a fixed low confidence
// so the gate knows to double-check them.

// FallbackConfidence is assigned to every fallback-extracted item.
const FallbackConfidence = 0.5

// Item boundaries: comma, "and", or the Hindi conjunction "aur".
var separatorPattern = regexp.MustCompile(`(?i)\s*(?:,|\band\b|\baur\b)\s*`)

// <quantity> <unit>? <product phrase>, unit singular or plural. "packets"
// must precede "packs" in the alternation or the first-match rule truncates
// it to "pack" and bleeds "ets" into the product phrase.
var itemPattern = regexp.MustCompile(`(?i)(\d+)\s*(cases?|packets?|packs?|boxes?|bottles?|dozens?|cartons?|pcs?|kgs?|litres?|liters?)?\s*(?:of\s+)?([a-zA-Z][a-zA-Z0-9\s\-'.]*)`)

// Order verbs around the product phrase. They carry intent, not item
// identity, so they are stripped before matching against the catalog.
var (
	leadingVerbPattern  = regexp.MustCompile(`(?i)^(?:i\s+(?:need|want)|please\s+send(?:\s+me)?|send(?:\s+me)?|give\s+me|get\s+me|need|want|order|mujhe|kripya)\s+`)
	trailingVerbPattern = regexp.MustCompile(`(?i)\s+(?:chahiye|bhejo|bhej\s*do|de\s*do|dena|do|please)\s*[.!?]*$`)
)

var whitespacePattern = regexp.MustCompile(`\s+`)

// Hindi function words and order verbs. Product nouns are deliberately not
// in this list; brand names look the same in both languages.
var hindiMarkerPattern = regexp.MustCompile(`(?i)\b(?:chahiye|bhejo|bhej|dena|dedo|kripya|namaste|namaskar|madad|aur|haan|nahi)\b`)

var unitSingular = map[string]string{
	"cases": "case", "packs": "pack", "packets": "packet", "boxes": "box",
	"bottles": "bottle", "dozens": "dozen", "cartons": "carton", "pcs": "pc",
	"kgs": "kg", "litres": "litre", "liters": "liter",
}

// Extract scans free text for item mentions. Returns an empty slice when
// nothing matches; callers treat that as unparseable, not as an empty order.
func Extract(text string) []dto.ItemMention {
	items := make([]dto.ItemMention, 0)

	// 1. Split the message into candidate segments.
	segments := separatorPattern.Split(text, -1)

	for _, segment := range segments {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		// 2. Strip order verbs so they do not leak into the product phrase.
		segment = leadingVerbPattern.ReplaceAllString(segment, "")
		segment = trailingVerbPattern.ReplaceAllString(segment, "")

		// 3. Match the quantity/unit/phrase group.
		match := itemPattern.FindStringSubmatch(segment)
		if match == nil {
			continue
		}

		quantity, err := strconv.Atoi(match[1])
		if err != nil || quantity <= 0 {
			continue
		}

		name := cleanPhrase(match[3])
		if name == "" {
			continue
		}

		items = append(items, dto.ItemMention{
			Name:       name,
			Quantity:   float64(quantity),
			Unit:       normalizeUnit(match[2]),
			Confidence: FallbackConfidence,
		})
	}

	return items
}

// DetectLanguage picks the reply language from the message text. Defaults to
// English; Hindi only on a clear marker word.
func DetectLanguage(text string) string {
	if hindiMarkerPattern.MatchString(text) {
		return constant.LanguageHindi
	}
	return constant.LanguageEnglish
}

func cleanPhrase(phrase string) string {
	phrase = trailingVerbPattern.ReplaceAllString(phrase, "")
	phrase = strings.Trim(phrase, " .,-'")
	phrase = whitespacePattern.ReplaceAllString(phrase, " ")
	return strings.TrimSpace(phrase)
}

func normalizeUnit(unit string) string {
	unit = strings.ToLower(strings.TrimSpace(unit))
	if unit == "" {
		return ""
	}
	if singular, ok := unitSingular[unit]; ok {
		return singular
	}
	return unit
}
