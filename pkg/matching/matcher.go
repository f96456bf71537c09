package matching

import (
	"context"
	"math"
	"regexp"
	"strings"

	"ai-ordertaking-be/internal/dto"
	"ai-ordertaking-be/internal/entity"
)

// Catalog fuzzy matcher. For every item mention it scans the merchant's
// active products and keeps the best rule-ladder score:
//
//  1. mention == SKU (case-insensitive)            -> 1.0, stop scanning
//  2. normalized mention == normalized name        -> 0.98, no further rules
//  3. name contains mention                        -> NameContainsScore
//  4. mention contains name                        -> MentionContainsScore
//  5. weighted token overlap (exact + partial)
//  6. category+name combined contains mention      -> CategoryComboScore
//
// Rules 3..6 take the maximum. A product below MinScore leaves the mention
// unmatched, with the confidence still reported.

// Default rule scores and weights. Overridable via Config so they can be
// tuned against the property tests without code changes.
const (
	DefaultSkuExactScore        = 1.0
	DefaultNameExactScore       = 0.98
	DefaultNameContainsScore    = 0.85
	DefaultMentionContainsScore = 0.80
	DefaultCategoryComboScore   = 0.82
	DefaultTokenExactWeight     = 0.7
	DefaultTokenPartialWeight   = 0.3
	DefaultMinScore             = 0.3

	// partial token relations shorter than this are noise
	partialTokenMinLength = 3
)

type Config struct {
	SkuExactScore        float64
	NameExactScore       float64
	NameContainsScore    float64
	MentionContainsScore float64
	CategoryComboScore   float64
	TokenExactWeight     float64
	TokenPartialWeight   float64
	MinScore             float64
}

func DefaultConfig() Config {
	return Config{
		SkuExactScore:        DefaultSkuExactScore,
		NameExactScore:       DefaultNameExactScore,
		NameContainsScore:    DefaultNameContainsScore,
		MentionContainsScore: DefaultMentionContainsScore,
		CategoryComboScore:   DefaultCategoryComboScore,
		TokenExactWeight:     DefaultTokenExactWeight,
		TokenPartialWeight:   DefaultTokenPartialWeight,
		MinScore:             DefaultMinScore,
	}
}

// BestMatch is the outcome of one catalog scan. Product is nil when nothing
// cleared Config.MinScore.
type BestMatch struct {
	Product    *entity.Product
	Confidence float64
}

var (
	punctuationPattern = regexp.MustCompile(`[^\w\s]`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
	numericPattern     = regexp.MustCompile(`^\d+$`)
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "of": {}, "and": {}, "or": {},
	"with": {}, "for": {}, "in": {}, "on": {}, "per": {}, "to": {}, "by": {},
}

// FindBestMatch scans every product and returns the best candidate for the
// mention. The scan aborts on context cancellation; that is the only error.
func FindBestMatch(ctx context.Context, mention string, products []*entity.Product, cfg Config) (BestMatch, error) {
	normMention := Normalize(mention)
	mentionTokens := tokenize(normMention)

	best := BestMatch{}

	for _, product := range products {
		select {
		case <-ctx.Done():
			return BestMatch{}, ctx.Err()
		default:
		}
		if product == nil {
			continue
		}

		// 1. Exact SKU hit beats everything else in the catalog.
		if strings.EqualFold(strings.TrimSpace(mention), strings.TrimSpace(product.Sku)) {
			return BestMatch{Product: product, Confidence: round2(cfg.SkuExactScore)}, nil
		}

		normName := Normalize(product.Name)

		var score float64
		if normMention != "" && normMention == normName {
			// 2. Exact normalized name; no other rule can beat this
			// except an exact SKU later in the scan.
			score = cfg.NameExactScore
		} else {
			score = scoreProduct(normMention, mentionTokens, normName, product, cfg)
		}

		if score > best.Confidence {
			best.Confidence = score
			best.Product = product
		}
	}

	best.Confidence = round2(best.Confidence)
	if best.Confidence < cfg.MinScore {
		best.Product = nil
	}
	return best, nil
}

// MatchAll resolves parser mentions against the catalog, one output per
// input. Duplicate assignment of a product to two mentions is accepted; the
// search is greedy and does not backtrack.
func MatchAll(ctx context.Context, items []dto.ItemMention, products []*entity.Product, cfg Config) ([]dto.MatchedItem, error) {
	matched := make([]dto.MatchedItem, 0, len(items))

	for _, item := range items {
		best, err := FindBestMatch(ctx, item.Name, products, cfg)
		if err != nil {
			return nil, err
		}

		out := dto.MatchedItem{
			Mention:    item,
			Product:    best.Product,
			Confidence: best.Confidence,
		}
		if best.Product != nil {
			out.UnitPrice = best.Product.Price
		}
		matched = append(matched, out)
	}

	return matched, nil
}

func scoreProduct(normMention string, mentionTokens []string, normName string, product *entity.Product, cfg Config) float64 {
	if normMention == "" || normName == "" {
		return 0
	}

	var score float64

	// 3. Product name contains the whole mention.
	if strings.Contains(normName, normMention) {
		score = math.Max(score, cfg.NameContainsScore)
	}

	// 4. Mention contains the whole product name.
	if strings.Contains(normMention, normName) {
		score = math.Max(score, cfg.MentionContainsScore)
	}

	// 5. Token overlap against name + category + sub-category tokens.
	score = math.Max(score, tokenOverlapScore(mentionTokens, product, cfg))

	// 6. Category + name combined substring.
	combined := Normalize(product.Category + " " + product.Name)
	if strings.Contains(combined, normMention) {
		score = math.Max(score, cfg.CategoryComboScore)
	}

	return score
}

func tokenOverlapScore(mentionTokens []string, product *entity.Product, cfg Config) float64 {
	if len(mentionTokens) == 0 {
		return 0
	}

	productTokens := make(map[string]struct{})
	for _, source := range []string{product.Name, product.Category, product.SubCategory} {
		for _, token := range tokenize(Normalize(source)) {
			productTokens[token] = struct{}{}
		}
	}
	if len(productTokens) == 0 {
		return 0
	}

	var exact, partial int
	for _, token := range mentionTokens {
		if _, ok := productTokens[token]; ok {
			exact++
			continue
		}
		if len(token) < partialTokenMinLength {
			continue
		}
		for productToken := range productTokens {
			if len(productToken) < partialTokenMinLength {
				continue
			}
			if strings.Contains(productToken, token) || strings.Contains(token, productToken) {
				partial++
				break
			}
		}
	}

	total := float64(len(mentionTokens))
	return cfg.TokenExactWeight*(float64(exact)/total) + cfg.TokenPartialWeight*(float64(partial)/total)
}

// Normalize lowercases, strips punctuation and collapses whitespace so that
// "Parle-G" and "parle g" compare equal.
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = punctuationPattern.ReplaceAllString(s, " ")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// tokenize splits a normalized string, dropping stop-words, bare numbers and
// single characters.
func tokenize(normalized string) []string {
	fields := strings.Fields(normalized)
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if len(field) < 2 {
			continue
		}
		if _, ok := stopWords[field]; ok {
			continue
		}
		if numericPattern.MatchString(field) {
			continue
		}
		tokens = append(tokens, field)
	}
	return tokens
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
