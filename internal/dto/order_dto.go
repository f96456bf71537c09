package dto

import (
	"time"

	"ai-ordertaking-be/internal/entity"

	"github.com/google/uuid"
)

// ItemMention is one free-text product reference pulled out of a customer
// message, before catalog resolution. Pipeline-local; never persisted.
type ItemMention struct {
	Name       string  `json:"name"`
	Quantity   float64 `json:"quantity"`
	Unit       string  `json:"unit,omitempty"`
	Confidence float64 `json:"confidence"`
}

// OrderParseResult is the parser contract output. An empty item list with
// ParseConfidence 0 means "unparseable", not an empty order.
type OrderParseResult struct {
	Items            []ItemMention `json:"items"`
	RawText          string        `json:"raw_text"`
	LanguageDetected string        `json:"language_detected"`
	ParseConfidence  float64       `json:"parse_confidence"`
}

// MatchedItem extends an ItemMention with the best catalog candidate, if any
// cleared the match floor. Product nil means unmatched; Confidence is still
// reported.
type MatchedItem struct {
	Mention    ItemMention     `json:"mention"`
	Product    *entity.Product `json:"product,omitempty"`
	UnitPrice  float64         `json:"unit_price,omitempty"`
	Confidence float64         `json:"confidence"`
}

// GateDecision is the confidence-gate outcome over one matched set.
type GateDecision struct {
	AllConfident bool          `json:"all_confident"`
	LowItems     []MatchedItem `json:"low_items,omitempty"`
}

type ClarificationItem struct {
	Mention    string  `json:"mention"`
	BestGuess  string  `json:"best_guess,omitempty"`
	Confidence float64 `json:"confidence"`
}

// ClarificationPayload carries everything the reply needs to ask
// "did you mean X?" per ambiguous item.
type ClarificationPayload struct {
	OriginalText string              `json:"original_text"`
	Items        []ClarificationItem `json:"items"`
}

// OrderDraft is the pending order kept in the cart between a clarification
// question and the sender's confirm/cancel reply. Keyed by company+store.
type OrderDraft struct {
	CompanyId       uuid.UUID     `json:"company_id"`
	StoreId         uuid.UUID     `json:"store_id"`
	SourceMessageId string        `json:"source_message_id"`
	RawText         string        `json:"raw_text"`
	Language        string        `json:"language"`
	Matches         []MatchedItem `json:"matches"`
	CreatedAt       time.Time     `json:"created_at"`
}
