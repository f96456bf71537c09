// FILE: internal/service/parser_service.go
package service

import (
	"context"

	"ai-ordertaking-be/internal/dto"
	"ai-ordertaking-be/internal/pkg/logger"
	"ai-ordertaking-be/pkg/aiclient"
	"ai-ordertaking-be/pkg/parsing"

	"github.com/google/uuid"
)

// IParserService turns an inbound message into item mentions. Text goes to
// the structuring service first and falls back to the local extractor when
// that fails; media must be transcribed remotely, there is no local fallback.
type IParserService interface {
	ParseText(ctx context.Context, companyId uuid.UUID, text string) (*dto.OrderParseResult, error)
	ParseAudio(ctx context.Context, companyId uuid.UUID, mediaURL, mimeType string) (*dto.OrderParseResult, error)
	ParseImage(ctx context.Context, companyId uuid.UUID, mediaURL, mimeType string) (*dto.OrderParseResult, error)
}

type parserService struct {
	aiClient  aiclient.IClient
	sysLogger logger.ILogger
}

func NewParserService(aiClient aiclient.IClient, sysLogger logger.ILogger) IParserService {
	return &parserService{
		aiClient:  aiClient,
		sysLogger: sysLogger,
	}
}

func (p *parserService) ParseText(ctx context.Context, companyId uuid.UUID, text string) (*dto.OrderParseResult, error) {
	language := parsing.DetectLanguage(text)

	// 1. Ask the structuring service.
	structured, err := p.aiClient.StructureText(ctx, companyId.String(), text, language)
	if err != nil {
		p.sysLogger.Warn("ParserService", "structuring service failed, using local extractor", map[string]interface{}{
			"company_id": companyId,
			"error":      err.Error(),
		})
		return p.fallback(text, language), nil
	}

	// 2. An answer with no items is as useless as no answer.
	if structured == nil || len(structured.Items) == 0 {
		p.sysLogger.Warn("ParserService", "structuring service returned no items, using local extractor", map[string]interface{}{
			"company_id": companyId,
		})
		return p.fallback(text, language), nil
	}

	items := make([]dto.ItemMention, 0, len(structured.Items))
	for _, it := range structured.Items {
		confidence := it.Confidence
		if confidence <= 0 {
			confidence = structured.Confidence
		}
		items = append(items, dto.ItemMention{
			Name:       it.Name,
			Quantity:   it.Quantity,
			Unit:       it.Unit,
			Confidence: confidence,
		})
	}

	if structured.Language != "" {
		language = structured.Language
	}

	return &dto.OrderParseResult{
		Items:            items,
		RawText:          text,
		LanguageDetected: language,
		ParseConfidence:  structured.Confidence,
	}, nil
}

func (p *parserService) ParseAudio(ctx context.Context, companyId uuid.UUID, mediaURL, mimeType string) (*dto.OrderParseResult, error) {
	transcript, err := p.aiClient.TranscribeAudio(ctx, companyId.String(), mediaURL, mimeType)
	if err != nil {
		return nil, err
	}
	return p.parseTranscript(ctx, companyId, transcript)
}

func (p *parserService) ParseImage(ctx context.Context, companyId uuid.UUID, mediaURL, mimeType string) (*dto.OrderParseResult, error) {
	transcript, err := p.aiClient.ExtractImageText(ctx, companyId.String(), mediaURL, mimeType)
	if err != nil {
		return nil, err
	}
	return p.parseTranscript(ctx, companyId, transcript)
}

func (p *parserService) parseTranscript(ctx context.Context, companyId uuid.UUID, transcript *aiclient.Transcript) (*dto.OrderParseResult, error) {
	result, err := p.ParseText(ctx, companyId, transcript.Text)
	if err != nil {
		return nil, err
	}
	if transcript.Language != "" {
		result.LanguageDetected = transcript.Language
	}
	return result, nil
}

func (p *parserService) fallback(text, language string) *dto.OrderParseResult {
	items := parsing.Extract(text)

	confidence := 0.0
	if len(items) > 0 {
		confidence = parsing.FallbackConfidence
	}

	return &dto.OrderParseResult{
		Items:            items,
		RawText:          text,
		LanguageDetected: language,
		ParseConfidence:  confidence,
	}
}
