// FILE: internal/service/conversation_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ai-ordertaking-be/internal/constant"
	"ai-ordertaking-be/internal/dto"
	"ai-ordertaking-be/internal/entity"
	"ai-ordertaking-be/internal/pkg/logger"
	"ai-ordertaking-be/internal/pkg/mailer"
	"ai-ordertaking-be/internal/repository/specification"
	"ai-ordertaking-be/internal/repository/unitofwork"
	"ai-ordertaking-be/pkg/parsing"
	"ai-ordertaking-be/pkg/whatsapp"
)

// IConversationService runs one inbound message through the whole pipeline:
// store resolution, intent short-circuits, parsing, matching, the confidence
// gate, persistence, and exactly one outbound reply. Errors after the channel
// ack never propagate as retries; the sender gets a single apology instead.
type IConversationService interface {
	HandleInbound(ctx context.Context, msg *dto.InboundMessage) (*dto.ConversationResult, error)
}

type conversationService struct {
	uowFactory    unitofwork.RepositoryFactory
	parserService IParserService
	orderService  IOrderService
	sender        whatsapp.IClient
	emailService  mailer.IEmailService
	opsAlertEmail string
	sysLogger     logger.ILogger
}

func NewConversationService(
	uowFactory unitofwork.RepositoryFactory,
	parserService IParserService,
	orderService IOrderService,
	sender whatsapp.IClient,
	emailService mailer.IEmailService,
	opsAlertEmail string,
	sysLogger logger.ILogger,
) IConversationService {
	return &conversationService{
		uowFactory:    uowFactory,
		parserService: parserService,
		orderService:  orderService,
		sender:        sender,
		emailService:  emailService,
		opsAlertEmail: opsAlertEmail,
		sysLogger:     sysLogger,
	}
}

func (c *conversationService) HandleInbound(ctx context.Context, msg *dto.InboundMessage) (*dto.ConversationResult, error) {
	// 1. Status updates and unrecognized kinds are logged, never replied to.
	switch msg.Kind {
	case constant.MessageKindStatus:
		c.sysLogger.Info("ConversationService", "delivery status logged", map[string]interface{}{
			"message_id": msg.MessageId,
		})
		return &dto.ConversationResult{Outcome: constant.OutcomeStatusLogged}, nil
	case constant.MessageKindUnknown:
		c.sysLogger.Warn("ConversationService", "unsupported message kind ignored", map[string]interface{}{
			"message_id": msg.MessageId,
			"from":       msg.From,
		})
		return &dto.ConversationResult{Outcome: constant.OutcomeIgnored}, nil
	}

	// 2. Resolve the sender to a registered store.
	store, err := c.resolveStore(ctx, msg.From)
	if err != nil {
		return c.apologize(ctx, msg.From, constant.LanguageEnglish, "store lookup failed", err), nil
	}
	if store == nil {
		reply := constant.ReplyNotRegisteredEN
		c.sendText(ctx, msg.From, reply)
		return &dto.ConversationResult{Outcome: constant.OutcomeNotRegistered, Reply: reply}, nil
	}

	// 3. Route by kind.
	switch msg.Kind {
	case constant.MessageKindText:
		return c.handleText(ctx, store, msg), nil
	case constant.MessageKindAudio:
		return c.handleMedia(ctx, store, msg, true), nil
	case constant.MessageKindImage:
		return c.handleMedia(ctx, store, msg, false), nil
	case constant.MessageKindInteractiveButton, constant.MessageKindInteractiveList:
		return c.handleInteractive(ctx, store, msg), nil
	}

	// Kind() maps everything else to unknown already; keep routing total.
	return &dto.ConversationResult{Outcome: constant.OutcomeIgnored}, nil
}

func (c *conversationService) resolveStore(ctx context.Context, from string) (*entity.Store, error) {
	digits := digitsOnly(from)
	if digits == "" {
		return nil, nil
	}
	// Country-code prefixes vary between the channel and the registry, so
	// compare on the trailing ten digits.
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	return uow.StoreRepository().FindOne(ctx,
		specification.ByPhoneSuffix{Suffix: digits},
		specification.ActiveOnly{},
	)
}

func (c *conversationService) handleText(ctx context.Context, store *entity.Store, msg *dto.InboundMessage) *dto.ConversationResult {
	text := strings.TrimSpace(msg.Text)
	language := parsing.DetectLanguage(text)

	if text == "" {
		reply := pickReply(language, constant.ReplyUnparseableEN, constant.ReplyUnparseableHI)
		c.sendText(ctx, msg.From, reply)
		return c.result(store, constant.OutcomeUnparseable, reply, language)
	}

	// Smalltalk short-circuits skip the parser entirely.
	if parsing.IsGreeting(text) {
		reply := pickReply(language, constant.ReplyGreetingEN, constant.ReplyGreetingHI)
		c.sendText(ctx, msg.From, reply)
		return c.result(store, constant.OutcomeGreeting, reply, language)
	}
	if parsing.IsHelpRequest(text) {
		reply := pickReply(language, constant.ReplyHelpEN, constant.ReplyHelpHI)
		c.sendText(ctx, msg.From, reply)
		return c.result(store, constant.OutcomeHelp, reply, language)
	}
	if parsing.IsRepeatRequest(text) {
		return c.handleRepeatPrompt(ctx, store, msg, language)
	}

	parse, err := c.parserService.ParseText(ctx, store.CompanyId, text)
	if err != nil {
		return c.apologize(ctx, msg.From, language, "text parsing failed", err)
	}

	return c.handleParsedOrder(ctx, store, msg, parse)
}

func (c *conversationService) handleMedia(ctx context.Context, store *entity.Store, msg *dto.InboundMessage, isAudio bool) *dto.ConversationResult {
	mediaURL, err := c.sender.ResolveMediaURL(ctx, msg.MediaId)
	if err != nil {
		return c.apologize(ctx, msg.From, constant.LanguageEnglish, "media url resolution failed", err)
	}

	var parse *dto.OrderParseResult
	if isAudio {
		parse, err = c.parserService.ParseAudio(ctx, store.CompanyId, mediaURL, msg.MimeType)
	} else {
		parse, err = c.parserService.ParseImage(ctx, store.CompanyId, mediaURL, msg.MimeType)
	}
	if err != nil {
		return c.apologize(ctx, msg.From, constant.LanguageEnglish, "media parsing failed", err)
	}

	return c.handleParsedOrder(ctx, store, msg, parse)
}

func (c *conversationService) handleParsedOrder(ctx context.Context, store *entity.Store, msg *dto.InboundMessage, parse *dto.OrderParseResult) *dto.ConversationResult {
	language := parse.LanguageDetected

	if len(parse.Items) == 0 {
		reply := pickReply(language, constant.ReplyUnparseableEN, constant.ReplyUnparseableHI)
		c.sendText(ctx, msg.From, reply)
		return c.result(store, constant.OutcomeUnparseable, reply, language)
	}

	matches, err := c.orderService.BuildMatches(ctx, store.CompanyId, parse.Items)
	if err != nil {
		return c.apologize(ctx, msg.From, language, "catalog matching failed", err)
	}

	// Nothing resolved at all: there is no guess worth confirming.
	if allUnmatched(matches) {
		reply := constant.ReplyNoMatchEN
		c.sendText(ctx, msg.From, reply)
		return c.result(store, constant.OutcomeNoMatch, reply, language)
	}

	gate := c.orderService.Gate(matches)
	if gate.AllConfident {
		order, err := c.orderService.PlaceOrder(ctx, store.CompanyId, store.Id, matches, msg.MessageId)
		if err != nil {
			if errors.Is(err, ErrNoMatchedItems) {
				reply := constant.ReplyNoMatchEN
				c.sendText(ctx, msg.From, reply)
				return c.result(store, constant.OutcomeNoMatch, reply, language)
			}
			return c.orderFailure(ctx, store, msg, language, err)
		}

		reply := c.orderPlacedReply(order, language)
		c.sendText(ctx, msg.From, reply)

		res := c.result(store, constant.OutcomeAutoOrder, reply, language)
		res.OrderId = &order.Id
		return res
	}

	// 4. At least one item needs a human answer; park the whole order.
	draft := &dto.OrderDraft{
		CompanyId:       store.CompanyId,
		StoreId:         store.Id,
		SourceMessageId: msg.MessageId,
		RawText:         parse.RawText,
		Language:        language,
		Matches:         matches,
		CreatedAt:       time.Now(),
	}
	if err := c.orderService.SaveDraft(ctx, draft); err != nil {
		return c.orderFailure(ctx, store, msg, language, err)
	}

	clarification := buildClarification(parse.RawText, gate.LowItems)
	body := fmt.Sprintf(
		pickReply(language, constant.ReplyClarificationEN, constant.ReplyClarificationHI),
		formatClarificationLines(clarification.Items),
	)
	c.sendButtons(ctx, msg.From, body, []whatsapp.Button{
		{Id: constant.InteractiveConfirmDraft, Title: constant.ButtonConfirmTitle},
		{Id: constant.InteractiveCancelDraft, Title: constant.ButtonCancelTitle},
	})

	res := c.result(store, constant.OutcomeClarification, body, language)
	res.Clarification = clarification
	return res
}

func (c *conversationService) handleRepeatPrompt(ctx context.Context, store *entity.Store, msg *dto.InboundMessage, language string) *dto.ConversationResult {
	last, err := c.orderService.LastOrder(ctx, store.Id)
	if err != nil {
		return c.apologize(ctx, msg.From, language, "last order lookup failed", err)
	}
	if last == nil {
		reply := constant.ReplyNoLastOrderEN
		c.sendText(ctx, msg.From, reply)
		return c.result(store, constant.OutcomeRepeatPrompt, reply, language)
	}

	body := fmt.Sprintf(constant.ReplyRepeatPromptEN, formatOrderLines(last.Items))
	c.sendButtons(ctx, msg.From, body, []whatsapp.Button{
		{Id: constant.InteractiveRepeatLastOrder, Title: constant.ButtonRepeatTitle},
	})
	return c.result(store, constant.OutcomeRepeatPrompt, body, language)
}

func (c *conversationService) handleInteractive(ctx context.Context, store *entity.Store, msg *dto.InboundMessage) *dto.ConversationResult {
	switch msg.InteractiveId {
	case constant.InteractiveConfirmDraft:
		order, err := c.orderService.ConfirmDraft(ctx, store.CompanyId, store.Id)
		if err != nil {
			if errors.Is(err, ErrNoMatchedItems) {
				reply := constant.ReplyNoMatchEN
				c.sendText(ctx, msg.From, reply)
				return c.result(store, constant.OutcomeNoMatch, reply, constant.LanguageEnglish)
			}
			return c.orderFailure(ctx, store, msg, constant.LanguageEnglish, err)
		}
		if order == nil {
			reply := constant.ReplyDraftExpiredEN
			c.sendText(ctx, msg.From, reply)
			return c.result(store, constant.OutcomeDraftExpired, reply, constant.LanguageEnglish)
		}

		reply := c.orderPlacedReply(order, constant.LanguageEnglish)
		c.sendText(ctx, msg.From, reply)

		res := c.result(store, constant.OutcomeDraftConfirmed, reply, constant.LanguageEnglish)
		res.OrderId = &order.Id
		return res

	case constant.InteractiveCancelDraft:
		found, err := c.orderService.CancelDraft(ctx, store.CompanyId, store.Id)
		if err != nil {
			return c.apologize(ctx, msg.From, constant.LanguageEnglish, "draft cancel failed", err)
		}

		reply := constant.ReplyDraftCancelledEN
		outcome := constant.OutcomeDraftCancelled
		if !found {
			reply = constant.ReplyDraftExpiredEN
			outcome = constant.OutcomeDraftExpired
		}
		c.sendText(ctx, msg.From, reply)
		return c.result(store, outcome, reply, constant.LanguageEnglish)

	case constant.InteractiveRepeatLastOrder:
		order, err := c.orderService.RepeatLast(ctx, store.Id, msg.MessageId)
		if err != nil {
			return c.orderFailure(ctx, store, msg, constant.LanguageEnglish, err)
		}
		if order == nil {
			reply := constant.ReplyNoLastOrderEN
			c.sendText(ctx, msg.From, reply)
			return c.result(store, constant.OutcomeRepeatPrompt, reply, constant.LanguageEnglish)
		}

		reply := c.orderPlacedReply(order, constant.LanguageEnglish)
		c.sendText(ctx, msg.From, reply)

		res := c.result(store, constant.OutcomeAutoOrder, reply, constant.LanguageEnglish)
		res.OrderId = &order.Id
		return res
	}

	c.sysLogger.Warn("ConversationService", "unknown interactive reply id ignored", map[string]interface{}{
		"interactive_id": msg.InteractiveId,
		"from":           msg.From,
	})
	return c.result(store, constant.OutcomeIgnored, "", constant.LanguageEnglish)
}

// apologize sends exactly one apology and swallows the root cause into the
// log. Callers return its result directly so a failure can never trigger a
// second reply.
func (c *conversationService) apologize(ctx context.Context, to, language, what string, err error) *dto.ConversationResult {
	c.sysLogger.Error("ConversationService", what, map[string]interface{}{
		"to":    to,
		"error": err.Error(),
	})

	reply := pickReply(language, constant.ReplyApologyEN, constant.ReplyApologyHI)
	c.sendText(ctx, to, reply)

	return &dto.ConversationResult{
		Outcome:  constant.OutcomeError,
		Reply:    reply,
		Language: language,
	}
}

// orderFailure is the apology path for failures after the sender committed
// to an order. Ops gets an email because the customer believes they ordered.
func (c *conversationService) orderFailure(ctx context.Context, store *entity.Store, msg *dto.InboundMessage, language string, err error) *dto.ConversationResult {
	res := c.apologize(ctx, msg.From, language, "order processing failed", err)
	res.StoreId = &store.Id

	if c.emailService != nil && c.opsAlertEmail != "" {
		if mailErr := c.emailService.SendOrderFailureAlert(c.opsAlertEmail, store.Name, msg.MessageId, err.Error()); mailErr != nil {
			c.sysLogger.Warn("ConversationService", "ops alert mail failed", map[string]interface{}{
				"error": mailErr.Error(),
			})
		}
	}

	return res
}

func (c *conversationService) sendText(ctx context.Context, to, body string) {
	if err := c.sender.SendText(ctx, to, body); err != nil {
		c.sysLogger.Error("ConversationService", "failed to send reply", map[string]interface{}{
			"to":    to,
			"error": err.Error(),
		})
	}
}

func (c *conversationService) sendButtons(ctx context.Context, to, body string, buttons []whatsapp.Button) {
	if err := c.sender.SendButtons(ctx, to, body, buttons); err != nil {
		c.sysLogger.Error("ConversationService", "failed to send interactive reply", map[string]interface{}{
			"to":    to,
			"error": err.Error(),
		})
	}
}

func (c *conversationService) result(store *entity.Store, outcome, reply, language string) *dto.ConversationResult {
	return &dto.ConversationResult{
		Outcome:  outcome,
		Reply:    reply,
		Language: language,
		StoreId:  &store.Id,
	}
}

func (c *conversationService) orderPlacedReply(order *entity.Order, language string) string {
	return fmt.Sprintf(
		pickReply(language, constant.ReplyOrderPlacedEN, constant.ReplyOrderPlacedHI),
		orderRef(order),
		formatOrderLines(order.Items),
		order.TotalAmount,
	)
}

func pickReply(language, en, hi string) string {
	if language == constant.LanguageHindi && hi != "" {
		return hi
	}
	return en
}

// orderRef is the short reference quoted back to the sender.
func orderRef(order *entity.Order) string {
	return strings.ToUpper(order.Id.String()[:8])
}

func formatOrderLines(items []entity.OrderLine) string {
	lines := make([]string, 0, len(items))
	for _, line := range items {
		qty := strconv.FormatFloat(line.Quantity, 'f', -1, 64)
		unit := ""
		if line.Unit != "" {
			unit = " " + line.Unit
		}
		lines = append(lines, fmt.Sprintf("- %s%s x %s = Rs %.2f", qty, unit, line.Name, line.LineTotal))
	}
	return strings.Join(lines, "\n")
}

func formatClarificationLines(items []dto.ClarificationItem) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		if item.BestGuess != "" {
			lines = append(lines, fmt.Sprintf(constant.ClarificationLineEN, item.Mention, item.BestGuess))
		} else {
			lines = append(lines, fmt.Sprintf(constant.ClarificationLineNoGuessEN, item.Mention))
		}
	}
	return strings.Join(lines, "\n")
}

func buildClarification(rawText string, lowItems []dto.MatchedItem) *dto.ClarificationPayload {
	items := make([]dto.ClarificationItem, 0, len(lowItems))
	for _, m := range lowItems {
		item := dto.ClarificationItem{
			Mention:    m.Mention.Name,
			Confidence: m.Confidence,
		}
		if m.Product != nil {
			item.BestGuess = m.Product.Name
		}
		items = append(items, item)
	}

	return &dto.ClarificationPayload{
		OriginalText: rawText,
		Items:        items,
	}
}

func allUnmatched(matches []dto.MatchedItem) bool {
	if len(matches) == 0 {
		return true
	}
	for _, m := range matches {
		if m.Product != nil {
			return false
		}
	}
	return true
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
