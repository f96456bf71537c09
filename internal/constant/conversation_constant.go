package constant

// MessageKind is the closed set of inbound channel event kinds. Routing
// switches over this type exhaustively; anything the channel sends that we
// do not recognize maps to MessageKindUnknown and is logged, never replied to.
type MessageKind string

const (
	MessageKindText              MessageKind = "text"
	MessageKindAudio             MessageKind = "audio"
	MessageKindImage             MessageKind = "image"
	MessageKindInteractiveButton MessageKind = "interactiveButton"
	MessageKindInteractiveList   MessageKind = "interactiveList"
	MessageKindStatus            MessageKind = "status"
	MessageKindUnknown           MessageKind = "unknown"
)

const (
	ChannelWhatsApp = "whatsapp"

	// Interactive reply ids the gateway understands.
	InteractiveRepeatLastOrder = "repeat_last"
	InteractiveConfirmDraft    = "confirm_draft"
	InteractiveCancelDraft     = "cancel_draft"

	LanguageEnglish = "en"
	LanguageHindi   = "hi"
)

// Conversation outcomes, recorded per processed message.
const (
	OutcomeAutoOrder      = "auto_order"
	OutcomeClarification  = "clarification"
	OutcomeGreeting       = "greeting"
	OutcomeHelp           = "help"
	OutcomeRepeatPrompt   = "repeat_prompt"
	OutcomeNotRegistered  = "not_registered"
	OutcomeUnparseable    = "unparseable"
	OutcomeNoMatch        = "no_match"
	OutcomeDraftConfirmed = "draft_confirmed"
	OutcomeDraftCancelled = "draft_cancelled"
	OutcomeDraftExpired   = "draft_expired"
	OutcomeStatusLogged   = "status_logged"
	OutcomeIgnored        = "ignored"
	OutcomeError          = "error"
)

// Reply templates. The Hindi variant is used when the inbound message looks
// Hindi; everything else gets English.
const (
	ReplyGreetingEN = "Hello! I can take your order, repeat your last order, or answer questions about ordering. Just send your order as a message, voice note, or a photo of your list."
	ReplyGreetingHI = "Namaste! Main aapka order le sakta hoon. Apna order message, voice note ya list ki photo bhej dijiye."

	ReplyHelpEN = "Send your order like: \"2 cases Maggi Noodles, 5 kg sugar\". You can also send a voice note or a photo of your written list. Reply with the Repeat button to re-order your last order."
	ReplyHelpHI = "Apna order aise bhejiye: \"2 case Maggi Noodles, 5 kg cheeni\". Voice note ya likhi hui list ki photo bhi chalegi."

	ReplyNotRegisteredEN = "This number is not registered with any store yet. Please ask your distributor to register your store, then try again."

	ReplyUnparseableEN = "Sorry, I could not find any items in that message. Please send your order like: \"2 cases Maggi Noodles, 5 kg sugar\"."
	ReplyUnparseableHI = "Maaf kijiye, mujhe is message me koi item nahi mila. Kripya aise bhejiye: \"2 case Maggi Noodles, 5 kg cheeni\"."

	ReplyApologyEN = "Sorry, something went wrong while processing your message. Please try again in a few minutes."
	ReplyApologyHI = "Maaf kijiye, aapka message process karte samay kuch galat ho gaya. Kripya thodi der baad dobara koshish kijiye."

	ReplyNoMatchEN = "Sorry, I could not match any item in your message to our catalog. Please check the product names and try again."

	// %s order reference, %s item lines, %.2f total.
	ReplyOrderPlacedEN = "Order %s placed with status pending:\n%s\nTotal: Rs %.2f"
	ReplyOrderPlacedHI = "Order %s darj ho gaya (pending):\n%s\nTotal: Rs %.2f"

	// %s item lines of the last order.
	ReplyRepeatPromptEN = "Your last order was:\n%s\nTap Repeat to place it again."

	ReplyNoLastOrderEN = "I could not find a previous order for your store yet. Send a new order to get started."

	// %s clarification question lines.
	ReplyClarificationEN = "I need a quick check on a few items:\n%s\nTap Confirm to place the order with my best guesses, or Cancel to discard it."
	ReplyClarificationHI = "Kuch items confirm karne hain:\n%s\nConfirm dabaiye to order mere best guess ke saath darj hoga, Cancel dabaiye to hata denge."

	// %s original mention, %s best-guess product name.
	ClarificationLineEN = "- By \"%s\", did you mean \"%s\"?"
	// %s original mention with no candidate at all.
	ClarificationLineNoGuessEN = "- I could not find \"%s\" in the catalog."

	ReplyDraftCancelledEN = "Okay, I discarded that order. Send a new one whenever you are ready."
	ReplyDraftExpiredEN   = "That pending order has expired. Please send your order again."
)

// Button labels for interactive replies.
const (
	ButtonConfirmTitle = "Confirm"
	ButtonCancelTitle  = "Cancel"
	ButtonRepeatTitle  = "Repeat"
)
