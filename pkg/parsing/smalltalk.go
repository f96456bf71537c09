package parsing

import "regexp"

// Intent short-circuits. Greetings, help requests and repeat requests are
// answered without ever hitting the structuring service, so a "hi" costs
// nothing and cannot place an order. A message only counts when the whole
// text is the intent; "hello, send 2 kg sugar" must still reach the parser.

var (
	greetingPattern = regexp.MustCompile(`(?i)^\s*(?:hi+|hii+|hello|hey|hlo|good\s+(?:morning|afternoon|evening)|namaste|namaskar|ram\s*ram)\s*[.!?]*\s*$`)

	helpPattern = regexp.MustCompile(`(?i)^\s*(?:help|menu|how\s+(?:do(?:es)?\s+(?:this|it)\s+work|do\s+i\s+(?:order|use)|to\s+(?:order|use))|what\s+can\s+you\s+do|madad(?:\s+(?:karo|chahiye))?|kaise\s+(?:order|use)\s*(?:karu|kare|karen)?)\s*[.!?]*\s*$`)

	repeatPattern = regexp.MustCompile(`(?i)^\s*(?:repeat(?:\s+(?:my\s+)?(?:last\s+)?order)?|same\s+(?:as\s+)?(?:last\s+(?:time|order)|again)|(?:last|previous)\s+order\s+(?:again|repeat)|wahi\s+order(?:\s+dobara)?(?:\s+bhejo)?|phir\s+se(?:\s+bhejo)?|dobara(?:\s+bhejo)?)\s*[.!?]*\s*$`)
)

func IsGreeting(text string) bool {
	return greetingPattern.MatchString(text)
}

func IsHelpRequest(text string) bool {
	return helpPattern.MatchString(text)
}

func IsRepeatRequest(text string) bool {
	return repeatPattern.MatchString(text)
}
