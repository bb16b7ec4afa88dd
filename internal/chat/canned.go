package chat

import "strings"

// CannedReply answers prompts starting with Prefix without calling the model.
type CannedReply struct {
	Prefix string
	Reply  string
}

// CannedReplies is checked in order; the first matching prefix wins.
// A nil table matches nothing.
type CannedReplies []CannedReply

func DefaultGreetings() CannedReplies {
	return CannedReplies{
		{Prefix: "hello", Reply: "Hello! Ask me anything about the uploaded PDF."},
		{Prefix: "hi", Reply: "Hi! Ask me anything about the uploaded PDF."},
		{Prefix: "hey", Reply: "Hey! Ask me anything about the uploaded PDF."},
		{Prefix: "thanks", Reply: "You're welcome!"},
		{Prefix: "thank you", Reply: "You're welcome!"},
	}
}

// Match compares the prompt's leading word(s) case-insensitively, so
// "hi there" matches "hi" but "history of..." does not.
func (c CannedReplies) Match(prompt string) (string, bool) {
	p := strings.ToLower(strings.TrimSpace(prompt))
	for _, r := range c {
		pre := strings.ToLower(r.Prefix)
		if pre == "" || !strings.HasPrefix(p, pre) {
			continue
		}
		rest := p[len(pre):]
		if rest == "" || strings.IndexAny(rest[:1], " \t\n!?.,") == 0 {
			return r.Reply, true
		}
	}
	return "", false
}
