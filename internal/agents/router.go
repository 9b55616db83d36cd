package agents

import "strings"

// routeRule binds an agent kind to the keywords that select it. Rules are
// evaluated in slice order, so the slice order IS the routing priority.
type routeRule struct {
	kind     Kind
	keywords []string
}

// defaultRules encodes the routing policy: scheduler > docs > memory,
// with chat as the fallback for everything else. A message matching
// several keyword sets goes to the highest-priority kind ("remind me how
// to reset my password" is a scheduler message under this order).
var defaultRules = []routeRule{
	{
		kind: KindScheduler,
		keywords: []string{
			"schedule", "calendar", "appointment", "meeting", "reminder",
			"remind", "tomorrow", "today", "next week", "plan", "time", "date",
		},
	},
	{
		kind: KindDocs,
		keywords: []string{
			"search", "find", "lookup", "information", "explain", "what is",
			"how to", "help with", "documentation", "guide",
		},
	},
	{
		kind: KindMemory,
		keywords: []string{
			"remember", "forget", "recall", "you said", "we talked about",
			"last time", "before", "history",
		},
	},
}

// Router selects which agents handle a message. Stateless and safe for
// concurrent use.
type Router struct {
	rules []routeRule
}

// NewRouter creates a router with the default routing policy.
func NewRouter() *Router {
	return &Router{rules: defaultRules}
}

// Select returns the primary agent for a message plus the secondary
// agents that always run alongside it. Matching is case-insensitive;
// empty messages fall through to chat. There is no failure mode: chat is
// the guaranteed fallback.
func (r *Router) Select(message string) (Kind, []Kind) {
	secondary := []Kind{KindEmotion, KindMemory}

	lower := strings.ToLower(message)
	if strings.TrimSpace(lower) == "" {
		return KindChat, secondary
	}

	for _, rule := range r.rules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.kind, secondary
			}
		}
	}

	return KindChat, secondary
}
