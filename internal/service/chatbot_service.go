package service

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/yogendrabaral1/subscription-tracker/internal/model"
	"github.com/yogendrabaral1/subscription-tracker/pkg/currency"
	"github.com/yogendrabaral1/subscription-tracker/pkg/datetime"
)

// SummarySource is the read-only view the chatbot is allowed: the published
// dashboard summary and the subscription list. The chatbot never mutates
// either.
type SummarySource interface {
	Summary() (*model.DashboardSummary, bool)
	Subscriptions() []model.Subscription
}

// ChatResponse is a single chatbot reply: the text plus suggestion chips for
// follow-up questions.
type ChatResponse struct {
	Text        string   `json:"text"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// chatRule pairs a predicate with its handler. Rules are evaluated in
// declaration order with first-match-wins semantics, so broader keyword
// groups must come after narrower ones.
type chatRule struct {
	name    string
	matches func(message string) bool
	handle  func(c *Chatbot, message string) ChatResponse
}

// Chatbot is the rule-based conversational helper. It is a thin presentation
// layer over the aggregation engine's outputs, decoupled from its internals.
type Chatbot struct {
	source       SummarySource
	homeCurrency string
	now          func() time.Time
	rules        []chatRule
}

// NewChatbot creates a Chatbot reading from the given source. homeCurrency is
// used to format summary totals.
func NewChatbot(source SummarySource, homeCurrency string) *Chatbot {
	if homeCurrency == "" {
		homeCurrency = string(currency.DefaultCurrency)
	}
	c := &Chatbot{
		source:       source,
		homeCurrency: homeCurrency,
		now:          time.Now,
	}
	c.rules = []chatRule{
		{name: "greeting", matches: anyKeyword("hello", "hi", "hey", "good morning", "good afternoon", "good evening"), handle: (*Chatbot).greeting},
		{name: "help", matches: anyKeyword("help", "what can you do", "commands", "options"), handle: (*Chatbot).help},
		{name: "spending", matches: anyKeyword("spending", "spend", "total", "cost", "money"), handle: (*Chatbot).spending},
		{name: "upcoming", matches: anyKeyword("upcoming", "renewal", "due", "next", "billing"), handle: (*Chatbot).upcomingRenewals},
		{name: "count", matches: anyKeyword("how many", "count"), handle: (*Chatbot).subscriptionCount},
		{name: "breakdown", matches: anyKeyword("category", "breakdown", "categories"), handle: (*Chatbot).categoryBreakdown},
		{name: "expiring", matches: anyKeyword("expiring", "expire", "soon", "ending", "expired"), handle: (*Chatbot).expiringSoon},
		{name: "add", matches: anyKeyword("add", "new subscription", "create", "subscribe"), handle: (*Chatbot).addGuidance},
		{name: "list", matches: anyKeyword("list", "show all", "all subscriptions", "my subscriptions", "subscriptions"), handle: (*Chatbot).listSubscriptions},
		{name: "search", matches: anyKeyword("find", "search", "look for", "where is"), handle: (*Chatbot).search},
		{name: "analytics", matches: anyKeyword("analytics", "insights", "analysis", "report", "summary"), handle: (*Chatbot).analytics},
		{name: "budget", matches: anyKeyword("budget", "save", "savings", "reduce", "cut", "cancel"), handle: (*Chatbot).budgetTips},
	}
	return c
}

// Reply processes one user message through the rule list. Unmatched messages
// get the fallback response; the chatbot never errors.
func (c *Chatbot) Reply(message string) ChatResponse {
	normalized := strings.ToLower(strings.TrimSpace(message))
	for _, rule := range c.rules {
		if rule.matches(normalized) {
			return rule.handle(c, normalized)
		}
	}
	return ChatResponse{
		Text:        "I'm not sure I understand. Try asking me about your spending, upcoming renewals, or subscription count. You can also say 'help' to see what I can do!",
		Suggestions: []string{"Help", "Show spending", "List subscriptions", "Upcoming renewals"},
	}
}

func anyKeyword(keywords ...string) func(string) bool {
	return func(message string) bool {
		for _, kw := range keywords {
			if strings.Contains(message, kw) {
				return true
			}
		}
		return false
	}
}

// summaryOrEmpty hides the loading state from the rules: before the first
// load the chatbot answers as if there were zero subscriptions.
func (c *Chatbot) summaryOrEmpty() *model.DashboardSummary {
	if sum, ok := c.source.Summary(); ok {
		return sum
	}
	return &model.DashboardSummary{}
}

func (c *Chatbot) greeting(string) ChatResponse {
	return ChatResponse{
		Text:        "Hello! I'm your subscription assistant. How can I help you manage your subscriptions today?",
		Suggestions: []string{"Show my spending", "Upcoming renewals", "Add subscription", "Help"},
	}
}

func (c *Chatbot) help(string) ChatResponse {
	return ChatResponse{
		Text: "I can help you with:\n" +
			"- View spending summaries and breakdowns\n" +
			"- Check upcoming renewals and expiring subscriptions\n" +
			"- List and manage your subscriptions\n" +
			"- Find specific subscriptions\n" +
			"- Answer questions about your data\n\n" +
			"What would you like to know?",
		Suggestions: []string{"Show spending", "List subscriptions", "Upcoming renewals", "Category breakdown"},
	}
}

func (c *Chatbot) spending(string) ChatResponse {
	sum := c.summaryOrEmpty()
	text := fmt.Sprintf("Here's your spending summary:\nMonthly: %s\nYearly: %s\nActive subscriptions: %d",
		currency.Format(sum.TotalMonthlySpending, c.homeCurrency),
		currency.Format(sum.TotalYearlySpending, c.homeCurrency),
		sum.ActiveSubscriptions)
	return ChatResponse{
		Text:        text,
		Suggestions: []string{"Category breakdown", "Upcoming renewals", "Analytics", "Budget tips"},
	}
}

func (c *Chatbot) upcomingRenewals(string) ChatResponse {
	sum := c.summaryOrEmpty()
	if len(sum.UpcomingRenewals) == 0 {
		return ChatResponse{
			Text:        "Great news! You have no upcoming renewals in the next 30 days.",
			Suggestions: []string{"Show all subscriptions", "Add subscription", "Spending summary"},
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d upcoming %s:\n\n", len(sum.UpcomingRenewals), plural("renewal", len(sum.UpcomingRenewals)))
	for i, sub := range sum.UpcomingRenewals {
		if i == 5 {
			fmt.Fprintf(&b, "\n... and %d more", len(sum.UpcomingRenewals)-5)
			break
		}
		c.writeDatedLine(&b, i, sub)
	}
	return ChatResponse{
		Text:        b.String(),
		Suggestions: []string{"Show all", "Spending summary", "Category breakdown"},
	}
}

func (c *Chatbot) subscriptionCount(string) ChatResponse {
	subs := c.source.Subscriptions()
	var active, autoPay, manual int
	for _, sub := range subs {
		if !sub.IsActive {
			continue
		}
		active++
		if sub.IsAutoPayEnabled {
			autoPay++
		} else {
			manual++
		}
	}
	text := fmt.Sprintf("Your subscription overview:\nTotal: %d subscriptions\nActive: %d\nAuto-pay: %d\nManual: %d",
		len(subs), active, autoPay, manual)
	if len(subs) == 0 {
		text += "\n\nAdd your first subscription to get started!"
	}
	return ChatResponse{
		Text:        text,
		Suggestions: []string{"List all", "Add subscription", "Spending summary"},
	}
}

func (c *Chatbot) categoryBreakdown(string) ChatResponse {
	sum := c.summaryOrEmpty()
	if len(sum.MonthlyBreakdown) == 0 {
		return ChatResponse{
			Text:        "No category breakdown available yet. Add some subscriptions to see your spending by category!",
			Suggestions: []string{"Add subscription", "Show spending", "List subscriptions"},
		}
	}

	var b strings.Builder
	b.WriteString("Your spending by category:\n\n")
	for i, cat := range sum.MonthlyBreakdown {
		fmt.Fprintf(&b, "%d. %s: %s (%d %s)\n", i+1, cat.Category,
			currency.Format(cat.Amount, c.homeCurrency), cat.Count, plural("subscription", cat.Count))
	}
	return ChatResponse{
		Text:        b.String(),
		Suggestions: []string{"Show spending", "Upcoming renewals", "Analytics"},
	}
}

func (c *Chatbot) expiringSoon(string) ChatResponse {
	sum := c.summaryOrEmpty()
	if len(sum.ExpiringSoon) == 0 {
		return ChatResponse{
			Text:        "No subscriptions are expiring soon. You're all set!",
			Suggestions: []string{"Upcoming renewals", "Show spending", "List subscriptions"},
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d %s expiring soon:\n\n", len(sum.ExpiringSoon), plural("subscription", len(sum.ExpiringSoon)))
	for i, sub := range sum.ExpiringSoon {
		c.writeDatedLine(&b, i, sub)
	}
	return ChatResponse{
		Text:        b.String(),
		Suggestions: []string{"Renew now", "Show all", "Spending summary"},
	}
}

func (c *Chatbot) addGuidance(string) ChatResponse {
	return ChatResponse{
		Text:        "I can help you add a new subscription! Run 'subtrack add' with the name, amount, and billing cycle.",
		Suggestions: []string{"Show me how", "What do I need?", "List subscriptions"},
	}
}

func (c *Chatbot) listSubscriptions(string) ChatResponse {
	subs := c.source.Subscriptions()
	if len(subs) == 0 {
		return ChatResponse{
			Text:        "You don't have any subscriptions yet. Add your first one to get started!",
			Suggestions: []string{"Add subscription", "Help", "Show spending"},
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your %d %s:\n\n", len(subs), plural("subscription", len(subs)))
	for i, sub := range subs {
		mode := "Manual"
		if sub.IsAutoPayEnabled {
			mode = "Auto-pay"
		}
		state := "active"
		if !sub.IsActive {
			state = "cancelled"
		}
		fmt.Fprintf(&b, "%d. %s - %s (%s, %s)\n", i+1, sub.Name,
			currency.Format(sub.Amount, sub.Currency), mode, state)
	}
	return ChatResponse{
		Text:        b.String(),
		Suggestions: []string{"Spending summary", "Upcoming renewals", "Category breakdown"},
	}
}

var searchTermPattern = regexp.MustCompile(`\b(find|search( for)?|look for|where is)\b`)

func (c *Chatbot) search(message string) ChatResponse {
	term := strings.TrimSpace(searchTermPattern.ReplaceAllString(message, ""))
	if term == "" {
		return ChatResponse{
			Text:        "What would you like me to search for? Try saying 'find Netflix' or 'search for Spotify'.",
			Suggestions: []string{"List all", "Show spending", "Help"},
		}
	}

	var results []model.Subscription
	for _, sub := range c.source.Subscriptions() {
		if strings.Contains(strings.ToLower(sub.Name), term) ||
			strings.Contains(strings.ToLower(string(sub.Category)), term) ||
			strings.Contains(strings.ToLower(sub.Provider), term) {
			results = append(results, sub)
		}
	}

	if len(results) == 0 {
		return ChatResponse{
			Text:        fmt.Sprintf("No subscriptions found matching %q. Try a different search term.", term),
			Suggestions: []string{"List all", "Show spending", "Help"},
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d %s matching %q:\n\n", len(results), plural("subscription", len(results)), term)
	for i, sub := range results {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, sub.Name, currency.Format(sub.Amount, sub.Currency))
	}
	return ChatResponse{
		Text:        b.String(),
		Suggestions: []string{"Show spending", "Upcoming renewals", "List all"},
	}
}

func (c *Chatbot) analytics(string) ChatResponse {
	sum := c.summaryOrEmpty()
	var b strings.Builder
	b.WriteString("Your subscription analytics:\n\n")
	fmt.Fprintf(&b, "Monthly spending: %s\n", currency.Format(sum.TotalMonthlySpending, c.homeCurrency))
	fmt.Fprintf(&b, "Yearly spending: %s\n", currency.Format(sum.TotalYearlySpending, c.homeCurrency))
	fmt.Fprintf(&b, "Active subscriptions: %d\n", sum.ActiveSubscriptions)

	if len(sum.MonthlyBreakdown) > 0 {
		b.WriteString("\nTop categories:\n")
		for i, cat := range sum.MonthlyBreakdown {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "%d. %s: %s\n", i+1, cat.Category, currency.Format(cat.Amount, c.homeCurrency))
		}
	}
	return ChatResponse{
		Text:        b.String(),
		Suggestions: []string{"Category breakdown", "Spending summary", "Upcoming renewals"},
	}
}

func (c *Chatbot) budgetTips(string) ChatResponse {
	sum := c.summaryOrEmpty()
	if sum.TotalMonthlySpending.IsZero() {
		return ChatResponse{
			Text:        "You don't have any subscriptions yet, so no budget concerns! Add some subscriptions to start tracking your spending.",
			Suggestions: []string{"Add subscription", "Help", "Show spending"},
		}
	}

	var b strings.Builder
	b.WriteString("Budget tips for your subscriptions:\n\n")
	fmt.Fprintf(&b, "Current monthly spending: %s\n", currency.Format(sum.TotalMonthlySpending, c.homeCurrency))
	if len(sum.MonthlyBreakdown) > 0 {
		top := sum.MonthlyBreakdown[0]
		fmt.Fprintf(&b, "Highest spending category: %s (%s)\n", top.Category, currency.Format(top.Amount, c.homeCurrency))
	}
	b.WriteString("\nTips to save money:\n")
	b.WriteString("- Review unused subscriptions\n")
	b.WriteString("- Consider annual plans for savings\n")
	b.WriteString("- Cancel duplicate services\n")
	return ChatResponse{
		Text:        b.String(),
		Suggestions: []string{"List subscriptions", "Show spending", "Upcoming renewals"},
	}
}

func (c *Chatbot) writeDatedLine(b *strings.Builder, index int, sub model.Subscription) {
	fmt.Fprintf(b, "%d. %s - %s", index+1, sub.Name, currency.Format(sub.Amount, sub.Currency))
	if date := sub.Schedule().TargetDate(); date != nil {
		days := datetime.DaysUntil(*date, c.now())
		fmt.Fprintf(b, " (%d %s - %s)", days, plural("day", days), datetime.FormatDisplay(*date))
	}
	b.WriteString("\n")
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
