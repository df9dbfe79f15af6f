// Command subtrack is the terminal front end for the subscription tracker.
// It is a pure consumer of the engine: every mutation goes through the
// service layer and the recomputed dashboard summary is what gets printed.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yogendrabaral1/subscription-tracker/internal/apperror"
	"github.com/yogendrabaral1/subscription-tracker/internal/config"
	"github.com/yogendrabaral1/subscription-tracker/internal/logger"
	"github.com/yogendrabaral1/subscription-tracker/internal/model"
	"github.com/yogendrabaral1/subscription-tracker/internal/notify"
	"github.com/yogendrabaral1/subscription-tracker/internal/repository"
	"github.com/yogendrabaral1/subscription-tracker/internal/service"
	"github.com/yogendrabaral1/subscription-tracker/internal/status"
	"github.com/yogendrabaral1/subscription-tracker/pkg/currency"
	"github.com/yogendrabaral1/subscription-tracker/pkg/datetime"
)

const usage = `Usage: subtrack <command> [flags]

Commands:
  add        add a subscription
  list       list all subscriptions
  show       show one subscription
  update     update fields of a subscription
  cancel     cancel a subscription (kept in history)
  delete     delete a subscription permanently
  dashboard  print the spending dashboard
  chat       talk to the subscription assistant
  settings   show or change the local profile
  remind     print pending reminders, or run the reminder daemon with -watch
  reset      wipe all local data
`

type app struct {
	cfg           config.Config
	subscriptions *service.SubscriptionService
	users         *service.UserService
	tracker       *service.Tracker
	chatbot       *service.Chatbot
	reminders     *notify.Scheduler
}

func main() {
	os.Exit(realMain())
}

func realMain() int {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}
	command := os.Args[1]
	args := os.Args[2:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithCommand(ctx, command)

	a, cleanup, err := newApp(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("startup failed", "error", err)
		return 1
	}
	defer cleanup()

	if err := a.run(ctx, command, args); err != nil {
		return exitCode(ctx, err)
	}
	return 0
}

// exitCode maps a command error to a message and process exit status.
// Validation mistakes are the user's to fix, so they get their own code.
func exitCode(ctx context.Context, err error) int {
	kind := apperror.GetKind(err)
	logger.FromContext(ctx).Debug("command failed", "kind", string(kind), "error", err)
	fmt.Fprintf(os.Stderr, "subtrack: %s\n", apperror.GetMessage(err))
	if kind == apperror.KindValidation {
		return 2
	}
	return 1
}

func newApp(ctx context.Context) (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	logger.Configure(cfg.IsProduction())

	db, err := repository.Open(cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = db.Close() }

	subRepo := repository.NewSubscriptionRepository(db)
	userRepo := repository.NewUserRepository(db)

	reminders := notify.New(notify.Config{Schedule: cfg.ReminderCheckSchedule}, notify.NotifierFunc(printReminder), logger.Logger())
	tracker := service.NewTracker(subRepo, reminders)

	users := service.NewUserService(userRepo)
	homeCurrency, reminderDays := profileDefaults(ctx, users, cfg)
	subscriptions := service.NewSubscriptionService(subRepo, tracker, homeCurrency, reminderDays)
	chatbot := service.NewChatbot(tracker, homeCurrency)

	if err := tracker.Start(ctx, cfg.MinReadyDuration); err != nil {
		// Degraded start: the dashboard is empty but usable.
		logger.FromContext(ctx).Warn("initial load failed", "error", err)
	}

	return &app{
		cfg:           cfg,
		subscriptions: subscriptions,
		users:         users,
		tracker:       tracker,
		chatbot:       chatbot,
		reminders:     reminders,
	}, cleanup, nil
}

// profileDefaults prefers the saved profile's currency and reminder lead over
// the config file defaults.
func profileDefaults(ctx context.Context, users *service.UserService, cfg config.Config) (string, int) {
	homeCurrency := cfg.HomeCurrency
	reminderDays := cfg.DefaultReminderDays
	if user, err := users.Get(ctx); err == nil && user != nil {
		if user.Currency != "" {
			homeCurrency = user.Currency
		}
		reminderDays = user.DefaultReminderDays
	}
	return homeCurrency, reminderDays
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "add":
		return a.cmdAdd(ctx, args)
	case "list":
		return a.cmdList(ctx)
	case "show":
		return a.cmdShow(ctx, args)
	case "update":
		return a.cmdUpdate(ctx, args)
	case "cancel":
		return a.cmdCancel(ctx, args)
	case "delete":
		return a.cmdDelete(ctx, args)
	case "dashboard":
		return a.cmdDashboard(ctx)
	case "chat":
		return a.cmdChat(ctx, args)
	case "settings":
		return a.cmdSettings(ctx, args)
	case "remind":
		return a.cmdRemind(ctx, args)
	case "reset":
		return a.cmdReset(ctx, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) cmdAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	name := fs.String("name", "", "display name (required)")
	provider := fs.String("provider", "", "vendor name")
	category := fs.String("category", string(model.CategoryOther), categoryHelp())
	amount := fs.String("amount", "", "amount per billing cycle (required)")
	curr := fs.String("currency", "", "currency code (defaults to home currency)")
	cycle := fs.String("cycle", string(model.CycleMonthly), "weekly|monthly|quarterly|yearly")
	autoPay := fs.Bool("autopay", false, "renews automatically")
	next := fs.String("next", "", "next billing date YYYY-MM-DD (auto-pay)")
	expires := fs.String("expires", "", "expiry date YYYY-MM-DD (manual)")
	remind := fs.Int("remind", -1, "reminder days before expiry (manual)")
	desc := fs.String("desc", "", "description")
	if err := fs.Parse(args); err != nil {
		return err
	}

	amt, err := decimal.NewFromString(*amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q", *amount)
	}

	input := service.CreateSubscriptionInput{
		Name:             *name,
		Provider:         *provider,
		Category:         model.Category(*category),
		Amount:           amt,
		Currency:         *curr,
		BillingCycle:     model.BillingCycle(*cycle),
		IsAutoPayEnabled: *autoPay,
		Description:      *desc,
	}
	if input.NextBillingDate, err = parseDateFlag(*next); err != nil {
		return err
	}
	if input.ExpiryDate, err = parseDateFlag(*expires); err != nil {
		return err
	}
	if *remind >= 0 {
		input.ReminderDays = remind
	}

	sub, err := a.subscriptions.Create(ctx, input)
	if err != nil {
		return err
	}
	fmt.Printf("Added %s (%s)\n", sub.Name, sub.ID)
	return nil
}

func (a *app) cmdList(ctx context.Context) error {
	subs, err := a.subscriptions.List(ctx)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		fmt.Println("No subscriptions yet. Add one with 'subtrack add'.")
		return nil
	}
	now := time.Now()
	for i := range subs {
		printSubscriptionLine(&subs[i], now)
	}
	return nil
}

func (a *app) cmdShow(ctx context.Context, args []string) error {
	id, err := idFromArgs("show", args)
	if err != nil {
		return err
	}
	sub, err := a.subscriptions.GetByID(ctx, id)
	if err != nil {
		return err
	}

	now := time.Now()
	fmt.Printf("%s\n", sub.Name)
	if sub.Provider != "" {
		fmt.Printf("  Provider:  %s\n", sub.Provider)
	}
	fmt.Printf("  Category:  %s\n", sub.Category)
	fmt.Printf("  Amount:    %s / %s\n", currency.Format(sub.Amount, sub.Currency), sub.BillingCycle)
	fmt.Printf("  Status:    %s / %s\n", status.Classify(sub, now), status.ClassifyBillingMode(sub))
	switch sched := sub.Schedule().(type) {
	case model.AutoPaySchedule:
		if sched.NextBillingDate != nil {
			fmt.Printf("  Next bill: %s\n", datetime.FormatDisplay(*sched.NextBillingDate))
		}
	case model.ManualSchedule:
		if sched.ExpiryDate != nil {
			fmt.Printf("  Expires:   %s (reminder %d days before)\n",
				datetime.FormatDisplay(*sched.ExpiryDate), sched.ReminderDays)
		}
	}
	if sub.Description != "" {
		fmt.Printf("  Notes:     %s\n", sub.Description)
	}
	fmt.Printf("  ID:        %s\n", sub.ID)
	return nil
}

func (a *app) cmdUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	idArg := fs.String("id", "", "subscription id (required)")
	name := fs.String("name", "", "display name")
	provider := fs.String("provider", "", "vendor name")
	category := fs.String("category", "", categoryHelp())
	amount := fs.String("amount", "", "amount per billing cycle")
	curr := fs.String("currency", "", "currency code")
	cycle := fs.String("cycle", "", "billing cycle")
	autoPay := fs.String("autopay", "", "true|false")
	next := fs.String("next", "", "next billing date YYYY-MM-DD")
	expires := fs.String("expires", "", "expiry date YYYY-MM-DD")
	remind := fs.Int("remind", -1, "reminder days before expiry")
	desc := fs.String("desc", "", "description")
	active := fs.String("active", "", "true|false")
	if err := fs.Parse(args); err != nil {
		return err
	}

	id, err := uuid.Parse(*idArg)
	if err != nil {
		return fmt.Errorf("invalid subscription id %q", *idArg)
	}
	ctx = logger.WithSubscriptionID(ctx, id.String())

	var input service.UpdateSubscriptionInput
	if *name != "" {
		input.Name = name
	}
	if *provider != "" {
		input.Provider = provider
	}
	if *category != "" {
		c := model.Category(*category)
		input.Category = &c
	}
	if *amount != "" {
		amt, err := decimal.NewFromString(*amount)
		if err != nil {
			return fmt.Errorf("invalid amount %q", *amount)
		}
		input.Amount = &amt
	}
	if *curr != "" {
		input.Currency = curr
	}
	if *cycle != "" {
		c := model.BillingCycle(*cycle)
		input.BillingCycle = &c
	}
	if input.IsAutoPayEnabled, err = parseBoolFlag(*autoPay); err != nil {
		return err
	}
	if input.NextBillingDate, err = parseDateFlag(*next); err != nil {
		return err
	}
	if input.ExpiryDate, err = parseDateFlag(*expires); err != nil {
		return err
	}
	if *remind >= 0 {
		input.ReminderDays = remind
	}
	if *desc != "" {
		input.Description = desc
	}
	if input.IsActive, err = parseBoolFlag(*active); err != nil {
		return err
	}

	sub, err := a.subscriptions.Update(ctx, id, input)
	if err != nil {
		return err
	}
	fmt.Printf("Updated %s\n", sub.Name)
	return nil
}

func (a *app) cmdCancel(ctx context.Context, args []string) error {
	id, err := idFromArgs("cancel", args)
	if err != nil {
		return err
	}
	sub, err := a.subscriptions.Cancel(logger.WithSubscriptionID(ctx, id.String()), id)
	if err != nil {
		return err
	}
	fmt.Printf("Cancelled %s (record kept in history)\n", sub.Name)
	return nil
}

func (a *app) cmdDelete(ctx context.Context, args []string) error {
	id, err := idFromArgs("delete", args)
	if err != nil {
		return err
	}
	if err := a.subscriptions.Delete(logger.WithSubscriptionID(ctx, id.String()), id); err != nil {
		return err
	}
	fmt.Println("Deleted.")
	return nil
}

func (a *app) cmdDashboard(ctx context.Context) error {
	if err := a.tracker.WaitReady(ctx); err != nil {
		return err
	}
	sum, ok := a.tracker.Summary()
	if !ok {
		fmt.Println("Dashboard is still loading.")
		return nil
	}

	home := a.cfg.HomeCurrency
	fmt.Printf("Monthly spending: %s\n", currency.Format(sum.TotalMonthlySpending, home))
	fmt.Printf("Yearly spending:  %s\n", currency.Format(sum.TotalYearlySpending, home))
	fmt.Printf("Active:           %d\n", sum.ActiveSubscriptions)

	now := time.Now()
	if len(sum.UpcomingRenewals) > 0 {
		fmt.Println("\nUpcoming renewals (30 days):")
		for i := range sum.UpcomingRenewals {
			printSubscriptionLine(&sum.UpcomingRenewals[i], now)
		}
	}
	if len(sum.ExpiringSoon) > 0 {
		fmt.Println("\nExpiring soon (7 days):")
		for i := range sum.ExpiringSoon {
			printSubscriptionLine(&sum.ExpiringSoon[i], now)
		}
	}
	if len(sum.MonthlyBreakdown) > 0 {
		fmt.Println("\nMonthly spend by category:")
		for _, cat := range sum.MonthlyBreakdown {
			fmt.Printf("  %-14s %s (%d)\n", cat.Category, currency.Format(cat.Amount, home), cat.Count)
		}
	}
	return nil
}

func (a *app) cmdChat(ctx context.Context, args []string) error {
	if err := a.tracker.WaitReady(ctx); err != nil {
		return err
	}
	if len(args) > 0 {
		printChatResponse(a.chatbot.Reply(strings.Join(args, " ")))
		return nil
	}

	fmt.Println("Subscription assistant. Type a question, or 'quit' to leave.")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		printChatResponse(a.chatbot.Reply(line))
	}
}

func (a *app) cmdSettings(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("settings", flag.ContinueOnError)
	name := fs.String("name", "", "profile name")
	email := fs.String("email", "", "email address")
	curr := fs.String("currency", "", "home currency code")
	theme := fs.String("theme", "", "light|dark")
	remind := fs.Int("remind", -1, "default reminder days")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.users.Get(ctx)
	if err != nil {
		return err
	}

	// No flags: just print the current profile.
	if *name == "" && *email == "" && *curr == "" && *theme == "" && *remind < 0 {
		if user == nil {
			fmt.Println("No profile yet. Set one with 'subtrack settings -name ... -currency ...'.")
			return nil
		}
		fmt.Printf("Name:           %s\n", user.Name)
		fmt.Printf("Email:          %s\n", user.Email)
		fmt.Printf("Currency:       %s\n", user.Currency)
		fmt.Printf("Theme:          %s\n", user.Theme)
		fmt.Printf("Reminder days:  %d\n", user.DefaultReminderDays)
		return nil
	}

	input := service.SaveUserInput{Theme: model.ThemeLight}
	if user != nil {
		input = service.SaveUserInput{
			Name:                user.Name,
			Email:               user.Email,
			DefaultReminderDays: user.DefaultReminderDays,
			Theme:               user.Theme,
			Currency:            user.Currency,
		}
	}
	if *name != "" {
		input.Name = *name
	}
	if *email != "" {
		input.Email = *email
	}
	if *curr != "" {
		input.Currency = *curr
	}
	if *theme != "" {
		input.Theme = model.Theme(*theme)
	}
	if *remind >= 0 {
		input.DefaultReminderDays = *remind
	}

	if _, err := a.users.Save(ctx, input); err != nil {
		return err
	}
	fmt.Println("Settings saved.")
	return nil
}

func (a *app) cmdRemind(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("remind", flag.ContinueOnError)
	watch := fs.Bool("watch", false, "keep running and fire reminders as they come due")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.tracker.WaitReady(ctx); err != nil {
		return err
	}

	pending := a.reminders.Pending()
	if len(pending) == 0 {
		fmt.Println("No reminders planned.")
	} else {
		fmt.Printf("%d planned %s:\n", len(pending), plural("reminder", len(pending)))
		for _, entry := range pending {
			fmt.Printf("  %s  %s\n", entry.FireAt.Format("2006-01-02 15:04"), entry.Body)
		}
	}
	if !*watch {
		return nil
	}

	if err := a.reminders.Start(); err != nil {
		return err
	}
	defer a.reminders.Stop()
	fmt.Println("Watching for due reminders. Ctrl-C to stop.")
	<-ctx.Done()
	return nil
}

func (a *app) cmdReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "confirm wiping all local data")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !*yes {
		return fmt.Errorf("refusing to wipe data without -yes")
	}
	if err := a.subscriptions.Reset(ctx); err != nil {
		return err
	}
	fmt.Println("All local data cleared.")
	return nil
}

func printSubscriptionLine(sub *model.Subscription, now time.Time) {
	line := fmt.Sprintf("  %-20s %10s / %-9s %s",
		sub.Name, currency.Format(sub.Amount, sub.Currency), sub.BillingCycle,
		status.Classify(sub, now))
	if date := sub.Schedule().TargetDate(); date != nil && sub.IsActive {
		line += fmt.Sprintf("  (%s)", datetime.FormatDate(*date))
	}
	fmt.Println(line)
}

func printChatResponse(resp service.ChatResponse) {
	fmt.Println(resp.Text)
	if len(resp.Suggestions) > 0 {
		fmt.Printf("\n[%s]\n", strings.Join(resp.Suggestions, " | "))
	}
}

func printReminder(entry model.ReminderEntry) {
	fmt.Printf("\n*** %s: %s\n", entry.Title, entry.Body)
}

func idFromArgs(command string, args []string) (uuid.UUID, error) {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	idArg := fs.String("id", "", "subscription id (required)")
	if err := fs.Parse(args); err != nil {
		return uuid.Nil, err
	}
	raw := *idArg
	if raw == "" && fs.NArg() > 0 {
		raw = fs.Arg(0)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid subscription id %q", raw)
	}
	return id, nil
}

func parseDateFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := datetime.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
	}
	return &t, nil
}

func parseBoolFlag(value string) (*bool, error) {
	switch value {
	case "":
		return nil, nil
	case "true":
		b := true
		return &b, nil
	case "false":
		b := false
		return &b, nil
	default:
		return nil, fmt.Errorf("invalid boolean %q, want true or false", value)
	}
}

// categoryHelp builds the category flag usage from the known set, so new
// categories show up without touching the CLI.
func categoryHelp() string {
	cats := model.Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return strings.Join(names, "|")
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
