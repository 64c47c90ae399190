package main

import (
	"bufio"
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"discorde/domain"
	"discorde/errors"
	"discorde/infrastructure/rest"
	"discorde/internal"
	"discorde/observability"
	"discorde/services"
	"discorde/session"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "discorde error: %v\n", err)
	}
	os.Exit(code)
}

// run wires configuration, the session database, and the data-layer services,
// then hands control to the interactive loop. This pattern keeps deferred
// cleanup (database close, channel teardown) working on every exit path.
func run() (int, error) {
	// 1. Load configuration from .env and environment variables.
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Session database (BadgerDB).
	options := badger.DefaultOptions(config.SessionDBPath).WithLoggingLevel(badger.WARNING)
	db, err := badger.Open(options)
	if err != nil {
		return exitRuntime, fmt.Errorf("session database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing session database...")
		_ = db.Close()
	}()

	store, err := session.New(db, log)
	if err != nil {
		return exitRuntime, err
	}

	// 4. Data-layer clients.
	monitor := observability.NewMonitor()
	api := rest.New(config.APIBaseURL, config.HTTPTimeout, monitor, log)

	a := &app{
		config:   config,
		log:      log,
		store:    store,
		monitor:  monitor,
		auth:     services.NewAuthService(api, store, log),
		users:    services.NewUserService(api, store, log),
		chats:    services.NewChatService(api, store, config.ChatPollInterval, monitor, log),
		messages: services.NewMessageService(api, store, config.WSBaseURL, monitor, log),
		in:       bufio.NewScanner(os.Stdin),
	}

	// 5. Keep the chat directory fresh while a session is active.
	go a.chats.Poll(ctx)

	// Refresh directories on login, the way the pages re-queried on a new
	// session in the original client.
	stream, cancel := store.Subscribe()
	defer cancel()
	go func() {
		for u := range stream {
			if u == nil {
				continue
			}
			if _, err := a.users.List(ctx); err != nil && !goerrors.Is(err, errors.ErrNotAuthenticated) {
				log.Warn("user directory refresh failed", "err", err)
			}
			if _, err := a.chats.List(ctx); err != nil && !goerrors.Is(err, errors.ErrNotAuthenticated) {
				log.Warn("chat directory refresh failed", "err", err)
			}
		}
	}()

	return a.loop(ctx)
}

type app struct {
	config   internal.Config
	log      *slog.Logger
	store    *session.Store
	monitor  *observability.Monitor
	auth     services.IAuthService
	users    services.IUserService
	chats    services.IChatService
	messages services.IMessageService
	in       *bufio.Scanner
}

func (a *app) loop(ctx context.Context) (int, error) {
	a.banner()

	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return exitOK, nil
		default:
		}

		fmt.Print(a.prompt())
		if !a.in.Scan() {
			return exitOK, a.in.Err()
		}
		fields := strings.Fields(a.in.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "quit", "exit":
			return exitOK, nil
		case "help":
			a.help()
		case "register":
			a.register(ctx, fields[1:])
		case "login":
			a.login(ctx, fields[1:])
		case "logout":
			a.logout()
		case "users":
			a.listUsers(ctx)
		case "chats":
			a.listChats(ctx)
		case "new":
			a.newChat(ctx, fields[1:])
		case "dm":
			a.directChat(ctx, fields[1:])
		case "open":
			a.openChat(ctx, fields[1:])
		case "status":
			a.status()
		default:
			warnln("Unknown command %q, try 'help'", fields[0])
		}
	}
}

func (a *app) register(ctx context.Context, args []string) {
	if len(args) != 2 {
		warnln("usage: register <username> <password>")
		return
	}
	ok, err := a.auth.Register(ctx, args[0], args[1])
	if err != nil {
		errorln("register failed: %v", err)
		return
	}
	if !ok {
		warnln("The backend rejected that username")
		return
	}
	successln("Account %s created, you can login now", args[0])
}

func (a *app) login(ctx context.Context, args []string) {
	if len(args) != 2 {
		warnln("usage: login <username> <password>")
		return
	}
	if err := a.auth.Login(ctx, args[0], args[1]); err != nil {
		if goerrors.Is(err, errors.ErrInvalidCredentials) {
			errorln("Invalid login")
			return
		}
		errorln("login failed: %v", err)
		return
	}
	successln("Logged in as %s", args[0])
}

func (a *app) logout() {
	if err := a.auth.Logout(); err != nil {
		errorln("logout failed: %v", err)
		return
	}
	successln("Logged out")
}

func (a *app) listUsers(ctx context.Context) {
	users, err := a.users.List(ctx)
	if a.reportAuth(err) {
		return
	}
	renderUsers(users)
}

func (a *app) listChats(ctx context.Context) {
	chats, err := a.chats.List(ctx)
	if a.reportAuth(err) {
		return
	}
	renderChats(chats)
}

func (a *app) newChat(ctx context.Context, args []string) {
	if len(args) < 2 {
		warnln("usage: new <name> <member> [member...]")
		return
	}
	me := a.store.Current()
	if me == nil {
		errorln("Not connected")
		return
	}
	input := domain.ChatInput{
		Private: false,
		Name:    args[0],
		Members: append(args[1:], me.Username),
	}
	a.createChat(ctx, input)
}

// directChat mirrors the one-click private chat of the original client:
// a private two-member chat named after the peer.
func (a *app) directChat(ctx context.Context, args []string) {
	if len(args) != 1 {
		warnln("usage: dm <username>")
		return
	}
	me := a.store.Current()
	if me == nil {
		errorln("Not connected")
		return
	}
	input := domain.ChatInput{
		Private: true,
		Name:    fmt.Sprintf("Chat with %s", args[0]),
		Members: []string{me.Username, args[0]},
	}
	a.createChat(ctx, input)
}

func (a *app) createChat(ctx context.Context, input domain.ChatInput) {
	ok, err := a.chats.Create(ctx, input)
	if a.reportAuth(err) {
		return
	}
	if !ok {
		warnln("The backend rejected the chat")
		return
	}
	if _, err := a.chats.List(ctx); err != nil {
		a.log.Warn("chat refresh failed", "err", err)
	}
	successln("Chat %q created", input.Name)
}

func (a *app) openChat(ctx context.Context, args []string) {
	if len(args) != 1 {
		warnln("usage: open <chat-id>")
		return
	}
	me := a.store.Current()
	if me == nil {
		errorln("Not connected")
		return
	}
	if err := a.chatView(ctx, args[0], me.Username); err != nil {
		errorln("%v", err)
	}
}

func (a *app) status() {
	stats := a.monitor.Snapshot()
	fmt.Printf("sent=%d received=%d channel_errors=%d polls=%d rest_failures=%d uptime=%s\n",
		stats.MessagesSent, stats.MessagesReceived, stats.ChannelErrors,
		stats.ChatPolls, stats.RESTFailures, stats.Uptime.Round(time.Second))
}

// reportAuth prints the mandatory immediate notice for unauthenticated
// calls; other errors are surfaced as-is. Returns true when err was handled.
func (a *app) reportAuth(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, errors.ErrNotAuthenticated) {
		errorln("Not connected")
		return true
	}
	if goerrors.Is(err, errors.ErrTooFewMembers) || goerrors.Is(err, errors.ErrInvalidChat) {
		warnln("%v", err)
		return true
	}
	errorln("%v", err)
	return true
}

func (a *app) prompt() string {
	if me := a.store.Current(); me != nil {
		return me.Username + "> "
	}
	return "> "
}
