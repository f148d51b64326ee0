// Package bot connects the command executor to the Discord gateway.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayunami2000/ayunsdlist/commands"
	"github.com/ayunami2000/ayunsdlist/commands/command"
	"github.com/ayunami2000/ayunsdlist/config"
	"github.com/ayunami2000/ayunsdlist/utils"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/state"
	"github.com/rs/zerolog"
)

var ErrMissingToken = errors.New("missing bot token")

const (
	typingInterval = 5 * time.Second
	// Abandoned prompt waiters are dropped after this long.
	replyTTL = time.Hour
)

// messenger narrows the arikawa state to what commands need.
type messenger struct {
	s *state.State
}

func (m messenger) SendMessageReply(channelID discord.ChannelID, content string, referenceID discord.MessageID) (*discord.Message, error) {
	return m.s.SendMessageReply(channelID, content, referenceID)
}

func (m messenger) SendMessage(channelID discord.ChannelID, content string) (*discord.Message, error) {
	return m.s.SendMessage(channelID, content)
}

func (m messenger) Typing(channelID discord.ChannelID) error {
	return m.s.Typing(channelID)
}

type Bot struct {
	state    *state.State
	store    *config.Store
	executor *command.Executor
	replies  *command.Replies
	logger   zerolog.Logger
	selfID   discord.UserID

	ctx context.Context
	wg  sync.WaitGroup
}

func New(store *config.Store, logger zerolog.Logger) (*Bot, error) {
	cfg := store.Get()
	if cfg.BotToken == "" {
		return nil, ErrMissingToken
	}

	s := state.New("Bot " + cfg.BotToken)
	b := newBot(store, messenger{s}, logger)
	b.state = s

	s.AddHandler(func(c *gateway.MessageCreateEvent) {
		b.handle(&c.Message)
	})
	s.AddIntents(gateway.IntentGuildMessages | gateway.IntentDirectMessages)

	return b, nil
}

func newBot(store *config.Store, m command.Messenger, logger zerolog.Logger) *Bot {
	replies := command.NewReplies(replyTTL)
	executor := command.NewExecutor(m, replies)
	commands.Register(executor)

	return &Bot{
		store:    store,
		executor: executor,
		replies:  replies,
		logger:   logger,
		ctx:      context.Background(),
	}
}

// Run connects to the gateway and blocks until ctx is cancelled.
// Commands still running see the cancellation and are awaited.
func (b *Bot) Run(ctx context.Context) error {
	self, err := b.state.Me()
	if err != nil {
		return fmt.Errorf("identity crisis: %w", err)
	}
	b.selfID = self.ID

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	b.ctx = runCtx

	if err := b.state.Open(runCtx); err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	b.logger.Info().Str("user", self.Username).Msg("started")

	<-runCtx.Done()

	if err := b.state.Close(); err != nil {
		b.logger.Warn().Err(err).Msg("gateway close")
	}
	b.wg.Wait()
	b.replies.Close()
	return nil
}

// canUse applies the user whitelist or blacklist.
func canUse(list config.UsersList, authorID string) bool {
	for _, id := range list.List {
		if id == authorID {
			return list.WhitelistMode
		}
	}
	return !list.WhitelistMode
}

func (b *Bot) allowed(cfg config.Config, m *discord.Message) bool {
	if m.Author.Bot && !cfg.AllowBots {
		return false
	}

	if len(cfg.ChannelIds) > 0 && !utils.Contains(cfg.ChannelIds, m.ChannelID.String()) {
		return false
	}

	return canUse(cfg.UsersList, m.Author.ID.String())
}

// parse strips the prefix or a mention of the bot from content.
// An empty invocation means help.
func parse(content, prefix string, selfID discord.UserID) (used, name, args string, ok bool) {
	used = prefix
	if selfID.IsValid() {
		for _, mention := range []string{selfID.Mention(), "<@!" + selfID.String() + ">"} {
			if strings.HasPrefix(content, mention) {
				used = mention
				break
			}
		}
	}

	if used == "" || !strings.HasPrefix(strings.ToLower(content), strings.ToLower(used)) {
		return "", "", "", false
	}

	rest := strings.ReplaceAll(strings.TrimSpace(content[len(used):]), "\n", " ")
	if rest == "" {
		rest = "?"
	}
	name, args, _ = strings.Cut(rest, " ")
	return used, strings.ToLower(name), strings.TrimSpace(args), true
}

func (b *Bot) handle(m *discord.Message) {
	if m.Author.ID == b.selfID {
		return
	}

	key := command.ReplyKey{ChannelID: m.ChannelID, UserID: m.Author.ID}
	if b.replies.Deliver(key, m.Content) {
		return
	}

	cfg := b.store.Get()
	if !b.allowed(cfg, m) {
		return
	}

	prefix, name, args, ok := parse(m.Content, cfg.Prefix, b.selfID)
	if !ok {
		return
	}

	logger := b.logger.With().
		Str("command", name).
		Str("channel", m.ChannelID.String()).
		Str("user", m.Author.ID.String()).
		Logger()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.run(b.ctx, cfg, logger, m, prefix, name, args)
	}()
}

// typing refreshes the typing indicator until stopped.
// It is paused while a command waits for the user.
type typing struct {
	send   func() error
	paused atomic.Bool
	stop   chan struct{}
	once   sync.Once
}

func startTyping(send func() error, logger zerolog.Logger) *typing {
	t := &typing{send: send, stop: make(chan struct{})}
	if err := send(); err != nil {
		logger.Debug().Err(err).Msg("could not start typing")
	}

	go func() {
		ticker := time.NewTicker(typingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if !t.paused.Load() {
					_ = t.send()
				}
			case <-t.stop:
				return
			}
		}
	}()

	return t
}

func (t *typing) Pause() {
	t.paused.Store(true)
}

// Resume sends a typing event right away rather than on the next tick.
func (t *typing) Resume() {
	if t.paused.CompareAndSwap(true, false) {
		select {
		case <-t.stop:
		default:
			_ = t.send()
		}
	}
}

func (t *typing) Stop() {
	t.once.Do(func() { close(t.stop) })
}

func (b *Bot) run(ctx context.Context, cfg config.Config, logger zerolog.Logger, m *discord.Message, prefix, name, args string) {
	indicator := startTyping(func() error { return b.executor.Typing(m.ChannelID) }, logger)
	defer indicator.Stop()

	cmdctx := &command.CommandContext{
		Executor:         b.executor,
		Config:           cfg,
		Logger:           logger,
		Message:          m,
		CalledWithPrefix: prefix,
		Args:             args,
		Typing:           indicator,
	}

	start := time.Now()
	err := b.executor.RunCommand(ctx, name, cmdctx)
	indicator.Stop()

	switch {
	case err == nil:
		logger.Info().Dur("took", time.Since(start)).Msg("command finished")
	case errors.Is(err, command.ErrCommandNotFound):
		if _, err := cmdctx.TryReply("**Error:** Unknown command. Try `%s?`", prefix); err != nil {
			logger.Warn().Err(err).Msg("could not reply")
		}
	case command.IsReported(err):
		logger.Info().Err(err).Msg("command aborted")
	default:
		logger.Error().Err(err).Msg("command failed")
		if _, err := cmdctx.TryReply("**Error:** %v", err); err != nil {
			logger.Warn().Err(err).Msg("could not reply")
		}
	}
}
