package command

import (
	"context"
	"errors"
	"strings"

	"github.com/ayunami2000/ayunsdlist/metrics"
	"github.com/ayunami2000/ayunsdlist/selector"
	"github.com/ayunami2000/ayunsdlist/utils"
	"github.com/diamondburned/arikawa/v3/discord"
)

var ErrCommandNotFound = errors.New("command not found")

// Messenger is the slice of the Discord client commands reply through.
type Messenger interface {
	SendMessageReply(channelID discord.ChannelID, content string, referenceID discord.MessageID) (*discord.Message, error)
	SendMessage(channelID discord.ChannelID, content string) (*discord.Message, error)
	Typing(channelID discord.ChannelID) error
}

type Executor struct {
	Messenger
	Replies  *Replies
	commands []*Command
}

func NewExecutor(messenger Messenger, replies *Replies) *Executor {
	return &Executor{Messenger: messenger, Replies: replies}
}

func (e *Executor) GetCommandNames() (names []string) {
	for _, c := range e.commands {
		names = append(names, c.Name)
	}

	return
}

func (e *Executor) Commands() []*Command {
	return e.commands
}

func (e *Executor) RegisterCommand(cmd *Command) {
	e.commands = append(e.commands, cmd)
}

func (e *Executor) Lookup(name string) (*Command, bool) {
	for _, cmd := range e.commands {
		if strings.EqualFold(cmd.Name, name) || utils.ContainsFold(cmd.Aliases, name) {
			return cmd, true
		}
	}

	return nil, false
}

func (e *Executor) RunCommand(ctx context.Context, name string, cmdctx *CommandContext) error {
	cmd, ok := e.Lookup(name)
	if !ok {
		return ErrCommandNotFound
	}

	err := cmd.Run(ctx, cmdctx)
	metrics.ObserveCommand(cmd.Name, outcome(err))
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, selector.ErrPromptTimeout), errors.Is(err, selector.ErrInvalidSelection):
		return metrics.OutcomeAborted
	default:
		return metrics.OutcomeError
	}
}
