// Adapted from https://github.com/cutest-design/bot2/blob/main/command/command.go (my own code)
package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ayunami2000/ayunsdlist/config"
	"github.com/ayunami2000/ayunsdlist/utils"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/rs/zerolog"
)

const MaxMessageLength = 2000

type CommandContext struct {
	Executor *Executor
	Config   config.Config
	Logger   zerolog.Logger
	Message  *discord.Message

	CalledWithPrefix string
	Args             string
	// Typing is paused while waiting for the user to answer. Nil means no indicator.
	Typing Typing
}

type Typing interface {
	Pause()
	Resume()
}

func sanitize(content string) string {
	return strings.ReplaceAll(content, "@", "@\u200b") // Just in case
}

func (c *CommandContext) TryReply(format string, a ...any) (msg *discord.Message, err error) {
	content := sanitize(fmt.Sprintf(format, a...))
	if len(content) > MaxMessageLength {
		content = utils.TruncateText(content, MaxMessageLength)
	}

	return c.reply(content)
}

// reply sends content as is; it must already be sanitized and short enough.
func (c *CommandContext) reply(content string) (msg *discord.Message, err error) {
	msg, err = c.Executor.SendMessageReply(c.Message.ChannelID, content, c.Message.ID)
	if err != nil {
		msg, err = c.Executor.SendMessage(c.Message.ChannelID, content)
	}
	return msg, err
}

// Send replies with text, split over several messages when it is too long.
func (c *CommandContext) Send(_ context.Context, text string) error {
	for _, part := range utils.SplitMessage(sanitize(text), MaxMessageLength) {
		if _, err := c.reply(part); err != nil {
			return err
		}
	}
	return nil
}

// NextReply waits for the next message from the author in the same channel.
func (c *CommandContext) NextReply(ctx context.Context) (string, error) {
	if c.Typing != nil {
		c.Typing.Pause()
		defer c.Typing.Resume()
	}
	return c.Executor.Replies.Wait(ctx, ReplyKey{ChannelID: c.Message.ChannelID, UserID: c.Message.Author.ID})
}

// ReportedError marks an error the command already told the user about.
type ReportedError struct {
	Err error
}

func (e *ReportedError) Error() string { return e.Err.Error() }

func (e *ReportedError) Unwrap() error { return e.Err }

func Reported(err error) error {
	if err == nil {
		return nil
	}
	return &ReportedError{Err: err}
}

func IsReported(err error) bool {
	var re *ReportedError
	return errors.As(err, &re)
}

type Command struct {
	Name        string
	Aliases     []string
	Description string
	run         func(context.Context, *CommandContext) error
}

func NewCommand(name string, aliases []string, description string, run func(context.Context, *CommandContext) error) *Command {
	return &Command{
		Name:        name,
		Aliases:     aliases,
		Description: description,
		run:         run,
	}
}

func (c *Command) Run(ctx context.Context, cmdctx *CommandContext) error {
	return c.run(ctx, cmdctx)
}

func (c *Command) String() string {
	return fmt.Sprintf("{Name: %s, Aliases: %s}", c.Name, c.Aliases)
}
