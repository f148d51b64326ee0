package selector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ayunami2000/ayunsdlist/metrics"
)

// Conversation is the chat the flow is running in.
// NextReply returns the next message from the user who started the flow.
type Conversation interface {
	Send(ctx context.Context, text string) error
	NextReply(ctx context.Context) (string, error)
}

type Prompter struct {
	Timeout time.Duration
	// Retries is how many more replies are accepted after an invalid one.
	Retries int
}

// PromptInteger sends question and waits for a number in [1, max].
// Each attempt consumes exactly one reply and gets the full timeout.
func (p Prompter) PromptInteger(ctx context.Context, conv Conversation, question string, max int) (Choice, error) {
	if err := conv.Send(ctx, question); err != nil {
		return Choice{}, err
	}

	for attempt := 0; ; attempt++ {
		reply, err := p.await(ctx, conv)
		if err != nil {
			return Choice{}, err
		}

		choice, err := ParseChoice(reply, max)
		if err == nil {
			metrics.ObservePrompt(metrics.PromptAnswered)
			return choice, nil
		}
		metrics.ObservePrompt(metrics.PromptInvalid)

		left := p.Retries - attempt
		if left <= 0 {
			return Choice{}, err
		}
		if err := conv.Send(ctx, fmt.Sprintf("**Invalid selection,** reply with a number between 1 and %d (%d tries left)", max, left)); err != nil {
			return Choice{}, err
		}
	}
}

func (p Prompter) await(ctx context.Context, conv Conversation) (string, error) {
	waitCtx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	reply, err := conv.NextReply(waitCtx)
	if err == nil {
		return reply, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		metrics.ObservePrompt(metrics.PromptTimeout)
		return "", ErrPromptTimeout
	}
	return "", &ReplyError{Err: err}
}
