package command

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ayunami2000/ayunsdlist/utils"
	"github.com/diamondburned/arikawa/v3/discord"
)

var ErrAlreadyWaiting = errors.New("you already have a pending selection")

type ReplyKey struct {
	ChannelID discord.ChannelID
	UserID    discord.UserID
}

// Replies hands incoming messages to prompts waiting on them.
type Replies struct {
	// claim makes removing a waiter and handing it a message one step.
	claim   sync.Mutex
	waiters *utils.ForgetfulMap[ReplyKey, chan string]
}

// NewReplies keeps abandoned waiters for at most ttl, which must exceed any prompt timeout.
func NewReplies(ttl time.Duration) *Replies {
	return &Replies{waiters: utils.NewForgetfulMap[ReplyKey, chan string](ttl)}
}

func (r *Replies) Close() {
	r.waiters.Close()
}

// Wait blocks until Deliver is called for key or ctx is done.
// Only one Wait per key may be pending.
func (r *Replies) Wait(ctx context.Context, key ReplyKey) (string, error) {
	ch := make(chan string, 1)
	if !r.waiters.SetIfAbsent(key, ch) {
		return "", ErrAlreadyWaiting
	}

	select {
	case content := <-ch:
		return content, nil
	case <-ctx.Done():
	}

	r.claim.Lock()
	removed := r.waiters.CompareAndDelete(key, ch)
	r.claim.Unlock()
	if !removed {
		// A Deliver won the race; its message is already buffered.
		select {
		case content := <-ch:
			return content, nil
		default:
		}
	}
	return "", ctx.Err()
}

// Deliver passes content to the waiter for key and reports whether one took it.
func (r *Replies) Deliver(key ReplyKey, content string) bool {
	r.claim.Lock()
	defer r.claim.Unlock()

	ch, ok := r.waiters.Get(key)
	if !ok || !r.waiters.CompareAndDelete(key, ch) {
		return false
	}

	ch <- content
	return true
}

func (r *Replies) Waiting(key ReplyKey) bool {
	_, ok := r.waiters.Get(key)
	return ok
}
