package selector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ayunami2000/ayunsdlist/utils"
	"github.com/rs/zerolog"
)

type State int

const (
	StateIdle State = iota
	StateShowingInfo
	StateAwaitingCategoryChoice
	StateShowingList
	StateAwaitingItemChoice
	StateSwitching
	StateDone
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateShowingInfo:
		return "showing_info"
	case StateAwaitingCategoryChoice:
		return "awaiting_category_choice"
	case StateShowingList:
		return "showing_list"
	case StateAwaitingItemChoice:
		return "awaiting_item_choice"
	case StateSwitching:
		return "switching"
	case StateDone:
		return "done"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Flow shows the active model and VAE, asks which one to change and to what,
// then switches it. A Flow runs once; build a new one per command.
type Flow struct {
	Remote   *Remote
	Prompter Prompter
	Conv     Conversation
	Logger   zerolog.Logger
	// CanChange may refuse a category before anything is listed. Nil allows all.
	CanChange func(Category) bool

	state State
}

func (f *Flow) State() State {
	return f.state
}

func (f *Flow) enter(s State) {
	f.Logger.Debug().Stringer("from", f.state).Stringer("to", s).Msg("flow transition")
	f.state = s
}

// abort tells the user what went wrong and returns err.
func (f *Flow) abort(ctx context.Context, err error, format string, a ...any) error {
	f.Logger.Info().Err(err).Stringer("state", f.state).Msg("flow aborted")
	f.state = StateAborted
	if sendErr := f.Conv.Send(ctx, fmt.Sprintf(format, a...)); sendErr != nil {
		f.Logger.Warn().Err(sendErr).Msg("could not report flow error")
	}
	return err
}

func (f *Flow) promptFailed(ctx context.Context, err error) error {
	if errors.Is(err, ErrPromptTimeout) {
		return f.abort(ctx, err, "**Input timed out.**")
	}
	if errors.Is(err, ErrInvalidSelection) {
		return f.abort(ctx, err, "**Error:** %v", err)
	}
	var replyErr *ReplyError
	if errors.As(err, &replyErr) {
		return f.abort(ctx, err, "**Error:** %v", replyErr.Err)
	}
	// Cancelled, or sending failed, so there is nobody to tell.
	f.state = StateAborted
	return err
}

func (f *Flow) timeoutHint() string {
	return fmt.Sprintf("(reply within %d seconds)", int(f.Prompter.Timeout.Seconds()))
}

func describe(s Snapshot) string {
	return fmt.Sprintf("**Current Model:** %s\n**Current VAE:** %s", utils.StringOrNone(s.Model), utils.StringOrNone(s.VAE))
}

func (f *Flow) Run(ctx context.Context) error {
	if f.state != StateIdle {
		return fmt.Errorf("flow already ran (state %s)", f.state)
	}

	f.enter(StateShowingInfo)
	snap, err := f.Remote.FetchSnapshot(ctx)
	if err != nil {
		return f.abort(ctx, err, "**Error:** Failed to query current model info!")
	}
	if err := f.Conv.Send(ctx, describe(snap)); err != nil {
		f.state = StateAborted
		return err
	}

	f.enter(StateAwaitingCategoryChoice)
	labels := make([]string, len(Categories))
	for i, c := range Categories {
		labels[i] = c.Label()
	}
	choice, err := f.Prompter.PromptInteger(ctx, f.Conv,
		"**What do you want to switch?**\n"+Render(labels)+"\n"+f.timeoutHint(), len(Categories))
	if err != nil {
		return f.promptFailed(ctx, err)
	}
	category := Categories[choice.Int()-1]
	if f.CanChange != nil && !f.CanChange(category) {
		return f.abort(ctx, fmt.Errorf("%w: %s", ErrCategoryLocked, category), "**Error:** Changing the %s is disabled!", category.Label())
	}

	f.enter(StateShowingList)
	list, err := f.Remote.FetchChoiceList(ctx, category)
	if err != nil {
		return f.abort(ctx, err, "**Error:** Failed to get the %s list!", category.Label())
	}
	if len(list) == 0 {
		return f.abort(ctx, fmt.Errorf("%w: empty %s list", ErrNoChoices, category), "**No %s available.**", category.Label())
	}

	f.enter(StateAwaitingItemChoice)
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s list:**\n%s\n", category.Label(), Render(list))
	fmt.Fprintf(&sb, "**Reply with the number of the %s to switch to** %s", category.Label(), f.timeoutHint())
	choice, err = f.Prompter.PromptInteger(ctx, f.Conv, sb.String(), len(list))
	if err != nil {
		return f.promptFailed(ctx, err)
	}

	f.enter(StateSwitching)
	req, err := NewSwitchRequest(category, list, choice)
	if err != nil {
		return f.promptFailed(ctx, err)
	}
	f.Logger.Info().Stringer("category", category).Str("name", req.Name).Msg("switching")
	if err := f.Conv.Send(ctx, fmt.Sprintf("**Switching %s to:** %s", category.Label(), req.Name)); err != nil {
		f.state = StateAborted
		return err
	}

	snap, err = f.Remote.Switch(ctx, req)
	if err != nil {
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) {
			return f.abort(ctx, err, "**Error:** Switch sent, but failed to query the new model info!")
		}
		return f.abort(ctx, err, "**Error:** Failed to switch the %s!", category.Label())
	}

	f.enter(StateDone)
	result := fmt.Sprintf("**%s set to:** %s", category.Label(), req.Name)
	if !snap.Confirmed(req) {
		f.Logger.Warn().Stringer("category", category).Str("requested", req.Name).Str("observed", snap.Get(category)).Msg("server did not apply switch")
		result = fmt.Sprintf("**Warning:** the server still reports %s as the current %s.", utils.StringOrNone(snap.Get(category)), category.Label())
	}
	return f.Conv.Send(ctx, result+"\n"+describe(snap))
}
