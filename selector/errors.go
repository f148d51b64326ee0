package selector

import (
	"errors"
	"fmt"
)

var (
	ErrPromptTimeout    = errors.New("no reply in time")
	ErrInvalidSelection = errors.New("invalid selection")
	ErrCategoryLocked   = errors.New("not allowed to change property")
	ErrNoChoices        = errors.New("nothing to choose from")
)

// FetchError is a failed read. Category is zero when the snapshot itself could not be read.
type FetchError struct {
	Category Category
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Category.listName(), e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

type SwitchError struct {
	Category Category
	Err      error
}

func (e *SwitchError) Error() string {
	return fmt.Sprintf("failed to switch %s: %v", e.Category, e.Err)
}

func (e *SwitchError) Unwrap() error { return e.Err }

// ReplyError is a failure to read the user's answer, such as a prompt already pending for them.
type ReplyError struct {
	Err error
}

func (e *ReplyError) Error() string {
	return fmt.Sprintf("failed to read reply: %v", e.Err)
}

func (e *ReplyError) Unwrap() error { return e.Err }

type InvalidSelectionError struct {
	Reply string
	Max   int
}

func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("%v: %q is not a number between 1 and %d", ErrInvalidSelection, e.Reply, e.Max)
}

func (e *InvalidSelectionError) Is(target error) bool {
	return target == ErrInvalidSelection
}
