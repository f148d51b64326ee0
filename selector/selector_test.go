package selector

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ayunami2000/ayunsdlist/sdapi"
	"github.com/rs/zerolog"
)

type fakeAPI struct {
	mu       sync.Mutex
	opts     sdapi.Options
	models   []string
	vaes     []string
	updates  []sdapi.OptionsUpdate
	ignore   bool
	optsErr  error
	listErr  error
	setErr   error
	getCalls int
}

func (a *fakeAPI) GetOptions(context.Context) (*sdapi.Options, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.getCalls++
	if a.optsErr != nil {
		return nil, a.optsErr
	}
	o := a.opts
	return &o, nil
}

func (a *fakeAPI) GetModels(context.Context) ([]sdapi.Model, error) {
	if a.listErr != nil {
		return nil, a.listErr
	}
	var out []sdapi.Model
	for _, m := range a.models {
		out = append(out, sdapi.Model{Title: m})
	}
	return out, nil
}

func (a *fakeAPI) GetVAEs(context.Context) ([]sdapi.VAE, error) {
	if a.listErr != nil {
		return nil, a.listErr
	}
	var out []sdapi.VAE
	for _, v := range a.vaes {
		out = append(out, sdapi.VAE{ModelName: v})
	}
	return out, nil
}

func (a *fakeAPI) SetOptions(_ context.Context, u sdapi.OptionsUpdate) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.updates = append(a.updates, u)
	if a.setErr != nil {
		return a.setErr
	}
	if a.ignore {
		return nil
	}
	if u.SDModelCheckpoint != "" {
		a.opts.SDModelCheckpoint = u.SDModelCheckpoint
	}
	if u.SDVae != "" {
		a.opts.SDVae = u.SDVae
	}
	return nil
}

// scriptedConv replays replies in order, then fails with replyErr if set,
// or blocks until the context ends.
type scriptedConv struct {
	replies  []string
	replyErr error
	sent     []string
}

func (c *scriptedConv) Send(_ context.Context, text string) error {
	c.sent = append(c.sent, text)
	return nil
}

func (c *scriptedConv) NextReply(ctx context.Context) (string, error) {
	if len(c.replies) == 0 {
		if c.replyErr != nil {
			return "", c.replyErr
		}
		<-ctx.Done()
		return "", ctx.Err()
	}
	r := c.replies[0]
	c.replies = c.replies[1:]
	return r, nil
}

func (c *scriptedConv) last() string {
	if len(c.sent) == 0 {
		return ""
	}
	return c.sent[len(c.sent)-1]
}

func newFlow(api *fakeAPI, conv *scriptedConv, source ListSource, static []string) *Flow {
	return &Flow{
		Remote:   NewRemote(api, source, static),
		Prompter: Prompter{Timeout: 50 * time.Millisecond},
		Conv:     conv,
		Logger:   zerolog.Nop(),
	}
}

func TestRender(t *testing.T) {
	list := []string{"alpha", "beta", "gamma"}
	lines := strings.Split(Render(list), "\n")
	if len(lines) != len(list) {
		t.Fatalf("expected %d lines, got %d", len(list), len(lines))
	}
	for i, line := range lines {
		if want := strconv.Itoa(i+1) + "." + list[i]; line != want {
			t.Fatalf("line %d = %q, want %q", i, line, want)
		}
	}
	if Render(nil) != "" {
		t.Fatalf("expected empty render for empty list")
	}
}

func TestParseChoice(t *testing.T) {
	valid := map[string]int{"1": 1, "3": 3, " 2 ": 2, "2.0": 2}
	for in, want := range valid {
		c, err := ParseChoice(in, 3)
		if err != nil || c.Int() != want {
			t.Fatalf("ParseChoice(%q) = %v, %v; want %d", in, c.Int(), err, want)
		}
	}

	invalid := []string{"", "abc", "0", "-1", "4", "1.5", "NaN", "Inf", "-Inf", "1e400", "2x"}
	for _, in := range invalid {
		_, err := ParseChoice(in, 3)
		if !errors.Is(err, ErrInvalidSelection) {
			t.Fatalf("ParseChoice(%q): expected ErrInvalidSelection, got %v", in, err)
		}
		var ise *InvalidSelectionError
		if !errors.As(err, &ise) || ise.Max != 3 {
			t.Fatalf("ParseChoice(%q): expected InvalidSelectionError, got %v", in, err)
		}
	}
}

func TestResolveMatchesDisplayIndex(t *testing.T) {
	list := ChoiceList{"A", "B", "C", "D"}
	for n := 1; n <= len(list); n++ {
		c, err := ParseChoice(strconv.Itoa(n), len(list))
		if err != nil {
			t.Fatalf("parse %d: %v", n, err)
		}
		got, err := list.Resolve(c)
		if err != nil || got != list[n-1] {
			t.Fatalf("Resolve(%d) = %q, %v", n, got, err)
		}
	}
	if _, err := list.Resolve(Choice{}); !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("zero choice should not resolve: %v", err)
	}
}

func TestPrompterTimeout(t *testing.T) {
	conv := &scriptedConv{}
	p := Prompter{Timeout: 10 * time.Millisecond}
	start := time.Now()
	_, err := p.PromptInteger(context.Background(), conv, "pick", 3)
	if !errors.Is(err, ErrPromptTimeout) {
		t.Fatalf("expected ErrPromptTimeout, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("timeout took too long")
	}
	if len(conv.sent) != 1 || conv.sent[0] != "pick" {
		t.Fatalf("expected the question to be sent once, got %v", conv.sent)
	}
}

func TestPrompterParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Prompter{Timeout: time.Second}.PromptInteger(ctx, &scriptedConv{}, "pick", 3)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPrompterRetries(t *testing.T) {
	conv := &scriptedConv{replies: []string{"9", "x", "2"}}
	c, err := Prompter{Timeout: time.Second, Retries: 2}.PromptInteger(context.Background(), conv, "pick", 3)
	if err != nil || c.Int() != 2 {
		t.Fatalf("expected 2 after retries, got %v, %v", c.Int(), err)
	}
	if len(conv.sent) != 3 {
		t.Fatalf("expected question plus two retry hints, got %v", conv.sent)
	}

	conv = &scriptedConv{replies: []string{"9", "x", "2"}}
	_, err = Prompter{Timeout: time.Second, Retries: 1}.PromptInteger(context.Background(), conv, "pick", 3)
	if !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("expected ErrInvalidSelection once retries run out, got %v", err)
	}
	if len(conv.replies) != 1 {
		t.Fatalf("expected exactly two replies consumed, %d left", len(conv.replies))
	}
}

func TestSwitchReturnsObservedSnapshot(t *testing.T) {
	api := &fakeAPI{opts: sdapi.Options{SDModelCheckpoint: "A"}}
	r := NewRemote(api, ListRemote, nil)
	req := SwitchRequest{Category: CategoryModel, Name: "B"}
	snap, err := r.Switch(context.Background(), req)
	if err != nil {
		t.Fatalf("switch: %v", err)
	}
	if !snap.Confirmed(req) {
		t.Fatalf("expected confirmed snapshot, got %+v", snap)
	}
	if api.getCalls != 1 {
		t.Fatalf("expected one re-fetch after switch, got %d", api.getCalls)
	}

	api.setErr = errors.New("refused")
	_, err = r.Switch(context.Background(), SwitchRequest{Category: CategoryVAE, Name: "x"})
	var se *SwitchError
	if !errors.As(err, &se) || se.Category != CategoryVAE {
		t.Fatalf("expected SwitchError for vae, got %v", err)
	}
}

func TestFetchChoiceListSources(t *testing.T) {
	api := &fakeAPI{models: []string{"m2", "m1"}, vaes: []string{"remote.pt"}}
	static := []string{"Automatic", "None"}

	list, err := NewRemote(api, ListStatic, static).FetchChoiceList(context.Background(), CategoryVAE)
	if err != nil || len(list) != 2 || list[0] != "Automatic" {
		t.Fatalf("static list = %v, %v", list, err)
	}
	list[0] = "mutated"
	if static[0] != "Automatic" {
		t.Fatalf("static config aliased by returned list")
	}

	list, err = NewRemote(api, ListRemote, static).FetchChoiceList(context.Background(), CategoryVAE)
	if err != nil || len(list) != 1 || list[0] != "remote.pt" {
		t.Fatalf("remote list = %v, %v", list, err)
	}

	list, err = NewRemote(api, ListStatic, static).FetchChoiceList(context.Background(), CategoryModel)
	if err != nil || list[0] != "m2" || list[1] != "m1" {
		t.Fatalf("model list order = %v, %v", list, err)
	}

	api.listErr = errors.New("down")
	_, err = NewRemote(api, ListRemote, nil).FetchChoiceList(context.Background(), CategoryModel)
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Category != CategoryModel {
		t.Fatalf("expected FetchError for model, got %v", err)
	}
}

func TestFlowSwitchesModel(t *testing.T) {
	api := &fakeAPI{opts: sdapi.Options{SDModelCheckpoint: "A", SDVae: "None"}, models: []string{"A", "B", "C"}}
	conv := &scriptedConv{replies: []string{"1", "2"}}
	f := newFlow(api, conv, ListStatic, nil)

	if err := f.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if f.State() != StateDone {
		t.Fatalf("expected done, got %s", f.State())
	}
	if len(api.updates) != 1 || api.updates[0].SDModelCheckpoint != "B" || api.updates[0].SDVae != "" {
		t.Fatalf("unexpected updates: %+v", api.updates)
	}
	if !strings.Contains(conv.last(), "**Current Model:** B") {
		t.Fatalf("final message should show B as current: %q", conv.last())
	}
	if !strings.Contains(strings.Join(conv.sent, "\n"), "1.A\n2.B\n3.C") {
		t.Fatalf("model list was not shown: %v", conv.sent)
	}
}

func TestFlowSwitchesStaticVAE(t *testing.T) {
	api := &fakeAPI{opts: sdapi.Options{SDModelCheckpoint: "A", SDVae: "None"}}
	conv := &scriptedConv{replies: []string{"2", "1"}}
	f := newFlow(api, conv, ListStatic, []string{"Automatic", "None"})

	if err := f.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(api.updates) != 1 || api.updates[0].SDVae != "Automatic" {
		t.Fatalf("unexpected updates: %+v", api.updates)
	}
	if !strings.Contains(conv.last(), "**Current VAE:** Automatic") {
		t.Fatalf("unexpected final message: %q", conv.last())
	}
}

func TestFlowAbortsOnNonNumericReply(t *testing.T) {
	api := &fakeAPI{opts: sdapi.Options{SDModelCheckpoint: "A"}, models: []string{"A", "B", "C"}}
	conv := &scriptedConv{replies: []string{"abc"}}
	f := newFlow(api, conv, ListStatic, nil)

	err := f.Run(context.Background())
	if !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("expected ErrInvalidSelection, got %v", err)
	}
	if f.State() != StateAborted {
		t.Fatalf("expected aborted, got %s", f.State())
	}
	if len(api.updates) != 0 {
		t.Fatalf("no mutation expected, got %+v", api.updates)
	}
	if !strings.HasPrefix(conv.last(), "**Error:**") {
		t.Fatalf("expected the error to be reported, got %q", conv.last())
	}
}

func TestFlowAbortsOnTimeout(t *testing.T) {
	api := &fakeAPI{opts: sdapi.Options{SDModelCheckpoint: "A"}, models: []string{"A", "B"}}
	conv := &scriptedConv{replies: []string{"1"}}
	f := newFlow(api, conv, ListStatic, nil)

	err := f.Run(context.Background())
	if !errors.Is(err, ErrPromptTimeout) {
		t.Fatalf("expected ErrPromptTimeout, got %v", err)
	}
	if f.State() != StateAborted || len(api.updates) != 0 {
		t.Fatalf("expected abort without mutation, state=%s updates=%v", f.State(), api.updates)
	}
	if conv.last() != "**Input timed out.**" {
		t.Fatalf("unexpected last message %q", conv.last())
	}
}

func TestFlowReportsUnreadableReply(t *testing.T) {
	api := &fakeAPI{opts: sdapi.Options{SDModelCheckpoint: "A"}, models: []string{"A", "B"}}
	busy := errors.New("you already have a pending selection")
	conv := &scriptedConv{replyErr: busy}
	f := newFlow(api, conv, ListStatic, nil)

	err := f.Run(context.Background())
	var replyErr *ReplyError
	if !errors.As(err, &replyErr) || !errors.Is(err, busy) {
		t.Fatalf("expected ReplyError wrapping the cause, got %v", err)
	}
	if f.State() != StateAborted || len(api.updates) != 0 {
		t.Fatalf("expected abort without mutation, state=%s updates=%v", f.State(), api.updates)
	}
	if conv.last() != "**Error:** you already have a pending selection" {
		t.Fatalf("user was not told: last message %q", conv.last())
	}
}

func TestFlowAbortsOnOutOfRangeItem(t *testing.T) {
	api := &fakeAPI{opts: sdapi.Options{SDModelCheckpoint: "A"}, models: []string{"A", "B"}}
	conv := &scriptedConv{replies: []string{"1", "3"}}
	f := newFlow(api, conv, ListStatic, nil)

	if err := f.Run(context.Background()); !errors.Is(err, ErrInvalidSelection) {
		t.Fatalf("expected ErrInvalidSelection, got %v", err)
	}
	if len(api.updates) != 0 {
		t.Fatalf("no mutation expected, got %+v", api.updates)
	}
}

func TestFlowFetchError(t *testing.T) {
	api := &fakeAPI{optsErr: errors.New("connection refused")}
	conv := &scriptedConv{}
	f := newFlow(api, conv, ListStatic, nil)

	err := f.Run(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Category != 0 {
		t.Fatalf("expected snapshot FetchError, got %v", err)
	}
	if f.State() != StateAborted || len(conv.sent) != 1 {
		t.Fatalf("expected a single error report, got state=%s sent=%v", f.State(), conv.sent)
	}
}

func TestFlowSwitchError(t *testing.T) {
	api := &fakeAPI{opts: sdapi.Options{SDModelCheckpoint: "A"}, models: []string{"A", "B"}, setErr: errors.New("500")}
	conv := &scriptedConv{replies: []string{"1", "2"}}
	f := newFlow(api, conv, ListStatic, nil)

	err := f.Run(context.Background())
	var se *SwitchError
	if !errors.As(err, &se) || se.Category != CategoryModel {
		t.Fatalf("expected SwitchError, got %v", err)
	}
	if conv.last() != "**Error:** Failed to switch the Model!" {
		t.Fatalf("unexpected report %q", conv.last())
	}
}

func TestFlowReportsIgnoredSwitch(t *testing.T) {
	api := &fakeAPI{opts: sdapi.Options{SDModelCheckpoint: "A"}, models: []string{"A", "B"}, ignore: true}
	conv := &scriptedConv{replies: []string{"1", "2"}}
	f := newFlow(api, conv, ListStatic, nil)

	if err := f.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.HasPrefix(conv.last(), "**Warning:**") || !strings.Contains(conv.last(), "**Current Model:** A") {
		t.Fatalf("expected warning with observed state, got %q", conv.last())
	}
}

func TestFlowEmptyList(t *testing.T) {
	api := &fakeAPI{opts: sdapi.Options{SDModelCheckpoint: "A"}}
	conv := &scriptedConv{replies: []string{"2"}}
	f := newFlow(api, conv, ListStatic, nil)

	if err := f.Run(context.Background()); !errors.Is(err, ErrNoChoices) {
		t.Fatalf("expected ErrNoChoices, got %v", err)
	}
	if conv.last() != "**No VAE available.**" {
		t.Fatalf("unexpected message %q", conv.last())
	}
}

func TestFlowCategoryLocked(t *testing.T) {
	api := &fakeAPI{opts: sdapi.Options{SDModelCheckpoint: "A"}, models: []string{"A", "B"}}
	conv := &scriptedConv{replies: []string{"1", "2"}}
	f := newFlow(api, conv, ListStatic, nil)
	f.CanChange = func(c Category) bool { return c != CategoryModel }

	if err := f.Run(context.Background()); !errors.Is(err, ErrCategoryLocked) {
		t.Fatalf("expected ErrCategoryLocked, got %v", err)
	}
	if len(api.updates) != 0 {
		t.Fatalf("no mutation expected, got %+v", api.updates)
	}
}

func TestFlowRunsOnce(t *testing.T) {
	api := &fakeAPI{optsErr: errors.New("down")}
	f := newFlow(api, &scriptedConv{}, ListStatic, nil)
	_ = f.Run(context.Background())
	if err := f.Run(context.Background()); err == nil {
		t.Fatalf("expected second run to be refused")
	}
}
