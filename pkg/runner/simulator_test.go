package runner_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	insight "github.com/bahrain-bp/bqa-insight-ai"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/adapters/memory"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/domain"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/flows"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/ports"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/runner"
	"github.com/bahrain-bp/bqa-insight-ai/pkg/session"
)

func newSimulator(t *testing.T, gen ports.Generator) (*runner.Simulator, *memory.Store) {
	t.Helper()
	bot, err := insight.New(gen)
	require.NoError(t, err)

	store := memory.NewStore()
	n := 0
	sim := runner.NewSimulator(bot, session.NewManager(store),
		runner.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("sim-%d", n)
		}),
		runner.WithSimulatorClock(func() time.Time { return time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC) }),
	)
	return sim, store
}

func send(t *testing.T, sim *runner.Simulator, id string, texts ...string) *runner.Reply {
	t.Helper()
	var reply *runner.Reply
	for _, text := range texts {
		var err error
		reply, err = sim.Send(context.Background(), id, text)
		require.NoError(t, err, "sending %q", text)
	}
	return reply
}

func TestSimulator_Start(t *testing.T) {
	sim, store := newSimulator(t, memory.NewEcho())

	reply, err := sim.Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "sim-1", reply.SessionID)
	assert.Equal(t, domain.RootIntent, reply.Intent)
	assert.Equal(t, domain.RootSlot, reply.Slot)
	assert.Equal(t, []string{flows.OptionAnalyze, flows.OptionCompare, flows.OptionOther}, reply.Options)
	require.Len(t, reply.Messages, 1)
	assert.Contains(t, reply.Messages[0], "Welcome")

	conv, err := store.Load(context.Background(), "sim-1")
	require.NoError(t, err)
	require.Len(t, conv.Transcript, 1)
	assert.Equal(t, "bot", conv.Transcript[0].From)
}

func TestSimulator_AnalyzeSchool(t *testing.T) {
	echo := memory.NewEcho()
	sim, store := newSimulator(t, echo)
	start, err := sim.Start(context.Background())
	require.NoError(t, err)

	reply := send(t, sim, start.SessionID, "analyze")
	assert.Equal(t, flows.IntentAnalyze, reply.Intent)
	assert.Equal(t, flows.SlotInstituteType, reply.Slot)
	assert.Equal(t, []string{"Which type of institute would you like to analyze?"}, reply.Messages)

	reply = send(t, sim, start.SessionID, "SCHOOL", "Teaching and learning", "Al Noor")
	assert.Equal(t, domain.FollowUpIntent, reply.Intent)
	assert.Equal(t, domain.FollowUpSlot, reply.Slot)
	require.Len(t, reply.Messages, 1)
	assert.Equal(t, "[offline answer] How did Al Noor perform in terms of Teaching and learning?", reply.Messages[0])

	require.Len(t, echo.Calls(), 1)
	assert.Equal(t, start.SessionID, echo.Calls()[0].SessionID)

	conv, err := store.Load(context.Background(), start.SessionID)
	require.NoError(t, err)
	users := 0
	for _, u := range conv.Transcript {
		if u.From == "user" {
			users++
		}
	}
	assert.Equal(t, 4, users)

	history, err := domain.DecodeHistory(conv.State.SessionAttributes[domain.AttrHistory])
	require.NoError(t, err)
	top, ok := history.Top()
	require.True(t, ok)
	assert.Equal(t, domain.HistoryEntry{Intent: domain.FollowUpIntent, Slot: domain.FollowUpSlot}, top)
}

func TestSimulator_CanonicalOption(t *testing.T) {
	sim, store := newSimulator(t, memory.NewEcho())
	start, _ := sim.Start(context.Background())

	send(t, sim, start.SessionID, "  cOmPaRe ")

	conv, err := store.Load(context.Background(), start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, flows.IntentCompare, conv.State.Intent.Name)
}

func TestSimulator_UnknownOption(t *testing.T) {
	sim, _ := newSimulator(t, memory.NewEcho())
	start, _ := sim.Start(context.Background())

	reply := send(t, sim, start.SessionID, "dance")
	assert.Equal(t, domain.RootIntent, reply.Intent)
	assert.Equal(t, domain.RootSlot, reply.Slot)
	require.Len(t, reply.Messages, 1)
	assert.True(t, strings.HasPrefix(reply.Messages[0], domain.MessageNotUnderstood))
}

func TestSimulator_Back(t *testing.T) {
	sim, _ := newSimulator(t, memory.NewEcho())
	start, _ := sim.Start(context.Background())

	reply := send(t, sim, start.SessionID, "Analyze", "School", "Leadership")
	assert.Equal(t, flows.SlotAnalyzeSchool, reply.Slot)

	reply = send(t, sim, start.SessionID, "BACK")
	assert.Equal(t, flows.IntentAnalyze, reply.Intent)
	assert.Equal(t, flows.SlotSchoolAspect, reply.Slot)

	reply = send(t, sim, start.SessionID, "back")
	assert.Equal(t, flows.SlotInstituteType, reply.Slot)
	assert.Equal(t, []string{flows.OptionSchool, flows.OptionVocational, flows.OptionUniversity}, reply.Options)
}

func TestSimulator_Menu(t *testing.T) {
	sim, _ := newSimulator(t, memory.NewEcho())
	start, _ := sim.Start(context.Background())

	send(t, sim, start.SessionID, "Compare", "School")
	reply := send(t, sim, start.SessionID, "menu")
	assert.Equal(t, domain.RootIntent, reply.Intent)
	assert.Equal(t, domain.RootSlot, reply.Slot)

	reply = send(t, sim, start.SessionID, "Other", "Which schools improved?")
	assert.Equal(t, domain.FollowUpSlot, reply.Slot)
	assert.Equal(t, []string{"[offline answer] Which schools improved?"}, reply.Messages)
}

func TestSimulator_GeneratorFailureStaysResumable(t *testing.T) {
	failing := ports.GeneratorFunc(func(ctx context.Context, req ports.GenerateRequest) (string, error) {
		return "", errors.New("model unavailable")
	})
	sim, _ := newSimulator(t, failing)
	start, _ := sim.Start(context.Background())

	reply := send(t, sim, start.SessionID, "Other", "anything?")
	assert.Equal(t, []string{domain.MessageApology}, reply.Messages)
	assert.Equal(t, domain.FollowUpSlot, reply.Slot)
	assert.False(t, reply.Closed)
}

func TestSimulator_InputErrors(t *testing.T) {
	sim, _ := newSimulator(t, memory.NewEcho())
	start, _ := sim.Start(context.Background())

	_, err := sim.Send(context.Background(), start.SessionID, "   ")
	assert.ErrorIs(t, err, runner.ErrEmptyInput)
	assert.True(t, runner.IsInputError(err))

	_, err = sim.Send(context.Background(), "ghost", "hello")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.False(t, runner.IsInputError(err))
}

func TestSimulator_Current(t *testing.T) {
	sim, _ := newSimulator(t, memory.NewEcho())
	start, _ := sim.Start(context.Background())
	send(t, sim, start.SessionID, "Analyze")

	conv, reply, err := sim.Current(context.Background(), start.SessionID)
	require.NoError(t, err)
	assert.Equal(t, start.SessionID, conv.ID)
	assert.Equal(t, flows.SlotInstituteType, reply.Slot)
	assert.Equal(t, []string{"Which type of institute would you like to analyze?"}, reply.Messages)
}
