package runtime_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formery/formery/internal/runtime"
	"github.com/formery/formery/pkg/domain"
	"github.com/formery/formery/pkg/dsl"
)

var submitTime = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

func buildNotation(t *testing.T, b *dsl.Builder) *domain.Notation {
	t.Helper()
	n, err := b.Build()
	require.NoError(t, err)
	return n
}

func linearNotation(t *testing.T) *domain.Notation {
	b := dsl.New("llc", "LLC")
	b.Flow().StartAt("entity_name").
		State("entity_name").ThenEnd()
	return buildNotation(t, b)
}

func branchingNotation(t *testing.T) *domain.Notation {
	b := dsl.New("llc", "LLC")
	b.Flow().StartAt("annual_or_amended").
		State("annual_or_amended").
		On("original", "entity_name__new_llc").
		On("amendment", "org__existing_entity").Machine().
		State("entity_name__new_llc").ThenEnd().Machine().
		State("org__existing_entity").ThenEnd()
	return buildNotation(t, b)
}

func TestStartAndComplete(t *testing.T) {
	eng := runtime.NewEngine()
	inst := domain.NewInstance(linearNotation(t), domain.KindClient)

	state, err := eng.Start(inst)
	require.NoError(t, err)
	assert.Equal(t, domain.StateID("entity_name"), state)
	assert.Equal(t, domain.StateID("entity_name"), inst.Current)
	assert.False(t, inst.Completed)

	next, err := eng.SubmitAnswer(inst, domain.StringAnswer{Value: "Acme LLC"}, submitTime)
	require.NoError(t, err)
	assert.Equal(t, domain.StateID(""), next)
	assert.True(t, inst.Completed)
	assert.Empty(t, inst.Current)

	record, ok := inst.Answers["entity_name"]
	require.True(t, ok)
	assert.Equal(t, domain.StringAnswer{Value: "Acme LLC"}, record.Value)
	assert.Equal(t, submitTime, record.At)
}

func TestChoiceBranching(t *testing.T) {
	eng := runtime.NewEngine()
	inst := domain.NewInstance(branchingNotation(t), domain.KindClient)

	_, err := eng.Start(inst)
	require.NoError(t, err)

	next, err := eng.SubmitAnswer(inst, domain.ChoiceAnswer{Value: "original"}, submitTime)
	require.NoError(t, err)
	assert.Equal(t, domain.StateID("entity_name__new_llc"), next)

	// The new state's question reference carries its context tokens.
	ref := inst.Current.Reference()
	assert.Equal(t, "entity_name", ref.Code)
	assert.Equal(t, []string{"new_llc"}, ref.Context)
}

func TestNoMatchingTransition(t *testing.T) {
	eng := runtime.NewEngine()
	inst := domain.NewInstance(branchingNotation(t), domain.KindClient)

	_, err := eng.Start(inst)
	require.NoError(t, err)

	_, err = eng.SubmitAnswer(inst, domain.ChoiceAnswer{Value: "dissolution"}, submitTime)
	var noMatch *domain.NoTransitionError
	require.ErrorAs(t, err, &noMatch)
	assert.Equal(t, domain.StateID("annual_or_amended"), noMatch.State)

	// The instance stays put but the answer is still recorded.
	assert.Equal(t, domain.StateID("annual_or_amended"), inst.Current)
	assert.False(t, inst.Completed)
	record, ok := inst.Answers["annual_or_amended"]
	require.True(t, ok)
	assert.Equal(t, domain.ChoiceAnswer{Value: "dissolution"}, record.Value)
}

func TestDeclarationOrderPrecedence(t *testing.T) {
	// Identical transition sets in different declaration order pick
	// different winners for the same answer.
	specific := dsl.New("a", "A")
	specific.Flow().StartAt("annual_or_amended").
		State("annual_or_amended").On("original", "entity_name").ThenEnd().Machine().
		State("entity_name").ThenEnd()

	catchAllFirst := dsl.New("b", "B")
	catchAllFirst.Flow().StartAt("annual_or_amended").
		State("annual_or_amended").ThenEnd().On("original", "entity_name").Machine().
		State("entity_name").ThenEnd()

	eng := runtime.NewEngine()

	inst := domain.NewInstance(buildNotation(t, specific), domain.KindClient)
	_, err := eng.Start(inst)
	require.NoError(t, err)
	next, err := eng.SubmitAnswer(inst, domain.ChoiceAnswer{Value: "original"}, submitTime)
	require.NoError(t, err)
	assert.Equal(t, domain.StateID("entity_name"), next)

	inst = domain.NewInstance(buildNotation(t, catchAllFirst), domain.KindClient)
	_, err = eng.Start(inst)
	require.NoError(t, err)
	next, err = eng.SubmitAnswer(inst, domain.ChoiceAnswer{Value: "original"}, submitTime)
	require.NoError(t, err)
	assert.Empty(t, next)
	assert.True(t, inst.Completed)
}

func TestMultiChoiceMatchesByContainment(t *testing.T) {
	eng := runtime.NewEngine()
	inst := domain.NewInstance(branchingNotation(t), domain.KindClient)
	_, err := eng.Start(inst)
	require.NoError(t, err)

	answer := domain.MultiChoiceAnswer{Values: []string{"something_else", "amendment"}}
	next, err := eng.SubmitAnswer(inst, answer, submitTime)
	require.NoError(t, err)
	assert.Equal(t, domain.StateID("org__existing_entity"), next)
}

func TestOpaqueAnswersOnlyMatchCatchAll(t *testing.T) {
	eng := runtime.NewEngine()

	opaque := []domain.Answer{
		domain.PayloadAnswer{Hash: domain.DataHash{Algorithm: "sha256", Value: "deadbeef"}},
		domain.MetadataAnswer{Fields: map[string]string{"first_name": "Ada"}},
	}

	for _, answer := range opaque {
		inst := domain.NewInstance(branchingNotation(t), domain.KindClient)
		_, err := eng.Start(inst)
		require.NoError(t, err)

		_, err = eng.SubmitAnswer(inst, answer, submitTime)
		var noMatch *domain.NoTransitionError
		assert.ErrorAs(t, err, &noMatch, "%T must not satisfy a choice condition", answer)

		// The catch-all in the linear notation accepts it fine.
		inst = domain.NewInstance(linearNotation(t), domain.KindClient)
		_, err = eng.Start(inst)
		require.NoError(t, err)
		_, err = eng.SubmitAnswer(inst, answer, submitTime)
		assert.NoError(t, err)
		assert.True(t, inst.Completed)
	}
}

func TestLifecycleGuards(t *testing.T) {
	eng := runtime.NewEngine()
	inst := domain.NewInstance(linearNotation(t), domain.KindClient)

	// Submitting before Start.
	_, err := eng.SubmitAnswer(inst, domain.StringAnswer{Value: "x"}, submitTime)
	assert.ErrorIs(t, err, domain.ErrNotStarted)

	_, err = eng.Start(inst)
	require.NoError(t, err)
	_, err = eng.SubmitAnswer(inst, domain.StringAnswer{Value: "Acme LLC"}, submitTime)
	require.NoError(t, err)

	// Both operations reject a completed instance.
	_, err = eng.Start(inst)
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
	_, err = eng.SubmitAnswer(inst, domain.StringAnswer{Value: "again"}, submitTime)
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
}

func TestStartEdgeIntoEnd(t *testing.T) {
	n := &domain.Notation{
		Metadata: domain.Metadata{Code: "empty", Title: "Empty"},
		Flow:     domain.StateMachine{Start: domain.ToEnd()},
	}
	eng := runtime.NewEngine()
	inst := domain.NewInstance(n, domain.KindClient)

	_, err := eng.Start(inst)
	var noMatch *domain.NoTransitionError
	require.ErrorAs(t, err, &noMatch)
	assert.True(t, inst.Completed)
	assert.Empty(t, inst.Current)
}

func TestUnknownCurrentState(t *testing.T) {
	eng := runtime.NewEngine()
	inst := domain.NewInstance(linearNotation(t), domain.KindClient)
	inst.Current = "tampered"

	_, err := eng.SubmitAnswer(inst, domain.StringAnswer{Value: "x"}, submitTime)
	var unknown *domain.UnknownStateError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, domain.StateID("tampered"), unknown.State)
}

func TestRestart(t *testing.T) {
	eng := runtime.NewEngine()
	inst := domain.NewInstance(branchingNotation(t), domain.KindClient)

	_, err := eng.Start(inst)
	require.NoError(t, err)
	_, err = eng.SubmitAnswer(inst, domain.ChoiceAnswer{Value: "original"}, submitTime)
	require.NoError(t, err)

	eng.Restart(inst)
	assert.False(t, inst.Started())
	assert.Empty(t, inst.Answers)

	// A completed instance restarts the same way, and the fresh run is
	// indistinguishable from the first.
	state, err := eng.Start(inst)
	require.NoError(t, err)
	assert.Equal(t, domain.StateID("annual_or_amended"), state)
}

func TestReplayOverwritesAnswer(t *testing.T) {
	// A cycle back into an answered state overwrites its record.
	b := dsl.New("loop", "Loop")
	b.Flow().StartAt("entity_name").
		State("entity_name").On("redo", "org_review").ThenEnd().Machine().
		State("org_review").Then("entity_name")
	eng := runtime.NewEngine()
	inst := domain.NewInstance(buildNotation(t, b), domain.KindClient)

	_, err := eng.Start(inst)
	require.NoError(t, err)
	_, err = eng.SubmitAnswer(inst, domain.StringAnswer{Value: "redo"}, submitTime)
	require.NoError(t, err)
	_, err = eng.SubmitAnswer(inst, domain.StringAnswer{Value: "looks fine"}, submitTime)
	require.NoError(t, err)
	require.Equal(t, domain.StateID("entity_name"), inst.Current)

	later := submitTime.Add(time.Minute)
	_, err = eng.SubmitAnswer(inst, domain.StringAnswer{Value: "Acme LLC"}, later)
	require.NoError(t, err)
	assert.True(t, inst.Completed)

	record := inst.Answers["entity_name"]
	assert.Equal(t, domain.StringAnswer{Value: "Acme LLC"}, record.Value)
	assert.Equal(t, later, record.At)
}

func TestAlignmentKindFallsBackToFlow(t *testing.T) {
	eng := runtime.NewEngine()

	// No alignment declared: the client flow drives the instance.
	inst := domain.NewInstance(linearNotation(t), domain.KindAlignment)
	state, err := eng.Start(inst)
	require.NoError(t, err)
	assert.Equal(t, domain.StateID("entity_name"), state)

	// Alignment declared: it takes over for alignment instances only.
	b := dsl.New("llc", "LLC")
	b.Flow().StartAt("entity_name").
		State("entity_name").ThenEnd()
	b.Alignment().StartAt("org_review").
		State("org_review").ThenEnd()
	n := buildNotation(t, b)

	inst = domain.NewInstance(n, domain.KindAlignment)
	state, err = eng.Start(inst)
	require.NoError(t, err)
	assert.Equal(t, domain.StateID("org_review"), state)

	inst = domain.NewInstance(n, domain.KindClient)
	state, err = eng.Start(inst)
	require.NoError(t, err)
	assert.Equal(t, domain.StateID("entity_name"), state)
}

func TestLifecycleHooks(t *testing.T) {
	var entered []domain.StateID
	var answered int
	var completed bool

	eng := runtime.NewEngine(runtime.WithLifecycleHooks(domain.LifecycleHooks{
		OnStateEnter: func(ev *domain.FlowEvent) { entered = append(entered, ev.State) },
		OnAnswer:     func(ev *domain.AnswerEvent) { answered++ },
		OnComplete:   func(ev *domain.FlowEvent) { completed = true },
	}))
	inst := domain.NewInstance(branchingNotation(t), domain.KindClient)

	_, err := eng.Start(inst)
	require.NoError(t, err)
	_, err = eng.SubmitAnswer(inst, domain.ChoiceAnswer{Value: "original"}, submitTime)
	require.NoError(t, err)
	_, err = eng.SubmitAnswer(inst, domain.StringAnswer{Value: "Acme LLC"}, submitTime)
	require.NoError(t, err)

	assert.Equal(t, []domain.StateID{"annual_or_amended", "entity_name__new_llc"}, entered)
	assert.Equal(t, 2, answered)
	assert.True(t, completed)
}

func TestMatches(t *testing.T) {
	choice := domain.ChoiceCondition{Expected: "original"}

	assert.True(t, runtime.Matches(domain.AnyCondition{}, domain.StringAnswer{Value: "anything"}))
	assert.True(t, runtime.Matches(choice, domain.ChoiceAnswer{Value: "original"}))
	assert.True(t, runtime.Matches(choice, domain.StringAnswer{Value: "original"}))
	assert.False(t, runtime.Matches(choice, domain.ChoiceAnswer{Value: "amendment"}))
	assert.True(t, runtime.Matches(choice, domain.MultiChoiceAnswer{Values: []string{"x", "original"}}))
	assert.False(t, runtime.Matches(choice, domain.MultiChoiceAnswer{Values: []string{"x"}}))
	assert.False(t, runtime.Matches(choice, domain.PayloadAnswer{}))
	assert.False(t, runtime.Matches(choice, domain.MetadataAnswer{}))
}

func TestNoTransitionErrorMessage(t *testing.T) {
	err := error(&domain.NoTransitionError{State: "annual_or_amended"})
	assert.Contains(t, err.Error(), "annual_or_amended")

	var target *domain.NoTransitionError
	assert.True(t, errors.As(err, &target))
}
