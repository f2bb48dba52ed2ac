package dsl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formery/formery/pkg/domain"
	"github.com/formery/formery/pkg/dsl"
)

func TestBuild(t *testing.T) {
	b := dsl.New("llc_formation", "Register a new LLC").
		Description("Forms a limited liability company.").
		Respondent(domain.RespondentOrgAndPerson)
	b.Flow().StartAt("annual_or_amended").
		State("annual_or_amended").
		On("original", "entity_name__new_llc").
		OnEnd("amendment").
		Then("entity_name__new_llc").Machine().
		State("entity_name__new_llc").ThenEnd()

	n, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, "llc_formation", n.Code())
	assert.Equal(t, domain.RespondentOrgAndPerson, n.Metadata.Respondent)
	assert.Equal(t, domain.ToState("annual_or_amended"), n.Flow.Start)

	node := n.Flow.Node("annual_or_amended")
	require.NotNil(t, node)
	require.Len(t, node.Transitions, 3)
	assert.Equal(t, domain.ChoiceCondition{Expected: "original"}, node.Transitions[0].Condition)
	assert.True(t, node.Transitions[1].To.End)
	assert.Equal(t, domain.AnyCondition{}, node.Transitions[2].Condition)

	// The question reference is derived from the state identifier.
	leaf := n.Flow.Node("entity_name__new_llc")
	require.NotNil(t, leaf)
	assert.Equal(t, "entity_name", leaf.Question.Code)
	assert.Equal(t, []string{"new_llc"}, leaf.Question.Context)
}

func TestBuildAlignment(t *testing.T) {
	b := dsl.New("llc", "LLC")
	b.Flow().StartAt("entity_name").
		State("entity_name").ThenEnd()
	b.Alignment().StartAt("org_review").
		State("org_review").ThenEnd()

	n, err := b.Build()
	require.NoError(t, err)
	require.NotNil(t, n.Alignment)
	assert.Equal(t, domain.ToState("org_review"), n.Alignment.Start)
}

func TestBuildDocument(t *testing.T) {
	b := dsl.New("llc", "LLC").Document(domain.Document{
		URL:  "https://example.com/form.pdf",
		Type: domain.DocumentPDF,
	})
	b.Flow().StartAt("entity_name").
		State("entity_name").ThenEnd()

	n, err := b.Build()
	require.NoError(t, err)
	require.NotNil(t, n.Document)
	assert.Equal(t, domain.DocumentPDF, n.Document.Type)
}

func TestStateReturnsExistingBuilder(t *testing.T) {
	b := dsl.New("llc", "LLC")
	m := b.Flow().StartAt("entity_name")
	m.State("entity_name").On("redo", "entity_name")
	m.State("entity_name").ThenEnd()

	n, err := b.Build()
	require.NoError(t, err)
	node := n.Flow.Node("entity_name")
	require.NotNil(t, node)
	assert.Len(t, node.Transitions, 2)
}

func TestBuildErrors(t *testing.T) {
	t.Run("missing code", func(t *testing.T) {
		b := dsl.New("", "T")
		b.Flow().StartAt("a").State("a").ThenEnd()
		_, err := b.Build()
		assert.Error(t, err)
	})

	t.Run("missing title", func(t *testing.T) {
		b := dsl.New("c", "")
		b.Flow().StartAt("a").State("a").ThenEnd()
		_, err := b.Build()
		assert.Error(t, err)
	})

	t.Run("missing start", func(t *testing.T) {
		b := dsl.New("c", "T")
		b.Flow().State("a").ThenEnd()
		_, err := b.Build()
		assert.Error(t, err)
	})

	t.Run("undeclared start target", func(t *testing.T) {
		b := dsl.New("c", "T")
		b.Flow().StartAt("ghost").State("a").ThenEnd()
		_, err := b.Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ghost")
	})

	t.Run("undeclared transition target", func(t *testing.T) {
		b := dsl.New("c", "T")
		b.Flow().StartAt("a").State("a").Then("ghost")
		_, err := b.Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ghost")
	})

	t.Run("undeclared alignment target", func(t *testing.T) {
		b := dsl.New("c", "T")
		b.Flow().StartAt("a").State("a").ThenEnd()
		b.Alignment().StartAt("review").State("review").Then("ghost")
		_, err := b.Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "alignment")
	})
}
