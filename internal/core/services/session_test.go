package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/formwright/internal/core/domain"
)

func setupSession(t *testing.T, opts ...TemplateServiceOption) *GenerationSession {
	t.Helper()
	return NewGenerationSession(setupTemplateService(t, opts...))
}

func TestGenerationSession_FirstSendGenerates(t *testing.T) {
	session := setupSession(t)
	assert.Nil(t, session.Current())

	tpl, err := session.Send(context.Background(), "  restaurant inspection  ")

	require.NoError(t, err)
	assert.Equal(t, "Restaurant Health Inspection", tpl.Name)
	assert.Equal(t, tpl, session.Current())
	assert.Equal(t, "User: restaurant inspection", session.Transcript())
}

func TestGenerationSession_ModifyIntentEditsDraft(t *testing.T) {
	session := setupSession(t)
	ctx := context.Background()
	first, err := session.Send(ctx, "restaurant")
	require.NoError(t, err)

	second, err := session.Send(ctx, "add a dining section")

	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Version+1, second.Version)
	assert.Len(t, second.Sections, len(first.Sections)+1)
}

func TestGenerationSession_NewTopicRegeneratesWithContext(t *testing.T) {
	session := setupSession(t)
	ctx := context.Background()
	_, err := session.Send(ctx, "we run a restaurant")
	require.NoError(t, err)

	// no modify keyword, so a fresh draft is generated with the
	// earlier transcript as context
	tpl, err := session.Send(ctx, "start over with a thorough checklist")

	require.NoError(t, err)
	assert.Equal(t, "Restaurant Health Inspection", tpl.Name)
	assert.Equal(t, 1, tpl.Version)
}

func TestGenerationSession_EmptyInput(t *testing.T) {
	session := setupSession(t)

	_, err := session.Send(context.Background(), "   ")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, session.Transcript())
}

func TestGenerationSession_ClipsLongInput(t *testing.T) {
	session := setupSession(t)

	_, err := session.Send(context.Background(), strings.Repeat("a", MaxPromptLength+50))

	require.NoError(t, err)
	assert.Len(t, session.Transcript(), len("User: ")+MaxPromptLength)
}

func TestGenerationSession_BusyRejectsConcurrentSend(t *testing.T) {
	session := setupSession(t, WithDelays(time.Hour, time.Hour))
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := session.Send(ctx, "restaurant")
		done <- err
	}()

	require.Eventually(t, func() bool {
		session.mu.Lock()
		defer session.mu.Unlock()
		return session.busy
	}, time.Second, time.Millisecond)

	_, err := session.Send(context.Background(), "apartment")
	assert.ErrorIs(t, err, domain.ErrSynthesisBusy)
	_, err = session.Accept("")
	assert.ErrorIs(t, err, domain.ErrSynthesisBusy)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	// the session is usable again once the request has finished
	session.templates = setupTemplateService(t)
	_, err = session.Send(context.Background(), "apartment")
	assert.NoError(t, err)
}

func TestGenerationSession_FailedSendKeepsDraft(t *testing.T) {
	session := setupSession(t)
	first, err := session.Send(context.Background(), "restaurant")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = session.Send(ctx, "add safety")

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, first, session.Current())
}

func TestGenerationSession_RemoveSectionAndField(t *testing.T) {
	session := setupSession(t)
	tpl, err := session.Send(context.Background(), "restaurant")
	require.NoError(t, err)

	assert.False(t, session.RemoveSection("ghost"))
	assert.True(t, session.RemoveSection(tpl.Sections[0].ID))

	current := session.Current()
	require.Len(t, current.Sections, 2)
	assert.Equal(t, "Food Safety", current.Sections[0].Title)
	assert.Equal(t, 0, current.Sections[0].Order)

	section := current.Sections[0]
	assert.True(t, session.RemoveField(section.ID, section.Fields[0].ID))
	assert.False(t, session.RemoveField(section.ID, "ghost"))
	assert.Len(t, session.Current().Sections[0].Fields, len(section.Fields)-1)

	assert.Len(t, tpl.Sections, 3, "returned copies are unaffected")
}

func TestGenerationSession_RemoveWithoutDraft(t *testing.T) {
	session := setupSession(t)

	assert.False(t, session.RemoveSection("s"))
	assert.False(t, session.RemoveField("s", "f"))
}

func TestGenerationSession_Accept(t *testing.T) {
	session := setupSession(t)
	tpl, err := session.Send(context.Background(), "apartment")
	require.NoError(t, err)

	form, err := session.Accept("inspector-2")

	require.NoError(t, err)
	assert.Equal(t, tpl.Name, form.Title)
	assert.Equal(t, "inspector-2", form.CreatedBy)
	assert.NotEqual(t, tpl.ID, form.ID)
	assert.Nil(t, session.Current())
	assert.Empty(t, session.Transcript())
}

func TestGenerationSession_AcceptWithoutDraft(t *testing.T) {
	session := setupSession(t)

	_, err := session.Accept("")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGenerationSession_Reset(t *testing.T) {
	session := setupSession(t)
	_, err := session.Send(context.Background(), "apartment")
	require.NoError(t, err)

	session.Reset()

	assert.Nil(t, session.Current())
	assert.Empty(t, session.Transcript())
}

func TestGenerationSession_NilTemplates(t *testing.T) {
	session := NewGenerationSession(nil)

	_, err := session.Send(context.Background(), "x")

	assert.ErrorIs(t, err, domain.ErrNotImplemented)
}
