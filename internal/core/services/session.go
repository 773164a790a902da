package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/formwright/internal/core/domain"
	"github.com/custodia-labs/formwright/internal/core/mutation"
	"github.com/custodia-labs/formwright/internal/core/ports/driving"
	"github.com/custodia-labs/formwright/internal/logger"
)

// Ensure GenerationSession implements the interface.
var _ driving.GenerationSession = (*GenerationSession)(nil)

// modifyIntent marks input that edits the current draft rather than
// starting a new one.
var modifyIntent = []string{"add", "modify", "change", "remove", "update", "more"}

// GenerationSession holds one synthesis conversation: a transcript and the
// current draft template. Only one request may be in flight at a time.
type GenerationSession struct {
	templates driving.TemplateService
	engine    *mutation.Engine

	mu           sync.Mutex
	busy         bool
	epoch        int
	current      *domain.Template
	conversation domain.Conversation
}

// NewGenerationSession creates an empty session.
func NewGenerationSession(templates driving.TemplateService) *GenerationSession {
	return &GenerationSession{
		templates: templates,
		engine:    mutation.New(),
	}
}

// Send records input in the transcript and either modifies the current draft
// or generates a new one, using the earlier transcript as context. Input is
// trimmed and clipped to MaxPromptLength characters.
func (s *GenerationSession) Send(ctx context.Context, input string) (*domain.Template, error) {
	if s.templates == nil {
		return nil, domain.ErrNotImplemented
	}
	input = clip(strings.TrimSpace(input), MaxPromptLength)
	if input == "" {
		return nil, fmt.Errorf("%w: message is empty", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, domain.ErrSynthesisBusy
	}
	s.busy = true
	prior := s.conversation.Record(input)
	draft := s.current
	epoch := s.epoch
	s.mu.Unlock()

	var (
		result *domain.Template
		err    error
	)
	if draft != nil && containsAny(strings.ToLower(input), modifyIntent) {
		logger.Debug("session: modifying draft %s", draft.ID)
		result, err = s.templates.Modify(ctx, draft, input)
	} else {
		logger.Debug("session: generating new draft")
		result, err = s.templates.Generate(ctx, input, prior)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	if err != nil {
		return nil, err
	}
	// A Reset while the request was in flight discards its result.
	if epoch == s.epoch {
		s.current = result
	}
	out := result.Clone()
	return &out, nil
}

// Current returns a copy of the draft, or nil before the first Send.
func (s *GenerationSession) Current() *domain.Template {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	out := s.current.Clone()
	return &out
}

// Transcript returns the conversation so far.
func (s *GenerationSession) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversation.Transcript()
}

// RemoveSection drops a section from the draft.
func (s *GenerationSession) RemoveSection(sectionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return false
	}
	f, ok := s.engine.DeleteSection(s.current.Form, sectionID)
	if ok {
		next := *s.current
		next.Form = f
		s.current = &next
	}
	return ok
}

// RemoveField drops a field from the draft.
func (s *GenerationSession) RemoveField(sectionID, fieldID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return false
	}
	f, ok := s.engine.DeleteField(s.current.Form, sectionID, fieldID)
	if ok {
		next := *s.current
		next.Form = f
		s.current = &next
	}
	return ok
}

// Accept converts the draft into a new form and resets the session.
func (s *GenerationSession) Accept(owner string) (domain.Form, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return domain.Form{}, domain.ErrSynthesisBusy
	}
	if s.current == nil {
		return domain.Form{}, fmt.Errorf("%w: no draft to accept", domain.ErrInvalidInput)
	}
	form := s.templates.Accept(s.current.Clone(), owner)
	s.epoch++
	s.current = nil
	s.conversation.Reset()
	return form, nil
}

// Reset clears the draft and transcript.
func (s *GenerationSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.current = nil
	s.conversation.Reset()
}

func clip(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
