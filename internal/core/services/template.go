package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/custodia-labs/formwright/internal/core/domain"
	"github.com/custodia-labs/formwright/internal/core/ports/driving"
	"github.com/custodia-labs/formwright/internal/logger"
	"github.com/custodia-labs/formwright/internal/templates"
)

// Ensure TemplateService implements the interface.
var _ driving.TemplateService = (*TemplateService)(nil)

// MaxPromptLength is the longest description or instruction accepted, in characters.
const MaxPromptLength = 1000

// Synthesis latencies and scoring.
const (
	DefaultGenerateDelay = 1500 * time.Millisecond
	DefaultModifyDelay   = 1000 * time.Millisecond

	defaultConfidence = 0.8
	confidenceStep    = 0.05
	maxConfidence     = 0.95
)

// generationRule picks a library blueprint when its keywords appear in the
// description or conversation.
type generationRule struct {
	keywords []string
	template string
}

// Rules are tried in order; the first match wins.
var generationRules = []generationRule{
	{keywords: []string{"apartment", "cleaning"}, template: templates.KeyApartmentCleaning},
	{keywords: []string{"restaurant", "food"}, template: templates.KeyRestaurant},
}

// sectionRule appends a library section when the instruction asks to add
// something matching its keywords.
type sectionRule struct {
	keywords []string
	section  string
}

var sectionRules = []sectionRule{
	{keywords: []string{"safety"}, section: templates.SectionSafety},
	{keywords: []string{"bathroom"}, section: templates.SectionBathroom},
	{keywords: []string{"storage", "utility"}, section: templates.SectionStorage},
	{keywords: []string{"dining"}, section: templates.SectionDining},
}

// fallbackSectionKeywords add a generic section when no named section matched.
var fallbackSectionKeywords = []string{"section", "more"}

// TemplateService synthesises templates from free text with keyword rules
// over the built-in library.
type TemplateService struct {
	library       *templates.Library
	now           func() time.Time
	newID         func() string
	generateDelay time.Duration
	modifyDelay   time.Duration
}

// TemplateServiceOption configures a TemplateService.
type TemplateServiceOption func(*TemplateService)

// WithTemplateClock overrides the timestamp source.
func WithTemplateClock(now func() time.Time) TemplateServiceOption {
	return func(s *TemplateService) {
		s.now = now
	}
}

// WithTemplateIDs overrides the id generator for templates, sections and fields.
func WithTemplateIDs(newID func() string) TemplateServiceOption {
	return func(s *TemplateService) {
		s.newID = newID
	}
}

// WithDelays sets the simulated latency of generation and modification.
// Zero disables the delay.
func WithDelays(generate, modify time.Duration) TemplateServiceOption {
	return func(s *TemplateService) {
		s.generateDelay = generate
		s.modifyDelay = modify
	}
}

// NewTemplateService creates a template service over library.
func NewTemplateService(library *templates.Library, opts ...TemplateServiceOption) *TemplateService {
	s := &TemplateService{
		library:       library,
		now:           func() time.Time { return time.Now().UTC() },
		newID:         uuid.NewString,
		generateDelay: DefaultGenerateDelay,
		modifyDelay:   DefaultModifyDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate builds a template from a description and optional conversation
// transcript. The first rule whose keywords appear in either wins; otherwise
// the generic template is returned.
func (s *TemplateService) Generate(ctx context.Context, description, transcript string) (*domain.Template, error) {
	if s.library == nil {
		return nil, domain.ErrNotImplemented
	}
	description, err := checkPrompt(description)
	if err != nil {
		return nil, err
	}
	if err := wait(ctx, s.generateDelay); err != nil {
		return nil, err
	}

	haystack := strings.ToLower(description) + "\n" + strings.ToLower(transcript)
	key := templates.KeyGeneric
	for _, rule := range generationRules {
		if containsAny(haystack, rule.keywords) {
			key = rule.template
			break
		}
	}

	bp, ok := s.library.Template(key)
	if !ok {
		return nil, fmt.Errorf("template %q missing from library: %w", key, domain.ErrNotFound)
	}
	logger.Debug("generated %q from %d-character description", key, utf8.RuneCountInString(description))
	t := bp.Instantiate(s.newID, s.now())
	return &t, nil
}

// Modify applies a free-text instruction to a copy of template. Every rule
// requires "add"; named sections are appended for each matching rule, a photo
// field is appended to the last section, and a generic section is added only
// when no named section matched. The copy's version and confidence are bumped
// even if no rule fired.
func (s *TemplateService) Modify(ctx context.Context, template *domain.Template, instruction string) (*domain.Template, error) {
	if s.library == nil {
		return nil, domain.ErrNotImplemented
	}
	if template == nil {
		return nil, fmt.Errorf("%w: no template to modify", domain.ErrInvalidInput)
	}
	instruction, err := checkPrompt(instruction)
	if err != nil {
		return nil, err
	}
	if err := wait(ctx, s.modifyDelay); err != nil {
		return nil, err
	}

	out := template.Clone()
	text := strings.ToLower(instruction)
	if strings.Contains(text, "add") {
		s.applyModifications(&out, text)
	}

	out.UpdatedAt = s.now()
	if out.UpdatedAt.Before(out.CreatedAt) {
		out.UpdatedAt = out.CreatedAt
	}
	out.Version = max(out.Version, 1) + 1
	confidence := out.Confidence
	if confidence == 0 {
		confidence = defaultConfidence
	}
	out.Confidence = min(maxConfidence, confidence+confidenceStep)
	return &out, nil
}

func (s *TemplateService) applyModifications(t *domain.Template, text string) {
	added := false
	for _, rule := range sectionRules {
		if containsAny(text, rule.keywords) {
			s.appendSection(t, rule.section)
			added = true
		}
	}

	if strings.Contains(text, "photo") && len(t.Sections) > 0 {
		if photo, ok := s.library.Field(templates.FieldPhoto); ok {
			last := len(t.Sections) - 1
			t.Sections[last].Fields = append(t.Sections[last].Fields, templates.InstantiateField(photo, s.newID))
		}
	}

	if !added && containsAny(text, fallbackSectionKeywords) {
		s.appendSection(t, templates.SectionAdditional)
	}
}

func (s *TemplateService) appendSection(t *domain.Template, key string) {
	bp, ok := s.library.Section(key)
	if !ok {
		logger.Warn("section snippet %q missing from library", key)
		return
	}
	t.Sections = append(t.Sections, bp.Instantiate(s.newID, len(t.Sections)))
}

// Templates lists the library templates, freshly instantiated.
func (s *TemplateService) Templates() []domain.Template {
	if s.library == nil {
		return nil
	}
	now := s.now()
	blueprints := s.library.Templates()
	out := make([]domain.Template, 0, len(blueprints))
	for _, bp := range blueprints {
		out = append(out, bp.Instantiate(s.newID, now))
	}
	return out
}

// Accept turns a template into a new form with a fresh id, owned by owner.
func (s *TemplateService) Accept(template domain.Template, owner string) domain.Form {
	return domain.FromTemplate(template, s.newID(), owner, s.now())
}

// checkPrompt trims text and enforces the length bounds.
func checkPrompt(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: prompt is empty", domain.ErrInvalidInput)
	}
	if n := utf8.RuneCountInString(text); n > MaxPromptLength {
		return "", fmt.Errorf("%w: prompt is %d characters, limit is %d", domain.ErrInvalidInput, n, MaxPromptLength)
	}
	return text, nil
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
