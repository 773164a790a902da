package cli

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/formwright/internal/core/domain"
)

var savedFormLine = regexp.MustCompile(`Saved form: (\S+)`)

// savedFormID returns the id printed by a command that saved a form.
func savedFormID(t *testing.T, out string) string {
	t.Helper()
	m := savedFormLine.FindStringSubmatch(out)
	require.Len(t, m, 2, "no saved form in output: %s", out)
	return m[1]
}

func TestTemplateListCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("template", "list")

	require.NoError(t, err)
	assert.Contains(t, out, "Apartment Cleaning Inspection")
	assert.Contains(t, out, "Restaurant Health Inspection")
	assert.Contains(t, out, "Custom Inspection Form")
}

func TestTemplateGenerateCmd_Prints(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("template", "generate", "weekly", "restaurant", "check")

	require.NoError(t, err)
	assert.Contains(t, out, "Template: ")
	assert.Contains(t, out, "food-service")
	assert.NotContains(t, out, "Saved form")
}

func TestTemplateGenerateCmd_Save(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("template", "generate", "apartment", "cleaning", "--save")

	require.NoError(t, err)
	form, err := formService.GetForm(context.Background(), savedFormID(t, out))
	require.NoError(t, err)
	assert.Equal(t, "tester", form.CreatedBy)
	assert.False(t, form.IsTemplate)
	assert.NotEmpty(t, form.Sections)
}

func TestTemplateGenerateCmd_RejectsBlankPrompt(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("template", "generate", "   ")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTemplateModifyCmd_FromGeneratedJSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	out, err := execute("template", "generate", "restaurant", "--json")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "template.json")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o600))

	out, err = execute("template", "modify", path, "add", "safety", "checks", "--json")

	require.NoError(t, err)
	assert.Contains(t, out, `"industry": "food-service"`)
	assert.Contains(t, out, `"version": 2`)
}

func TestTemplateModifyCmd_BadFile(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	dir := t.TempDir()

	_, err := execute("template", "modify", filepath.Join(dir, "missing.json"), "add", "safety")
	assert.Error(t, err)

	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))
	_, err = execute("template", "modify", path, "add", "safety")
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "failed to parse")
	}
}

func TestTemplateChatCmd_AcceptSavesForm(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	rootCmd.SetIn(strings.NewReader("/show\n\napartment cleaning\nadd a dining section\n/accept\n"))

	out, err := execute("template", "chat")

	require.NoError(t, err)
	assert.Contains(t, out, "No draft yet.")
	form, err := formService.GetForm(context.Background(), savedFormID(t, out))
	require.NoError(t, err)
	assert.Equal(t, "tester", form.CreatedBy)
}

func TestTemplateChatCmd_Commands(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	rootCmd.SetIn(strings.NewReader("/accept\n/drop nope\n/reset\n/quit\n"))

	out, err := execute("template", "chat")

	require.NoError(t, err)
	assert.Contains(t, out, "Cannot accept:")
	assert.Contains(t, out, "No section nope in the draft.")
	assert.Contains(t, out, "Started over.")
	forms, err := formService.ListForms(context.Background(), domain.FormFilter{})
	require.NoError(t, err)
	assert.Empty(t, forms)
}

func TestTemplateChatCmd_EndsAtEOF(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	rootCmd.SetIn(strings.NewReader("restaurant\n"))

	out, err := execute("template", "chat")

	require.NoError(t, err)
	assert.Contains(t, out, "Template: ")
}
