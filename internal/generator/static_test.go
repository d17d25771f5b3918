package generator_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/vytor/chordflash/internal/config"
	"github.com/vytor/chordflash/internal/generator"
	"github.com/vytor/chordflash/internal/quiz"
)

func TestStaticGenerator_RoundRobin(t *testing.T) {
	g := generator.NewStaticGenerator([]byte("a"), []byte("b"))

	var got []string
	for i := 0; i < 3; i++ {
		out, err := g.Generate(context.Background(), testPrompt)
		require.NoError(t, err)
		got = append(got, string(out))
	}
	assert.Equal(t, []string{"a", "b", "a"}, got)
}

func TestStaticGenerator_Empty(t *testing.T) {
	_, err := generator.NewStaticGenerator().Generate(context.Background(), testPrompt)
	assert.ErrorIs(t, err, generator.ErrEmptyCompletion)
}

func TestLoadStaticGenerator(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "02-g.json"), []byte(`{"chord_name":"G"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01-c.json"), []byte(cMajor), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	g, err := generator.LoadStaticGenerator(dir)
	require.NoError(t, err)

	first, err := g.Generate(context.Background(), testPrompt)
	require.NoError(t, err)
	assert.JSONEq(t, cMajor, string(first))

	second, err := g.Generate(context.Background(), testPrompt)
	require.NoError(t, err)
	assert.JSONEq(t, `{"chord_name":"G"}`, string(second))
}

func TestLoadStaticGenerator_NoFiles(t *testing.T) {
	_, err := generator.LoadStaticGenerator(t.TempDir())
	assert.Error(t, err)
}

func TestFromConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.json"), []byte(cMajor), 0o644))

	g, err := generator.FromConfig(context.Background(), config.Config{Generator: config.GeneratorStatic, StaticQuizDir: dir})
	require.NoError(t, err)
	assert.Equal(t, "static", g.Name())

	g, err = generator.FromConfig(context.Background(), config.Config{
		Generator:       config.GeneratorAzure,
		AzureEndpoint:   "https://example.openai.azure.com",
		AzureDeployment: "gpt-4o",
	})
	require.NoError(t, err)
	assert.Equal(t, "azure:gpt-4o", g.Name())

	_, err = generator.FromConfig(context.Background(), config.Config{Generator: "llama"})
	assert.Error(t, err)
}

func TestSchemaFromJSON(t *testing.T) {
	s := generator.SchemaFromJSON(quiz.JSONSchema())

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, []string{"chord_name", "keys", "explanation"}, s.Required)
	assert.Equal(t, s.Required, s.PropertyOrdering)
	require.Contains(t, s.Properties, "keys")

	keys := s.Properties["keys"]
	assert.Equal(t, genai.TypeArray, keys.Type)
	require.NotNil(t, keys.Items)
	assert.Equal(t, genai.TypeObject, keys.Items.Type)
	assert.Equal(t, genai.TypeInteger, keys.Items.Properties["x"].Type)
	assert.Equal(t, genai.TypeBoolean, keys.Items.Properties["is_black"].Type)

	note := keys.Items.Properties["note"]
	assert.Equal(t, genai.TypeString, note.Type)
	assert.Len(t, note.Enum, 17)
	assert.Contains(t, note.Enum, "F#")
}
