package summarizer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigsFromEnv_Defaults(t *testing.T) {
	t.Setenv("HF_API_TOKEN", "hf-secret")

	cfgs, err := LoadConfigsFromEnv()
	require.NoError(t, err)
	require.Len(t, cfgs, 2)

	assert.Equal(t, "bart", cfgs[0].Name)
	assert.Equal(t, KindInference, cfgs[0].Kind)
	assert.Equal(t, "facebook/bart-large-cnn", cfgs[0].Model)
	assert.Equal(t, 200, cfgs[0].MaxLength)
	assert.Equal(t, 50, cfgs[0].MinLength)
	assert.Equal(t, "hf-secret", cfgs[0].APIKey)

	assert.Equal(t, "pegasus", cfgs[1].Name)
	assert.Equal(t, "google/pegasus-xsum", cfgs[1].Model)
	assert.Equal(t, 100, cfgs[1].MaxLength)
	assert.Equal(t, 30, cfgs[1].MinLength)
	assert.Equal(t, 30*time.Second, cfgs[1].Timeout)
}

func TestLoadConfigsFromEnv_Custom(t *testing.T) {
	t.Setenv("SUMMARY_BACKENDS", "bart, gpt-mini")
	t.Setenv("BACKEND_BART_MAX_LENGTH", "120")
	t.Setenv("BACKEND_GPT_MINI_KIND", "OpenAI")
	t.Setenv("BACKEND_GPT_MINI_API_KEY", "explicit")
	t.Setenv("BACKEND_GPT_MINI_TIMEOUT", "12s")
	t.Setenv("OPENAI_API_KEY", "from-env")

	cfgs, err := LoadConfigsFromEnv()
	require.NoError(t, err)
	require.Len(t, cfgs, 2)

	assert.Equal(t, 120, cfgs[0].MaxLength)
	assert.Equal(t, 50, cfgs[0].MinLength)

	gpt := cfgs[1]
	assert.Equal(t, "gpt-mini", gpt.Name)
	assert.Equal(t, KindOpenAI, gpt.Kind)
	assert.Equal(t, "gpt-4o-mini", gpt.Model)
	assert.Equal(t, "explicit", gpt.APIKey)
	assert.Equal(t, 12*time.Second, gpt.Timeout)
	assert.Equal(t, 150, gpt.MaxLength)
}

func TestLoadConfigsFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "duplicate names", env: map[string]string{"SUMMARY_BACKENDS": "bart,bart"}},
		{name: "unknown kind", env: map[string]string{"SUMMARY_BACKENDS": "x", "BACKEND_X_KIND": "mystery"}},
		{name: "min above max", env: map[string]string{"BACKEND_BART_MIN_LENGTH": "500"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfigsFromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backends.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backends:
  - name: bart
  - name: claude
    kind: claude
    api_key: sk-test
    max_length: 180
    min_length: 60
    timeout: 45s
  - name: lead
    kind: noop
`), 0o600))
	t.Setenv("BACKENDS_FILE", path)

	cfgs, err := LoadConfigsFromEnv()
	require.NoError(t, err)
	require.Len(t, cfgs, 3)

	assert.Equal(t, "facebook/bart-large-cnn", cfgs[0].Model)

	assert.Equal(t, KindClaude, cfgs[1].Kind)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfgs[1].Model)
	assert.Equal(t, "sk-test", cfgs[1].APIKey)
	assert.Equal(t, 180, cfgs[1].MaxLength)
	assert.Equal(t, 60, cfgs[1].MinLength)
	assert.Equal(t, 45*time.Second, cfgs[1].Timeout)

	assert.Equal(t, KindNoop, cfgs[2].Kind)
	assert.Equal(t, []string{"bart", "claude", "lead"}, Names(cfgs))
}

func TestParseConfigs_Errors(t *testing.T) {
	_, err := ParseConfigs([]byte("backends: ["))
	assert.Error(t, err)

	_, err = ParseConfigs([]byte("backends: []"))
	assert.ErrorIs(t, err, ErrNoBackends)

	_, err = ParseConfigs([]byte("backends:\n  - name: ''\n"))
	assert.Error(t, err)
}

func TestLoadConfigsFromFile_Missing(t *testing.T) {
	_, err := LoadConfigsFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestAdapterResolve(t *testing.T) {
	a := &adapter{config: Config{MaxLength: 100, MinLength: 30}}

	assert.Equal(t, Params{MaxLength: 100, MinLength: 30}, a.resolve(Params{}))
	assert.Equal(t, Params{MaxLength: 60, MinLength: 30}, a.resolve(Params{MaxLength: 60}))
	assert.Equal(t, Params{MaxLength: 20, MinLength: 20}, a.resolve(Params{MaxLength: 20}))
}

func TestBuildPrompt(t *testing.T) {
	got := buildPrompt("Body.", Params{MaxLength: 90, MinLength: 30})
	assert.Contains(t, got, "30 to 90 words")
	assert.Contains(t, got, "\n\nBody.")
}
