package summarizer

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"briefly/pkg/config"
)

// Kind selects the engine behind a backend.
type Kind string

const (
	KindInference Kind = "inference"
	KindClaude    Kind = "claude"
	KindOpenAI    Kind = "openai"
	KindGemini    Kind = "gemini"
	KindNoop      Kind = "noop"
)

// DefaultInferenceURL is the Hugging Face inference base; the model id is appended.
const DefaultInferenceURL = "https://router.huggingface.co/hf-inference/models/"

var (
	// ErrNoBackends is returned when the backend set is empty.
	ErrNoBackends = errors.New("at least one summarization backend is required")

	// ErrDuplicateBackend is returned when two backends share a name.
	ErrDuplicateBackend = errors.New("duplicate backend name")
)

// Config describes one named backend.
type Config struct {
	// Name is the stable identifier used as the key in results.
	Name string `yaml:"name"`

	// Kind selects the engine. Default: inference.
	Kind Kind `yaml:"kind"`

	// Model is the model identifier passed to the engine.
	Model string `yaml:"model"`

	// Endpoint overrides the engine's base URL.
	Endpoint string `yaml:"endpoint"`

	// APIKey authenticates against the engine. When empty, the kind's usual
	// environment variable is consulted.
	APIKey string `yaml:"api_key"`

	// MaxLength and MinLength bound the summary (tokens for inference, words for LLMs).
	MaxLength int `yaml:"max_length"`
	MinLength int `yaml:"min_length"`

	// Timeout bounds a single call. Default: 30s.
	Timeout time.Duration `yaml:"timeout"`

	// MaxInputRunes truncates the input sent to the engine. Zero disables truncation.
	MaxInputRunes int `yaml:"max_input_runes"`
}

// DefaultConfigs returns the default backend pair.
func DefaultConfigs() []Config {
	return []Config{
		{
			Name:      "bart",
			Kind:      KindInference,
			Model:     "facebook/bart-large-cnn",
			MaxLength: 200,
			MinLength: 50,
			Timeout:   30 * time.Second,
		},
		{
			Name:      "pegasus",
			Kind:      KindInference,
			Model:     "google/pegasus-xsum",
			MaxLength: 100,
			MinLength: 30,
			Timeout:   30 * time.Second,
		},
	}
}

// defaultFor returns the defaults for a backend name: the built-in entry for
// known names, the generic inference defaults otherwise.
func defaultFor(name string) Config {
	for _, c := range DefaultConfigs() {
		if c.Name == name {
			return c
		}
	}
	return Config{
		Name:      name,
		Kind:      KindInference,
		MaxLength: 150,
		MinLength: 40,
		Timeout:   30 * time.Second,
	}
}

func defaultModel(kind Kind) string {
	switch kind {
	case KindClaude:
		return "claude-sonnet-4-5-20250929"
	case KindOpenAI:
		return "gpt-4o-mini"
	case KindGemini:
		return "gemini-2.5-flash"
	}
	return ""
}

func apiKeyEnv(kind Kind) string {
	switch kind {
	case KindClaude:
		return "ANTHROPIC_API_KEY"
	case KindOpenAI:
		return "OPENAI_API_KEY"
	case KindGemini:
		return "GEMINI_API_KEY"
	case KindInference:
		return "HF_API_TOKEN"
	}
	return ""
}

// withDefaults fills the zero fields of c.
func (c Config) withDefaults() Config {
	def := defaultFor(c.Name)
	if c.Kind == "" {
		c.Kind = def.Kind
	}
	if c.Model == "" {
		if c.Kind == def.Kind && def.Model != "" {
			c.Model = def.Model
		} else {
			c.Model = defaultModel(c.Kind)
		}
	}
	if c.MaxLength == 0 {
		c.MaxLength = def.MaxLength
	}
	if c.MinLength == 0 {
		c.MinLength = def.MinLength
	}
	if c.Timeout == 0 {
		c.Timeout = def.Timeout
	}
	if c.APIKey == "" {
		if env := apiKeyEnv(c.Kind); env != "" {
			c.APIKey = os.Getenv(env)
		}
	}
	return c
}

// Validate checks a single backend configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("backend name must not be empty")
	}
	switch c.Kind {
	case KindInference, KindClaude, KindOpenAI, KindGemini, KindNoop:
	default:
		return fmt.Errorf("backend %s: unknown kind %q", c.Name, c.Kind)
	}
	if c.Kind == KindInference && c.Model == "" && c.Endpoint == "" {
		return fmt.Errorf("backend %s: inference needs a model or an endpoint", c.Name)
	}
	if c.MaxLength <= 0 {
		return fmt.Errorf("backend %s: max length must be positive, got %d", c.Name, c.MaxLength)
	}
	if c.MinLength < 0 || c.MinLength > c.MaxLength {
		return fmt.Errorf("backend %s: min length %d must be within 0..%d", c.Name, c.MinLength, c.MaxLength)
	}
	if err := config.ValidatePositiveDuration(c.Timeout); err != nil {
		return fmt.Errorf("backend %s: timeout: %w", c.Name, err)
	}
	if c.MaxInputRunes < 0 {
		return fmt.Errorf("backend %s: max input runes must not be negative", c.Name)
	}
	return nil
}

// ValidateSet checks every configuration and the uniqueness of names.
func ValidateSet(cfgs []Config) error {
	if len(cfgs) == 0 {
		return ErrNoBackends
	}
	seen := make(map[string]struct{}, len(cfgs))
	for i := range cfgs {
		if err := cfgs[i].Validate(); err != nil {
			return err
		}
		if _, dup := seen[cfgs[i].Name]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateBackend, cfgs[i].Name)
		}
		seen[cfgs[i].Name] = struct{}{}
	}
	return nil
}

// LoadConfigsFromEnv reads the backend set.
//
// Environment variables:
//   - BACKENDS_FILE: YAML file with a "backends" list; takes precedence
//   - SUMMARY_BACKENDS: comma-separated names (default: bart,pegasus)
//   - BACKEND_<NAME>_KIND, _MODEL, _ENDPOINT, _API_KEY, _MAX_LENGTH,
//     _MIN_LENGTH, _TIMEOUT, _MAX_INPUT_RUNES
func LoadConfigsFromEnv() ([]Config, error) {
	if path := config.GetEnvString("BACKENDS_FILE", ""); path != "" {
		return LoadConfigsFromFile(path)
	}

	names := config.GetEnvStringList("SUMMARY_BACKENDS", []string{"bart", "pegasus"})
	cfgs := make([]Config, 0, len(names))
	for _, name := range names {
		prefix := "BACKEND_" + envName(name) + "_"
		def := defaultFor(name)
		c := Config{
			Name:          name,
			Kind:          Kind(strings.ToLower(config.GetEnvString(prefix+"KIND", string(def.Kind)))),
			Model:         config.GetEnvString(prefix+"MODEL", ""),
			Endpoint:      config.GetEnvString(prefix+"ENDPOINT", ""),
			APIKey:        config.GetEnvString(prefix+"API_KEY", ""),
			MaxLength:     config.GetEnvInt(prefix+"MAX_LENGTH", 0),
			MinLength:     config.GetEnvInt(prefix+"MIN_LENGTH", 0),
			Timeout:       config.GetEnvDuration(prefix+"TIMEOUT", 0),
			MaxInputRunes: config.GetEnvInt(prefix+"MAX_INPUT_RUNES", 0),
		}
		cfgs = append(cfgs, c.withDefaults())
	}

	if err := ValidateSet(cfgs); err != nil {
		return nil, fmt.Errorf("backend configuration validation failed: %w", err)
	}
	return cfgs, nil
}

type fileConfig struct {
	Backends []Config `yaml:"backends"`
}

// LoadConfigsFromFile reads the backend set from a YAML file.
func LoadConfigsFromFile(path string) ([]Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read backends file: %w", err)
	}
	return ParseConfigs(data)
}

// ParseConfigs decodes a YAML backend set and applies defaults.
func ParseConfigs(data []byte) ([]Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse backends file: %w", err)
	}
	cfgs := make([]Config, 0, len(fc.Backends))
	for _, c := range fc.Backends {
		c.Name = strings.TrimSpace(c.Name)
		c.Kind = Kind(strings.ToLower(string(c.Kind)))
		cfgs = append(cfgs, c.withDefaults())
	}
	if err := ValidateSet(cfgs); err != nil {
		return nil, fmt.Errorf("backend configuration validation failed: %w", err)
	}
	return cfgs, nil
}

// Names returns the sorted backend names of cfgs.
func Names(cfgs []Config) []string {
	names := make([]string, 0, len(cfgs))
	for _, c := range cfgs {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

func envName(name string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(name))
}
