package features

// Stage 是功能开关的生命周期阶段。
type Stage string

const (
	StageStable       Stage = "stable"
	StageBeta         Stage = "beta"
	StageExperimental Stage = "experimental"
)

// Spec describes a feature flag exposed by the CLI.
type Spec struct {
	Key            string
	Stage          Stage
	DefaultEnabled bool
	Summary        string
}

// 已知开关。
const (
	Markdown      = "markdown"
	RollNarration = "roll_narration"
	RollGlow      = "roll_glow"
	AltScreen     = "alt_screen"
	PromptHistory = "prompt_history"
)

// Specs lists every feature the client understands.
var Specs = []Spec{
	{Key: Markdown, Stage: StageStable, DefaultEnabled: true, Summary: "render narrative text as markdown"},
	{Key: RollNarration, Stage: StageStable, DefaultEnabled: true, Summary: "explain difficulty rolls in a sentence"},
	{Key: RollGlow, Stage: StageBeta, DefaultEnabled: true, Summary: "highlight rolls of 1-2 and 99-100"},
	{Key: AltScreen, Stage: StageStable, DefaultEnabled: true, Summary: "run the TUI in the alternate screen"},
	{Key: PromptHistory, Stage: StageBeta, DefaultEnabled: true, Summary: "record inputs for ctrl+p / ctrl+n recall"},
}

var known = func() map[string]Spec {
	m := make(map[string]Spec, len(Specs))
	for _, spec := range Specs {
		m[spec.Key] = spec
	}
	return m
}()

// IsKnown reports whether the feature key is recognized.
func IsKnown(key string) bool {
	_, ok := known[key]
	return ok
}

// DefaultEnabled reports the default value for the given feature key.
func DefaultEnabled(key string) bool {
	return known[key].DefaultEnabled
}

// Enabled 合并显式设置与默认值。
func Enabled(overrides map[string]bool, key string) bool {
	if v, ok := overrides[key]; ok {
		return v
	}
	return DefaultEnabled(key)
}
