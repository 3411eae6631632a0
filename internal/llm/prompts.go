package llm

// Tone is a named system-prompt template controlling rewriting style.
type Tone struct {
	Name   string
	Prompt string
}

// SeniorityLevel is an optional persona modifier prepended to the system prompt.
type SeniorityLevel struct {
	Name     string
	Modifier string
}

const (
	DefaultToneKey      = "rephrase"
	DefaultSeniorityKey = "none"
)

// Tones maps tone keys to their display names and system prompts.
var Tones = map[string]Tone{
	"rephrase": {
		Name:   "Rephrase (fix grammar + clarity)",
		Prompt: "Rephrase the following text to fix grammar and improve clarity. Keep the same meaning and tone. Only output the rephrased text, nothing else.",
	},
	"grammar": {
		Name:   "Fix grammar only",
		Prompt: "Fix only the grammar errors in the following text. Make minimal changes. Only output the corrected text, nothing else.",
	},
	"professional": {
		Name:   "Professional",
		Prompt: "Rewrite the following text in a professional, formal business tone. Fix any grammar issues. Only output the rewritten text, nothing else.",
	},
	"concise": {
		Name:   "Concise",
		Prompt: "Rewrite the following text to be more concise and to the point. Fix any grammar issues. Only output the rewritten text, nothing else.",
	},
	"friendly": {
		Name:   "Friendly",
		Prompt: "Rewrite the following text in a warm, friendly, casual tone. Fix any grammar issues. Only output the rewritten text, nothing else.",
	},
}

// SeniorityLevels maps seniority keys to persona modifiers. "none" is a
// no-op and the fallback for unknown keys.
var SeniorityLevels = map[string]SeniorityLevel{
	"senior": {
		Name:     "Senior (15+ years)",
		Modifier: "Write as a senior professional with 15+ years of experience: confident, precise, and direct.",
	},
	"mid": {
		Name:     "Mid-level",
		Modifier: "Write as a mid-level professional: clear, competent, and measured.",
	},
	"none": {
		Name:     "No persona",
		Modifier: "",
	},
}

// inlinePrefix maps a literal lowercase prefix to the tone it selects.
// Match order is declaration order; first match wins.
type inlinePrefix struct {
	prefix string
	tone   string
}

var inlinePrefixes = []inlinePrefix{
	{"grammar:", "grammar"},
	{"fix:", "grammar"},
	{"professional:", "professional"},
	{"formal:", "professional"},
	{"concise:", "concise"},
	{"short:", "concise"},
	{"friendly:", "friendly"},
	{"casual:", "friendly"},
}

// BuildSystemPrompt combines tone, seniority modifier, and context into one
// system prompt. Order is fixed: seniority modifier, tone prompt, context.
// Unknown keys fall back to the defaults.
func BuildSystemPrompt(toneKey, seniorityKey, context string) string {
	tone, ok := Tones[toneKey]
	if !ok {
		tone = Tones[DefaultToneKey]
	}

	level, ok := SeniorityLevels[seniorityKey]
	if !ok {
		level = SeniorityLevels[DefaultSeniorityKey]
	}

	prompt := tone.Prompt

	if level.Modifier != "" {
		prompt = level.Modifier + "\n\n" + prompt
	}

	if context != "" {
		prompt = prompt + "\n\nContext: " + context
	}

	return prompt
}
