package batch

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/phrazzld/dialogen/internal/generation"
)

// LoadPersonas reads a newline-delimited persona/scenario file, dropping
// blank lines and surrounding whitespace.
func LoadPersonas(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read personas file %s: %w", path, err)
	}

	var personas []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			personas = append(personas, line)
		}
	}
	return personas, nil
}

// SystemPrompt builds the shared instruction prefix for a batch: strict
// JSON-only output, Hinglish register, and the full persona list for
// context.
func SystemPrompt(personas []string) string {
	var b strings.Builder
	b.WriteString("SYSTEM:\n")
	b.WriteString("IMPORTANT: Return ONLY a single valid JSON object (start '{' and end '}') per request. ")
	b.WriteString("NO markdown, NO extra text.\n")
	b.WriteString("You are an expert conversational AI generator. Generate each conversation in natural Hinglish, ")
	b.WriteString("code-switching between Hindi and English. Keep utterances idiomatic and under 40 words per turn.\n\n")
	b.WriteString("Personas & Scenarios (one per request):\n")
	b.WriteString(strings.Join(personas, "\n"))
	return b.String()
}

// PersonaTasks builds one generation task per persona line, numbered from 1.
func PersonaTasks(personas []string) []generation.Task {
	systemPrompt := SystemPrompt(personas)

	tasks := make([]generation.Task, 0, len(personas))
	for i, persona := range personas {
		idx := i + 1
		tasks = append(tasks, generation.Task{
			Label:        taskLabel(idx),
			SystemPrompt: systemPrompt,
			UserPrompt:   userPrompt(idx, persona),
		})
	}
	return tasks
}

// ScenarioTasks builds a fixed-count batch where each task samples one
// random scenario from the list. Used instead of PersonaTasks when no
// persona file is configured.
func ScenarioTasks(count int, scenarios []string, rng *rand.Rand) []generation.Task {
	systemPrompt := SystemPrompt(scenarios)

	tasks := make([]generation.Task, 0, count)
	for i := 0; i < count; i++ {
		idx := i + 1
		scenario := scenarios[rng.Intn(len(scenarios))]
		tasks = append(tasks, generation.Task{
			Label:        fmt.Sprintf("scenario #%d", idx),
			SystemPrompt: systemPrompt,
			UserPrompt:   userPrompt(idx, scenario),
		})
	}
	return tasks
}

// userPrompt is the per-task request body: it names the persona and pins
// the exact record shape the normalizer expects back.
func userPrompt(idx int, persona string) string {
	return fmt.Sprintf(`USER:
Generate a single JSON object for Persona #%d:
%s
Format:
{
  "persona": "<Name>",
  "scenario": "<Short scenario>",
  "dialogue": [
    {"speaker":"<Name>", "text":"…"},
    {"speaker":"Interlocutor","text":"…"},
    …6 turns total…
  ]
}`, idx, persona)
}
