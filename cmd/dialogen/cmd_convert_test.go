package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertCommandE(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.json")
	output := filepath.Join(dir, "out.json")

	raw := `[
	  {"persona":"A","dialogue":[{"text":"hi"},{"text":"yo"}],"image_text":"x"},
	  {"persona":"B","dialogue":[]}
	]`
	require.NoError(t, os.WriteFile(input, []byte(raw), 0o644))

	err := convertCommandE(nil, []string{input, output})
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	got := string(data)
	assert.Contains(t, got, `"role": "user"`)
	assert.Contains(t, got, `"role": "assistant"`)
	assert.Contains(t, got, `"content": "hi"`)
	assert.NotContains(t, got, "image_text", "image_text must be stripped")
	assert.NotContains(t, got, `"B"`, "empty dialogues should be dropped")
}

func TestConvertCommandERejectsNonList(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"not":"a list"}`), 0o644))

	err := convertCommandE(nil, []string{input, filepath.Join(dir, "out.json")})
	assert.Error(t, err)
}
