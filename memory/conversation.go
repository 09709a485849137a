package memory

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/calyptra/vertex-agent/internal/genai"
	"github.com/calyptra/vertex-agent/internal/transcript"
)

// LoadTranscript reads a persisted transcript. A missing file is not an
// error; it returns an empty transcript.
func LoadTranscript(path string) ([]genai.Content, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var contents []genai.Content
	if err := json.Unmarshal(b, &contents); err != nil {
		return nil, err
	}
	return contents, nil
}

// SaveTranscript writes the transcript to path, first trimming any trailing
// function calls that never received their responses.
func SaveTranscript(path string, contents []genai.Content) error {
	contents = transcript.TrimDangling(contents)
	b, err := json.MarshalIndent(contents, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
