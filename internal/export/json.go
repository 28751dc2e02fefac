package export

import (
	"encoding/json"

	"vodscribe/internal/article"
)

// JSONRenderer writes the complete pipeline output as indented JSON.
type JSONRenderer struct{}

func (r *JSONRenderer) Extension() string { return "json" }

func (r *JSONRenderer) Render(output *article.FinalOutput) ([]byte, error) {
	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
