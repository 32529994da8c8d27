package protocol

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dalymople/avrsetup/internal/flow"
)

// DecodeUserInput parses a user step submission.
func DecodeUserInput(r io.Reader) (flow.UserInput, error) {
	var input flow.UserInput
	if err := json.NewDecoder(r).Decode(&input); err != nil {
		return flow.UserInput{}, fmt.Errorf("failed to decode user input: %w", err)
	}
	return input, nil
}

// DecodeSelectInput parses a select step submission.
func DecodeSelectInput(r io.Reader) (flow.SelectInput, error) {
	var input flow.SelectInput
	if err := json.NewDecoder(r).Decode(&input); err != nil {
		return flow.SelectInput{}, fmt.Errorf("failed to decode select input: %w", err)
	}
	return input, nil
}

// DecodeSettingsInput parses a settings step submission. The body is
// decoded over the form defaults, so fields the client omits keep them
// and a bare "{}" submits the defaults unchanged.
func DecodeSettingsInput(r io.Reader) (flow.SettingsInput, error) {
	input := flow.DefaultSettings()
	if err := json.NewDecoder(r).Decode(&input); err != nil {
		return flow.SettingsInput{}, fmt.Errorf("failed to decode settings input: %w", err)
	}
	return input, nil
}
