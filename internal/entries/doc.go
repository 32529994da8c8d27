// Package entries persists the receivers paired through the setup flow.
//
// Each paired receiver is one Entry, keyed by its unique ID (the model-serial
// pair the flow constructs). The registry lives in a YAML file under the
// user's configuration directory:
//
//   - Linux: $XDG_CONFIG_HOME/avrsetup/entries.yaml or $HOME/.config/avrsetup/entries.yaml
//   - macOS: $HOME/.config/avrsetup/entries.yaml
//   - Windows: %LOCALAPPDATA%\avrsetup\entries.yaml
//
// Writes are atomic (temp file plus rename) so a crash mid-save cannot
// corrupt the registry. The Store serializes access; one process should hold
// one Store.
//
// The unique ID discipline is what keeps re-runs of the setup flow from
// duplicating receivers: Create refuses an ID that is already present with
// ErrAlreadyConfigured, and UpdateHost lets discovery refresh the address of
// an existing entry without touching anything else.
package entries
