package ctags

import (
	"github.com/go-viper/mapstructure/v2"

	"github.com/teranos/qntx-ctags/errors"
)

// DefaultExecutable is the program invoked when the host configures none
const DefaultExecutable = "ctags"

// Params is the per-session source configuration supplied by the host
type Params struct {
	Executable string `mapstructure:"executable" json:"executable"`
}

// DefaultParams returns the configuration used when the host supplies none
func DefaultParams() Params {
	return Params{Executable: DefaultExecutable}
}

// DecodeParams converts a dynamic host configuration (LSP initializationOptions,
// MCP tool arguments) into Params. Absent keys keep their defaults and unknown
// keys are ignored. A present executable that is not a string is an
// ErrConfiguration.
func DecodeParams(raw map[string]any) (Params, error) {
	params := DefaultParams()
	if raw == nil {
		return params, nil
	}

	if value, ok := raw["executable"]; ok {
		if _, isString := value.(string); !isString {
			return DefaultParams(), errors.NewConfigurationError("executable should be a string, got %T", value)
		}
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  &params,
		TagName: "mapstructure",
	})
	if err != nil {
		return DefaultParams(), errors.Wrap(err, "failed to build params decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return DefaultParams(), errors.Mark(errors.Wrap(err, "failed to decode source params"), errors.ErrConfiguration)
	}

	return params, nil
}
