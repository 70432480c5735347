package models

// Filter is the interface every preprocessing filter implements. A filter
// receives the run's packet, transforms packet.Frame (mutating it or replacing
// it wholesale), and publishes any statistics and modified-column declarations
// through the packet's metadata side channel under its stage name.
//
// Name is the stable display label used as the StageResult.StageName and the
// metadata key namespace. Params returns the filter's resolved parameters
// (defaults applied), used for the reproducibility export.
type Filter interface {
	Name() string
	Params() any
	Run(packet *DataPacket) (*DataPacket, error)
}

// StepDefinition selects one filter by catalog key plus its parameters.
//
// Example:
//
//	{
//	  "key": "pca",                   // The filter's catalog key
//	  "params": {"n_components": 3}   // Parameters (varies by filter)
//	}
type StepDefinition struct {
	Key    string `json:"key" yaml:"key" validate:"required"`
	Params any    `json:"params" yaml:"params" validate:"omitempty"`
}

// PipelineConfig is the serializable reproducibility artifact for one run:
// the exact step order with resolved parameters. Step order equals execution
// order.
type PipelineConfig struct {
	Steps []StepDefinition `json:"steps" yaml:"steps"`
}

// StepKeys returns the ordered catalog keys of the configured steps.
func (c PipelineConfig) StepKeys() []string {
	keys := make([]string, 0, len(c.Steps))
	for _, step := range c.Steps {
		keys = append(keys, step.Key)
	}
	return keys
}

// StepParams returns the per-key parameter mapping for the configured steps.
// With duplicate keys the last occurrence wins; duplicate steps are not
// defined behavior for validation.
func (c PipelineConfig) StepParams() map[string]any {
	params := make(map[string]any, len(c.Steps))
	for _, step := range c.Steps {
		params[step.Key] = step.Params
	}
	return params
}
