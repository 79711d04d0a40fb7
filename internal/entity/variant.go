package entity

type Mode string

const (
	// ModeWhite erases pixels whose channels are all close to 255.
	ModeWhite Mode = "white"
	// ModeGrey also erases light pixels whose channels are close to each other.
	ModeGrey Mode = "grey"
)

// Variant is one output of a classify-and-erase run.
type Variant struct {
	Name      string `json:"name" mapstructure:"name"`
	Mode      Mode   `json:"mode" mapstructure:"mode"`
	Threshold int    `json:"threshold" mapstructure:"threshold"`
}

type Preset struct {
	Name     string    `json:"name" mapstructure:"name"`
	Variants []Variant `json:"variants" mapstructure:"variants"`
}

// VariantOutput binds a variant to the file it is written to.
type VariantOutput struct {
	Variant `mapstructure:",squash"`
	Output  string `json:"output" mapstructure:"output"`
}

// Job is a batch run: one input file, several outputs.
type Job struct {
	Name     string          `json:"name" mapstructure:"name"`
	Input    string          `json:"input" mapstructure:"input"`
	Variants []VariantOutput `json:"variants" mapstructure:"variants"`
}
