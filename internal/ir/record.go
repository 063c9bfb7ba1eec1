package ir

// NOTE: These are store-layer records, not part of the instruction set.
// The run token is a generated UUID, not content-addressed; step IDs are.

// Run represents one recorded program execution.
type Run struct {
	Token         string `json:"token"`
	ProgramHash   string `json:"program_hash"`
	Source        string `json:"source"`
	EngineVersion string `json:"engine_version"`
	IRVersion     string `json:"ir_version"`
	Steps         int64  `json:"steps"`
}

// Step represents one executed instruction within a run, paired with the
// value it observed: the binding it defined, or for PRINT the printed value.
type Step struct {
	ID         string `json:"id"` // content-addressed, see StepID
	RunToken   string `json:"run_token"`
	Seq        int64  `json:"seq"` // logical clock, starts at 1 per run
	Op         Opcode `json:"op"`
	ResultName string `json:"result_name,omitempty"`
	Value      Value  `json:"value"`
}

// Output represents one printed value within a run, in print order.
type Output struct {
	RunToken string `json:"run_token"`
	Index    int    `json:"index"`
	Value    Value  `json:"value"`
}
