package structures

// CliFlags carries the command line arguments into the injectors.
// User selects one-shot mode: when set, the daemon is not started and a
// single report is written to OutputDir instead.
type CliFlags struct {
	ConfigPath string
	DebugMode  bool
	User       string
	OutputDir  string
}
