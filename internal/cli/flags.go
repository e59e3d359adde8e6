package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile string

	// Dictionary flags
	PairsFile    string
	ReversePairs bool
	PairsCSV     bool
	Normalize    bool

	// Translation flags
	OOVMarker      string
	Header         bool
	TextCol        int
	KeepLines      bool
	UpdateInterval int
	ShowUnknown    bool
	TrackUnknown   bool
	ShortRows      string

	// Run output flags
	OOVDatabase string
	ReportFile  string
	ReportTop   int
	Archive     bool

	// Compare flags
	First int
	Color bool

	// Suggestion flags
	Provider      string
	SourceLang    string
	TargetLang    string
	OpenAIModel   string
	OpenAIBaseURL string
	GeminiModel   string
	Limit         int
	MinCount      int
	Workers       int
	DryRun        bool
	NoBreaker     bool
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		OOVMarker:      "*oov*",
		TextCol:        1,
		KeepLines:      true,
		UpdateInterval: 1000,
		ShowUnknown:    true,
		TrackUnknown:   true,
		ShortRows:      "fail",
		ReportTop:      20,
		First:          10,
		Provider:       "openai",
		SourceLang:     "English",
		TargetLang:     "French",
		OpenAIModel:    "gpt-4o-mini",
		GeminiModel:    "gemini-2.0-flash",
		Limit:          50,
		MinCount:       1,
		Workers:        1,
	}
}
