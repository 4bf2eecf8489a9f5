package cfg

type Cfg struct {
	// HTTP configuration
	Port        string
	APIKey      string
	CORSOrigins []string

	// Storage configuration
	DataDir string

	// Application configuration
	RefreshInterval int
	Debug           bool
	Version         string
}
