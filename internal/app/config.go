package app

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Engine selection values for Config.Engine.
const (
	EngineSidecar   = "sidecar"
	EngineTesseract = "tesseract"
)

// Config holds environment-derived settings. A .env file in the working
// directory seeds the environment when present; real environment
// variables win over it.
type Config struct {
	// TemplatesPath is where the vendor template store lives.
	TemplatesPath string
	// Engine selects the extraction backend.
	Engine string
}

// LoadConfig reads configuration from the environment.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		TemplatesPath: os.Getenv("INVOICE_REVIEW_TEMPLATES"),
		Engine:        os.Getenv("INVOICE_REVIEW_ENGINE"),
	}

	if cfg.TemplatesPath == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			base = "."
		}
		cfg.TemplatesPath = filepath.Join(base, "invoice-review", "templates.json")
	}
	if cfg.Engine == "" {
		cfg.Engine = EngineSidecar
	}
	return cfg
}
