// internal/workers/generate-competitor/config.go
package generatecompetitor

type Config struct {
	Temperature float32
}

func LoadConfig() *Config {
	return &Config{
		// Higher temperature gives more varied fictional competitors.
		Temperature: 0.8,
	}
}
