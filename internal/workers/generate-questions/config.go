// internal/workers/generate-questions/config.go
package generatequestions

type Config struct {
	Temperature    float32
	MinTotal       int
	MinPerCategory int
	MaxAttempts    int // full re-generation attempts when the count undershoots
}

func LoadConfig() *Config {
	return &Config{
		Temperature:    0.7,
		MinTotal:       15,
		MinPerCategory: 3,
		MaxAttempts:    3,
	}
}
