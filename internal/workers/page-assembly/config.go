// internal/workers/page-assembly/config.go
package pageassembly

type Config struct {
	AnswerTemperature         float32
	RecommendationTemperature float32
	RecommendationMaxTokens   int

	// StrictTemplates makes a failed template validation fail the page
	// build instead of logging a warning.
	StrictTemplates bool
}

func LoadConfig() *Config {
	return &Config{
		AnswerTemperature:         0.5,
		RecommendationTemperature: 0.6,
		RecommendationMaxTokens:   200,
		StrictTemplates:           true,
	}
}
