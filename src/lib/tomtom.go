package lib

import (
	"awm/src/config"
	"awm/src/types"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"net/http"

	"github.com/tidwall/gjson"
)

const flowSegmentEndpoint = "https://api.tomtom.com/traffic/services/4/flowSegmentData/relative0/10/json"

type impressionsRange struct {
	Base   int
	Spread int
}

// Tier table is a policy constant: lower speed ratio means more congestion,
// which means more eyeballs on a billboard.
var impressionsByTier = map[types.TrafficScore]impressionsRange{
	types.TRAFFIC_HIGH:   {Base: 15000, Spread: 10000},
	types.TRAFFIC_MEDIUM: {Base: 5000, Spread: 10000},
	types.TRAFFIC_LOW:    {Base: 1000, Spread: 4000},
}

// ClassifyTraffic maps a speed ratio to a traffic tier. A non-positive free
// flow speed is replaced with a divisor of 1 to avoid division by zero.
func ClassifyTraffic(currentSpeed float64, freeFlowSpeed float64) (types.TrafficScore, float64) {
	if freeFlowSpeed <= 0 {
		freeFlowSpeed = 1
	}
	ratio := currentSpeed / freeFlowSpeed
	switch {
	case ratio < 0.5:
		return types.TRAFFIC_HIGH, ratio
	case ratio < 0.75:
		return types.TRAFFIC_MEDIUM, ratio
	default:
		return types.TRAFFIC_LOW, ratio
	}
}

func SampleDailyImpressions(score types.TrafficScore) int {
	r, ok := impressionsByTier[score]
	if !ok {
		r = impressionsByTier[types.TRAFFIC_LOW]
	}
	return r.Base + rand.Intn(r.Spread)
}

func FetchTrafficData(ctx context.Context, latitude float64, longitude float64) (*types.TrafficResult, error) {
	apiKey := config.TomTomAPIKey()
	if apiKey == "" {
		return nil, errors.New("TOMTOM_API_KEY is not configured")
	}
	url := fmt.Sprintf("%s?point=%f,%f&key=%s", flowSegmentEndpoint, latitude, longitude, apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("[TomTom] Request failed: %s\n", err.Error())
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		log.Printf("[TomTom] API error: %d %s\n", resp.StatusCode, string(body))
		return nil, fmt.Errorf("TomTom API error: %d", resp.StatusCode)
	}

	flow := gjson.GetBytes(body, "flowSegmentData")
	currentSpeed := flow.Get("currentSpeed").Float()
	freeFlowSpeed := flow.Get("freeFlowSpeed").Float()
	score, ratio := ClassifyTraffic(currentSpeed, freeFlowSpeed)

	result := &types.TrafficResult{
		Success:          true,
		TrafficScore:     score,
		DailyImpressions: SampleDailyImpressions(score),
		CurrentSpeed:     currentSpeed,
		FreeFlowSpeed:    freeFlowSpeed,
		SpeedRatio:       int(math.Round(ratio * 100)),
		RoadName:         flow.Get("roadName").String(),
		Confidence:       flow.Get("confidence").Float(),
	}
	if result.RoadName == "" {
		result.RoadName = "Unknown"
	}
	return result, nil
}
