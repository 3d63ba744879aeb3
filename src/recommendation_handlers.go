package main

import (
	"awm/src/lib"
	"awm/src/models"
	"awm/src/types"
	"awm/src/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const recommendationCacheTTL = 10 * time.Minute

const recommendationSystemPrompt = "You are an advertising consultant helping advertisers pick " +
	"billboards. Respond with a JSON array of objects with keys billboard_id, title, match_score " +
	"(0-100), reason, highlights and trade_offs. Recommend at most 3 billboards."

func recommendationHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/recommendations", func(ctx *gin.Context) {
			var body types.RecommendationRequestBody
			if err := ctx.ShouldBindBodyWithJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}

			cacheKey := recommendationCacheKey(&body)
			rd := lib.GetRedisClient()
			if rd != nil {
				if cached, err := rd.Get(context.Background(), cacheKey).Result(); err == nil && cached != "" {
					var recs []types.Recommendation
					if err := json.Unmarshal([]byte(cached), &recs); err == nil {
						ctx.JSON(http.StatusOK, gin.H{"data": recs, "cached": true})
						return
					}
				}
			}

			filters := types.BillboardQueryFilters{MaxPrice: body.Budget}
			available := true
			filters.Available = &available
			billboards, err := utils.ListBillboards(&filters)
			if err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			if len(billboards) == 0 {
				ctx.JSON(http.StatusOK, gin.H{"data": []types.Recommendation{}})
				return
			}

			recs, err := requestRecommendations(ctx, &body, billboards)
			if err != nil {
				switch {
				case errors.Is(err, lib.ErrAIRateLimited):
					ctx.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
					return
				case errors.Is(err, lib.ErrAICreditsExhausted):
					ctx.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
					return
				}
				log.Printf("AI recommendation failed, using fallback: %s\n", err.Error())
				recs = fallbackRecommendations(billboards)
			}
			if serialized, err := json.Marshal(recs); err == nil {
				go utils.CacheJSON(cacheKey, string(serialized), recommendationCacheTTL)
			}
			ctx.JSON(http.StatusOK, gin.H{"data": recs})
		})
	return g
}

func recommendationCacheKey(body *types.RecommendationRequestBody) string {
	budget := int64(0)
	if body.Budget != nil {
		budget = *body.Budget
	}
	traffic := ""
	if body.PreferredTraffic != nil {
		traffic = *body.PreferredTraffic
	}
	location := ""
	if body.LocationPreference != nil {
		location = strings.ToLower(*body.LocationPreference)
	}
	return fmt.Sprintf("recommendations:%d:%s:%s", budget, traffic, location)
}

func requestRecommendations(ctx context.Context, body *types.RecommendationRequestBody, billboards []models.Billboard) ([]types.Recommendation, error) {
	inventory := make([]map[string]any, 0, len(billboards))
	for _, b := range billboards {
		impressions := 0
		if b.DailyImpressions != nil {
			impressions = *b.DailyImpressions
		}
		inventory = append(inventory, map[string]any{
			"billboard_id":      b.ID.String(),
			"title":             b.Title,
			"location":          b.Location,
			"price_per_month":   b.PricePerMonth,
			"traffic_score":     b.TrafficScore,
			"daily_impressions": impressions,
			"size":              fmt.Sprintf("%.0fx%.0f", b.Width, b.Height),
		})
	}
	prefs := map[string]any{}
	if body.Budget != nil {
		prefs["budget"] = *body.Budget
	}
	if body.PreferredTraffic != nil {
		prefs["preferred_traffic"] = *body.PreferredTraffic
	}
	if body.LocationPreference != nil {
		prefs["location_preference"] = *body.LocationPreference
	}
	payload, err := json.Marshal(map[string]any{
		"preferences": prefs,
		"billboards":  inventory,
	})
	if err != nil {
		return nil, err
	}
	content, err := lib.AIChatCompletion(ctx, recommendationSystemPrompt, string(payload))
	if err != nil {
		return nil, err
	}
	var recs []types.Recommendation
	if err := json.Unmarshal([]byte(lib.ExtractJSONBlock(content)), &recs); err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, errors.New("empty recommendation list")
	}
	if len(recs) > 3 {
		recs = recs[:3]
	}
	return recs, nil
}

// fallbackRecommendations ranks the available inventory by impressions when
// the AI gateway is unreachable.
func fallbackRecommendations(billboards []models.Billboard) []types.Recommendation {
	sorted := make([]models.Billboard, len(billboards))
	copy(sorted, billboards)
	sort.SliceStable(sorted, func(i, j int) bool {
		vi, vj := 0, 0
		if sorted[i].DailyImpressions != nil {
			vi = *sorted[i].DailyImpressions
		}
		if sorted[j].DailyImpressions != nil {
			vj = *sorted[j].DailyImpressions
		}
		return vi > vj
	})
	if len(sorted) > 3 {
		sorted = sorted[:3]
	}
	recs := make([]types.Recommendation, 0, len(sorted))
	for _, b := range sorted {
		recs = append(recs, types.Recommendation{
			BillboardID: b.ID.String(),
			Title:       b.Title,
			MatchScore:  70,
			Reason:      "High-traffic billboard within your budget",
			Highlights:  []string{fmt.Sprintf("%s traffic", b.TrafficScore), b.Location},
		})
	}
	return recs
}
