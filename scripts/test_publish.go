//go:build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type incidentReportEvent struct {
	ID          string   `json:"id"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Reporter    string   `json:"reporter,omitempty"`
}

func ptr[T any](v T) *T {
	return &v
}

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	apiAddr := flag.String("api", "http://localhost:8080", "SafeWalk API base URL")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// MG Road, Bengaluru
	event := incidentReportEvent{
		ID:          uuid.New().String(),
		Category:    "poor_lighting",
		Description: "street lights out along the metro pillar stretch",
		Latitude:    ptr(12.9756),
		Longitude:   ptr(77.6050),
		Reporter:    "test-publish",
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: "stream:incident:report",
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published\n")
	fmt.Printf("   Stream: stream:incident:report\n")
	fmt.Printf("   Message ID: %s\n", result)
	fmt.Printf("   Report ID: %s\n", event.ID)
	fmt.Printf("   Coordinates: %.6f, %.6f\n", *event.Latitude, *event.Longitude)

	fmt.Printf("\nWaiting for the report to appear in %s/incidents...\n", *apiAddr)

	url := fmt.Sprintf("%s/incidents?lat=%f&lon=%f&radiusKm=1", strings.TrimRight(*apiAddr, "/"), *event.Latitude, *event.Longitude)
	httpClient := &http.Client{Timeout: 5 * time.Second}

	timeout := time.After(30 * time.Second)
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			fmt.Println("Timeout waiting for the report")
			return
		case <-ticker.C:
			resp, err := httpClient.Get(url)
			if err != nil {
				continue
			}

			var snapshot struct {
				Traffic []map[string]interface{} `json:"traffic"`
			}
			err = json.NewDecoder(resp.Body).Decode(&snapshot)
			resp.Body.Close()
			if err != nil {
				continue
			}

			for _, incident := range snapshot.Traffic {
				if incident["id"] == event.ID {
					fmt.Printf("\nReport ingested\n")
					pretty, _ := json.MarshalIndent(incident, "", "  ")
					fmt.Printf("%s\n", pretty)
					return
				}
			}
		}
	}
}
