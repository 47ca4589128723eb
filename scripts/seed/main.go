// Command seed registers a demo family against a running gateway and
// schedules a week of sessions, so the planner can be exercised without a
// real calendar UI.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

type learner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type entry struct {
	LearnerID       string `json:"learner_id"`
	SubjectName     string `json:"subject_name"`
	Date            string `json:"scheduled_date"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

func main() {
	var (
		base     string
		familyID string
		timeout  time.Duration
	)
	flag.StringVar(&base, "base", "http://localhost:8080/api/v1", "gateway base URL")
	flag.StringVar(&familyID, "family", "demo-family", "family id to seed")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}

	roster := map[string][]learner{"learners": {
		{ID: "learner-emma", Name: "Emma"},
		{ID: "learner-noah", Name: "Noah"},
	}}
	if err := post(client, fmt.Sprintf("%s/planner/%s/learners", base, familyID), roster); err != nil {
		log.Fatalf("register roster: %v", err)
	}

	monday := nextMonday(time.Now())
	sessions := []entry{
		{LearnerID: "learner-emma", SubjectName: "Math", Date: monday.Format("2006-01-02"), StartTime: "09:00", DurationMinutes: 45},
		{LearnerID: "learner-emma", SubjectName: "Reading", Date: monday.AddDate(0, 0, 1).Format("2006-01-02"), StartTime: "10:00", DurationMinutes: 30},
		{LearnerID: "learner-noah", SubjectName: "Science", Date: monday.Format("2006-01-02"), StartTime: "09:00", DurationMinutes: 30},
		{LearnerID: "learner-noah", SubjectName: "Writing", Date: monday.AddDate(0, 0, 2).Format("2006-01-02"), StartTime: "13:00", DurationMinutes: 30},
	}
	batch := map[string][]entry{"items": sessions}
	if err := post(client, fmt.Sprintf("%s/planner/%s/entries/batch", base, familyID), batch); err != nil {
		log.Fatalf("seed entries: %v", err)
	}

	log.Printf("seeded family %s with %d sessions starting %s", familyID, len(sessions), monday.Format("2006-01-02"))
}

func post(client *http.Client, url string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s returned %d: %s", url, resp.StatusCode, body)
	}
	return nil
}

func nextMonday(now time.Time) time.Time {
	day := now
	for day.Weekday() != time.Monday {
		day = day.AddDate(0, 0, 1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}
