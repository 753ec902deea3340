package metrics

import (
	"math"

	"github.com/spigell/hireability/internal/snapshot"
)

// HeatCell is one calendar day prepared for the velocity heatmap.
type HeatCell struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// Consistency returns the percentage of calendar weeks with at least one
// contribution. An empty calendar scores 0.
func Consistency(calendar snapshot.Calendar) int {
	weeks := len(calendar.Weeks)
	active := 0
	for _, week := range calendar.Weeks {
		for _, day := range week.Days {
			if day.Count > 0 {
				active++
				break
			}
		}
	}

	return int(math.Round(float64(active) / float64(max(weeks, 1)) * 100))
}

// Heatmap flattens the calendar into days with an intensity level from 0 to 4.
func Heatmap(calendar snapshot.Calendar) []HeatCell {
	cells := []HeatCell{}
	for _, week := range calendar.Weeks {
		for _, day := range week.Days {
			cells = append(cells, HeatCell{
				Date:  day.Date,
				Count: day.Count,
				Level: heatLevel(day.Count),
			})
		}
	}
	return cells
}

func heatLevel(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 3:
		return 1
	case count <= 7:
		return 2
	case count <= 12:
		return 3
	default:
		return 4
	}
}
