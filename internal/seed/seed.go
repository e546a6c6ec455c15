// Package seed loads restaurant and table definitions from YAML files used to
// provision an instance.
package seed

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/example/tablebook/internal/reserve"
)

type File struct {
	Restaurants []RestaurantSeed `yaml:"restaurants"`
}

type RestaurantSeed struct {
	Name                string            `yaml:"name"`
	Timezone            string            `yaml:"timezone"`
	SlotDurationMinutes int               `yaml:"slot_duration_minutes"`
	MinAdvanceHours     int               `yaml:"min_advance_hours"`
	MaxAdvanceDays      int               `yaml:"max_advance_days"`
	OpeningHours        map[string]string `yaml:"opening_hours"` // weekday -> "11:00-22:00" or "closed"
	Tables              []TableSeed       `yaml:"tables"`
}

type TableSeed struct {
	Name     string `yaml:"name"`
	Capacity int    `yaml:"capacity"`
	Location string `yaml:"location"`
	Inactive bool   `yaml:"inactive"`
}

// Restaurant is one provisioned restaurant with its tables.
type Restaurant struct {
	Restaurant reserve.Restaurant
	Tables     []reserve.Table
}

// Load reads and validates a seed file.
func Load(path string) ([]Restaurant, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse builds restaurants from YAML. Unparsable opening hours fall back to
// the closed default schedule with a logged configuration error; everything
// else must be valid.
func Parse(raw []byte) ([]Restaurant, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if len(f.Restaurants) == 0 {
		return nil, fmt.Errorf("seed file defines no restaurants")
	}

	out := make([]Restaurant, 0, len(f.Restaurants))
	for i, rs := range f.Restaurants {
		if rs.Name == "" {
			return nil, fmt.Errorf("restaurant %d: name required", i)
		}
		if rs.Timezone == "" {
			return nil, fmt.Errorf("restaurant %q: timezone required", rs.Name)
		}
		r := reserve.Restaurant{
			ID:                  uuid.New(),
			Name:                rs.Name,
			Timezone:            rs.Timezone,
			SlotDurationMinutes: rs.SlotDurationMinutes,
			MinAdvanceHours:     rs.MinAdvanceHours,
			MaxAdvanceDays:      rs.MaxAdvanceDays,
		}
		if r.SlotDurationMinutes <= 0 {
			r.SlotDurationMinutes = 30
		}
		if r.MaxAdvanceDays <= 0 {
			r.MaxAdvanceDays = 90
		}
		if _, err := r.Location(); err != nil {
			return nil, fmt.Errorf("restaurant %q: %w", rs.Name, err)
		}

		hours, err := reserve.ParseWeeklySchedule(rs.OpeningHours)
		if err != nil {
			log.Printf("seed: restaurant %q opening hours invalid, provisioning as closed: %v", rs.Name, err)
			hours = reserve.DefaultSchedule()
		}
		r.Hours = hours

		tables := make([]reserve.Table, 0, len(rs.Tables))
		for j, ts := range rs.Tables {
			if ts.Capacity < 1 {
				return nil, fmt.Errorf("restaurant %q table %d: capacity must be positive", rs.Name, j)
			}
			name := ts.Name
			if name == "" {
				name = fmt.Sprintf("T%d", j+1)
			}
			tables = append(tables, reserve.Table{
				ID:           uuid.New(),
				RestaurantID: r.ID,
				Name:         name,
				Capacity:     ts.Capacity,
				Active:       !ts.Inactive,
				Location:     ts.Location,
			})
		}
		out = append(out, Restaurant{Restaurant: r, Tables: tables})
	}
	return out, nil
}
