package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/kirsle/configdir"
)

const (
	appName       = "blockfall"
	maxScoreCount = 10
)

// Config is the persisted user configuration. Out-of-range values are
// clamped on load rather than trusted.
type Config struct {
	Theme     string `json:"theme"`
	Sound     bool   `json:"sound"`
	Volume    int    `json:"volume"`
	Ghost     bool   `json:"ghost"`
	Lookahead int    `json:"lookahead"`
	Scale     int    `json:"scale"`
}

func defaultConfig() Config {
	return Config{
		Theme:     themes[0].Name,
		Sound:     true,
		Volume:    70,
		Ghost:     true,
		Lookahead: 3,
		Scale:     1,
	}
}

func clampConfig(config Config) Config {
	if config.Theme == "" {
		config.Theme = themes[0].Name
	}
	if config.Volume < 0 {
		config.Volume = 0
	}
	if config.Volume > 100 {
		config.Volume = 100
	}
	config.Lookahead = clampLookahead(config.Lookahead)
	if config.Scale < 1 {
		config.Scale = 1
	}
	if config.Scale > 3 {
		config.Scale = 3
	}
	return config
}

// ScoreEntry is one row of the local score table.
type ScoreEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
	Lines int    `json:"lines"`
	Level int    `json:"level"`
	When  string `json:"when"`
}

func storageDir() (string, error) {
	dir := configdir.LocalConfig(appName)
	if err := configdir.MakePath(dir); err != nil {
		return "", err
	}
	return dir, nil
}

func loadConfig() (Config, error) {
	config := defaultConfig()
	dir, err := storageDir()
	if err != nil {
		return config, err
	}
	data, err := os.ReadFile(filepath.Join(dir, "config.json"))
	if err != nil {
		return config, nil
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return defaultConfig(), err
	}
	return clampConfig(config), nil
}

func saveConfig(config Config) error {
	dir, err := storageDir()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0o644)
}

func loadScores() ([]ScoreEntry, error) {
	dir, err := storageDir()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(dir, "scores.json"))
	if err != nil {
		return []ScoreEntry{}, nil
	}
	var scores []ScoreEntry
	if err := json.Unmarshal(data, &scores); err != nil {
		return []ScoreEntry{}, err
	}
	return scores, nil
}

func saveScores(scores []ScoreEntry) error {
	dir, err := storageDir()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(scores, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "scores.json"), data, 0o644)
}

func insertScore(scores []ScoreEntry, entry ScoreEntry) []ScoreEntry {
	scores = append(scores, entry)
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score == scores[j].Score {
			return scores[i].When > scores[j].When
		}
		return scores[i].Score > scores[j].Score
	})
	if len(scores) > maxScoreCount {
		return scores[:maxScoreCount]
	}
	return scores
}

// The high score is a single numeric string, read once at startup and
// rewritten whenever a session beats it.

func parseHighScore(data []byte) int {
	value, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || value < 0 {
		return 0
	}
	return value
}

func formatHighScore(score int) []byte {
	return []byte(strconv.Itoa(score) + "\n")
}

func loadHighScore() int {
	dir, err := storageDir()
	if err != nil {
		return 0
	}
	data, err := os.ReadFile(filepath.Join(dir, "highscore"))
	if err != nil {
		return 0
	}
	return parseHighScore(data)
}

func saveHighScore(score int) error {
	dir, err := storageDir()
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "highscore"), formatHighScore(score), 0o644)
}
