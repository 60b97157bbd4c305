// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/quickly-pick-live/models"
)

// Script is the YAML form of a presenter's question list:
//
//	questions:
//	  - title: Welcome
//	  - title: Ship it on Friday?
//	    options: [yes, no, maybe]
type Script struct {
	Questions []ScriptQuestion `yaml:"questions"`
}

type ScriptQuestion struct {
	Title   string   `yaml:"title"`
	Options []string `yaml:"options"`
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("failed to parse script file: %w", err)
	}

	if err := script.Validate(); err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}

	return &script, nil
}

func (s *Script) Validate() error {
	if len(s.Questions) == 0 {
		return fmt.Errorf("questions must contain at least one entry")
	}

	for i, q := range s.Questions {
		if q.Title == "" {
			return fmt.Errorf("question %d: title is required", i+1)
		}
		seen := make(map[string]bool)
		for _, label := range q.Options {
			if label == "" {
				return fmt.Errorf("question %d: empty option label", i+1)
			}
			if seen[label] {
				return fmt.Errorf("question %d: duplicate option %q", i+1, label)
			}
			seen[label] = true
		}
	}

	return nil
}

// ToQuestions converts the script into table rows with cold caches
func (s *Script) ToQuestions() []models.Question {
	out := make([]models.Question, 0, len(s.Questions))
	for i, q := range s.Questions {
		question := models.Question{Ordinal: i + 1, Title: q.Title, Options: []models.Option{}}
		for _, label := range q.Options {
			question.Options = append(question.Options, models.Option{Label: label})
		}
		out = append(out, question)
	}
	return out
}
