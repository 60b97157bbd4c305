// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/danielhkuo/quickly-pick-live/models"
)

// QuestionTable is the presenter's script stored as CSV, one question per row:
//
//	title,label1,count1,label2,count2,...
//
// Rows are padded to a uniform width; empty labels are unused slots and an
// empty count is a cold cache.
type QuestionTable struct {
	path string

	mu        sync.Mutex
	questions []models.Question
}

// OpenQuestionTable loads the table. A missing file is an empty script.
func OpenQuestionTable(path string) (*QuestionTable, error) {
	t := &QuestionTable{path: path}
	if _, err := t.LoadAll(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadAll rereads the file and replaces the in-memory copy.
func (t *QuestionTable) LoadAll() ([]models.Question, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	data, err := os.ReadFile(t.path)
	if errors.Is(err, os.ErrNotExist) {
		t.questions = nil
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("read questions", err)
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse questions %s: %w", t.path, err)
	}

	width := uniformWidth(rows)
	questions := make([]models.Question, 0, len(rows))
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		questions = append(questions, parseRow(i+1, row))
	}

	t.questions = questions
	return cloneQuestions(questions), nil
}

// All returns a copy of the loaded questions in ordinal order
func (t *QuestionTable) All() []models.Question {
	t.mu.Lock()
	defer t.mu.Unlock()
	return cloneQuestions(t.questions)
}

func (t *QuestionTable) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.questions)
}

// Get returns the question at ordinal (1-based)
func (t *QuestionTable) Get(ordinal int) (models.Question, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ordinal < 1 || ordinal > len(t.questions) {
		return models.Question{}, false
	}
	return cloneQuestions(t.questions[ordinal-1 : ordinal])[0], true
}

// PersistAll overwrites the whole table. Ordinals are reassigned from
// position.
func (t *QuestionTable) PersistAll(questions []models.Question) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := cloneQuestions(questions)
	for i := range next {
		next[i].Ordinal = i + 1
	}
	return t.persistLocked(next)
}

// UpdateCounts stores counts as the cache for ordinal. The whole table is
// rewritten.
func (t *QuestionTable) UpdateCounts(ordinal int, counts map[string]int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ordinal < 1 || ordinal > len(t.questions) {
		return fmt.Errorf("no question with ordinal %d", ordinal)
	}
	next := cloneQuestions(t.questions)
	q := &next[ordinal-1]
	for i := range q.Options {
		c := counts[q.Options[i].Label]
		q.Options[i].Count = &c
	}
	return t.persistLocked(next)
}

// InvalidateCounts drops the cached counts of one ordinal. Nothing is written
// when that cache is already cold.
func (t *QuestionTable) InvalidateCounts(ordinal int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ordinal < 1 || ordinal > len(t.questions) {
		return fmt.Errorf("no question with ordinal %d", ordinal)
	}
	warm := false
	for _, opt := range t.questions[ordinal-1].Options {
		if opt.Count != nil {
			warm = true
			break
		}
	}
	if !warm {
		return nil
	}

	next := cloneQuestions(t.questions)
	for i := range next[ordinal-1].Options {
		next[ordinal-1].Options[i].Count = nil
	}
	return t.persistLocked(next)
}

// ClearCounts drops every cached count.
func (t *QuestionTable) ClearCounts() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := cloneQuestions(t.questions)
	for qi := range next {
		for oi := range next[qi].Options {
			next[qi].Options[oi].Count = nil
		}
	}
	return t.persistLocked(next)
}

func (t *QuestionTable) persistLocked(questions []models.Question) error {
	maxOptions := 0
	for _, q := range questions {
		if len(q.Options) > maxOptions {
			maxOptions = len(q.Options)
		}
	}
	width := 1 + 2*maxOptions

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, q := range questions {
		row := make([]string, 0, width)
		row = append(row, q.Title)
		for _, opt := range q.Options {
			count := ""
			if opt.Count != nil {
				count = strconv.Itoa(*opt.Count)
			}
			row = append(row, opt.Label, count)
		}
		for len(row) < width {
			row = append(row, "")
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	if err := writeFileAtomic(t.path, buf.Bytes()); err != nil {
		return unavailable("write questions", err)
	}
	t.questions = questions
	return nil
}

// uniformWidth is 1 title column plus label/count pairs for the widest row.
func uniformWidth(rows [][]string) int {
	width := 1
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width%2 == 0 {
		width++
	}
	return width
}

func parseRow(ordinal int, row []string) models.Question {
	q := models.Question{Ordinal: ordinal, Title: row[0], Options: []models.Option{}}
	for i := 1; i+1 < len(row); i += 2 {
		label := row[i]
		if label == "" {
			continue
		}
		opt := models.Option{Label: label}
		if n, err := strconv.Atoi(row[i+1]); err == nil && n >= 0 {
			opt.Count = &n
		}
		q.Options = append(q.Options, opt)
	}
	return q
}

func cloneQuestions(in []models.Question) []models.Question {
	if in == nil {
		return nil
	}
	out := make([]models.Question, len(in))
	for i, q := range in {
		out[i] = models.Question{Ordinal: q.Ordinal, Title: q.Title, Options: make([]models.Option, len(q.Options))}
		for j, opt := range q.Options {
			out[i].Options[j] = models.Option{Label: opt.Label}
			if opt.Count != nil {
				c := *opt.Count
				out[i].Options[j].Count = &c
			}
		}
	}
	return out
}
