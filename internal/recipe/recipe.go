package recipe

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Column names recognized in the published sheet header row.
const (
	ColumnName        = "Food"
	ColumnImage       = "Picture"
	ColumnTag         = "Tag"
	ColumnIngredients = "Ingredients"
	ColumnPreparation = "Preparation"
)

// Recipe is a single row of the recipe sheet. Absent columns decode as empty strings.
type Recipe struct {
	Name        string
	ImageRef    string
	Tag         string
	Ingredients string
	Preparation string
}

// Collection keeps recipes in source order.
type Collection []Recipe

// Tags returns the distinct non-empty tags in first-seen order.
func (c Collection) Tags() []string {
	seen := map[string]bool{}
	tags := []string{}
	for _, r := range c {
		if r.Tag == "" || seen[r.Tag] {
			continue
		}
		seen[r.Tag] = true
		tags = append(tags, r.Tag)
	}
	return tags
}

// HasTag reports whether any recipe carries tag exactly.
func (c Collection) HasTag(tag string) bool {
	for _, r := range c {
		if tag != "" && r.Tag == tag {
			return true
		}
	}
	return false
}

// Find returns the first recipe whose name matches name case-insensitively.
func (c Collection) Find(name string) (Recipe, bool) {
	name = strings.TrimSpace(name)
	for _, r := range c {
		if strings.EqualFold(strings.TrimSpace(r.Name), name) {
			return r, true
		}
	}
	return Recipe{}, false
}

// Decode reads CSV text with a header row into a Collection. Blank lines are
// skipped and short rows are tolerated. A body without a header row yields an
// empty collection.
func Decode(r io.Reader) (Collection, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return Collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	index := headerIndex(header)

	collection := Collection{}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read csv record %d: %w", line, err)
		}
		if blankRecord(record) {
			continue
		}
		collection = append(collection, Recipe{
			Name:        field(record, index, ColumnName),
			ImageRef:    field(record, index, ColumnImage),
			Tag:         field(record, index, ColumnTag),
			Ingredients: field(record, index, ColumnIngredients),
			Preparation: field(record, index, ColumnPreparation),
		})
	}
	return collection, nil
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, "\ufeff")
		name = strings.TrimSpace(name)
		if _, dup := index[name]; dup {
			continue
		}
		index[name] = i
	}
	return index
}

func field(record []string, index map[string]int, column string) string {
	i, ok := index[column]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

// csv.Reader already drops empty lines; this catches rows made only of separators.
func blankRecord(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
