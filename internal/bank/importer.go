package bank

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/tutorbot/pkg/models"
)

// Expected columns, in order: type, level, topic, title, instruction,
// question, correct_answer, explanation, tips (| separated). The first row is
// treated as a header and skipped.
const columnCount = 9

// Load reads an exercise bank from an Excel or CSV file
func Load(path string) (*Bank, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".csv" {
		return loadFromCSV(path)
	}
	return loadFromExcel(path)
}

// loadFromExcel reads exercises from the first sheet of an Excel file
func loadFromExcel(path string) (*Bank, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %v", sheet, err)
	}

	b := New()
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		ex, ok := parseRow(row)
		if !ok {
			continue
		}
		b.Add(ex)
	}
	return b, nil
}

// loadFromCSV reads exercises from a CSV file
func loadFromCSV(path string) (*Bank, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	b := New()
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %v", err)
		}
		line++
		if line == 1 {
			continue // header
		}
		ex, ok := parseRow(row)
		if !ok {
			continue
		}
		b.Add(ex)
	}
	return b, nil
}

// parseRow converts one sheet row into an exercise. Rows without a type,
// level or question are skipped rather than failing the whole import.
func parseRow(row []string) (models.Exercise, bool) {
	get := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	ex := models.Exercise{
		Type:          strings.ToLower(get(0)),
		Level:         models.Level(strings.ToLower(get(1))),
		Topic:         get(2),
		Title:         get(3),
		Instruction:   get(4),
		Question:      get(5),
		CorrectAnswer: get(6),
		Explanation:   get(7),
	}

	if tips := get(8); tips != "" {
		for _, tip := range strings.Split(tips, "|") {
			if tip = strings.TrimSpace(tip); tip != "" {
				ex.Tips = append(ex.Tips, tip)
			}
		}
	}

	if ex.Type == "" || ex.Level == "" || ex.Question == "" {
		return models.Exercise{}, false
	}
	return ex, true
}
