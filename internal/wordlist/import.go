package wordlist

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/verte-zerg/vocatype/internal/model"
)

// ImportConfig describes where the columns of a spreadsheet deck live.
type ImportConfig struct {
	FilePath          string
	Lang              string
	SheetName         string // xlsx only; empty means the first sheet
	WordColumn        string
	TranslationColumn string
	DifficultyColumn  string // empty disables difficulty
	StartRow          int    // 1-based
}

// DefaultImportConfig reads words from A, translations from B and difficulty
// from C, skipping the header row.
func DefaultImportConfig(path, lang string) ImportConfig {
	return ImportConfig{
		FilePath:          path,
		Lang:              lang,
		WordColumn:        "A",
		TranslationColumn: "B",
		DifficultyColumn:  "C",
		StartRow:          2,
	}
}

// ImportResult holds the outcome of an import.
type ImportResult struct {
	Processed int
	Skipped   int
	Errors    []string
	Words     []model.Word
}

// ImportFile reads an .xlsx, .csv or .tsv deck.
func ImportFile(cfg ImportConfig) (*ImportResult, error) {
	if cfg.FilePath == "" {
		return nil, fmt.Errorf("import path is empty: %w", model.ErrInvalidInput)
	}
	cols, err := resolveColumns(cfg)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	switch ext := strings.ToLower(filepath.Ext(cfg.FilePath)); ext {
	case ".xlsx", ".xlsm":
		rows, err = readExcel(cfg)
	case ".csv":
		rows, err = readDelimited(cfg.FilePath, ',')
	case ".tsv", ".txt":
		rows, err = readDelimited(cfg.FilePath, '\t')
	default:
		return nil, fmt.Errorf("unsupported deck format %q: %w", ext, model.ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: []string{}}
	start := max(cfg.StartRow, 1)
	for i, row := range rows {
		rowNum := i + 1
		if rowNum < start {
			continue
		}
		result.Processed++
		w, ok, err := cols.toWord(row, cfg.Lang)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		if !ok {
			result.Skipped++
			continue
		}
		result.Words = append(result.Words, w)
	}
	return result, nil
}

type columns struct {
	word, translation, difficulty int // 0-based, -1 when unused
}

func resolveColumns(cfg ImportConfig) (columns, error) {
	idx := func(name string) (int, error) {
		if name == "" {
			return -1, nil
		}
		n, err := excelize.ColumnNameToNumber(name)
		if err != nil {
			return 0, fmt.Errorf("column %q: %w", name, model.ErrInvalidInput)
		}
		return n - 1, nil
	}
	var c columns
	var err error
	if cfg.WordColumn == "" {
		return c, fmt.Errorf("word column is required: %w", model.ErrInvalidInput)
	}
	if c.word, err = idx(cfg.WordColumn); err != nil {
		return c, err
	}
	if c.translation, err = idx(cfg.TranslationColumn); err != nil {
		return c, err
	}
	if c.difficulty, err = idx(cfg.DifficultyColumn); err != nil {
		return c, err
	}
	return c, nil
}

// toWord returns false for rows without a word.
func (c columns) toWord(row []string, lang string) (model.Word, bool, error) {
	cell := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	w := model.Word{Text: cell(c.word), Translation: cell(c.translation), Lang: lang}
	if w.Text == "" {
		return model.Word{}, false, nil
	}
	if d := cell(c.difficulty); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil {
			return model.Word{}, false, fmt.Errorf("invalid difficulty %q", d)
		}
		w.Difficulty = n
	}
	return w, true, nil
}

func readExcel(cfg ImportConfig) ([][]string, error) {
	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close for read-only workbook.
			_ = cerr
		}
	}()
	sheet := cfg.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readDelimited(path string, comma rune) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only deck.
			_ = cerr
		}
	}()

	reader := csv.NewReader(file)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
