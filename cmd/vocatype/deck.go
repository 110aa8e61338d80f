package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/vocatype/internal/config"
	"github.com/verte-zerg/vocatype/internal/wordlist"
)

var (
	importLang           string
	importSheet          string
	importWordCol        string
	importTranslationCol string
	importDifficultyCol  string
	importStartRow       int
	importEnroll         bool
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import vocabulary from .xlsx, .csv or .tsv",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	defaults := wordlist.DefaultImportConfig("", "")
	cmd.Flags().StringVar(&importLang, "lang", defaultLang, "language of the imported words")
	cmd.Flags().StringVar(&importSheet, "sheet", "", "sheet name for spreadsheets (default: first sheet)")
	cmd.Flags().StringVar(&importWordCol, "word-col", defaults.WordColumn, "column with the word")
	cmd.Flags().StringVar(&importTranslationCol, "translation-col", defaults.TranslationColumn, "column with the translation")
	cmd.Flags().StringVar(&importDifficultyCol, "difficulty-col", defaults.DifficultyColumn, "column with the difficulty (empty to ignore)")
	cmd.Flags().IntVar(&importStartRow, "start-row", defaults.StartRow, "first data row (1-based)")
	cmd.Flags().BoolVar(&importEnroll, "enroll", true, "schedule imported words for review")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	a := current
	cfg := wordlist.ImportConfig{
		FilePath:          args[0],
		Lang:              importLang,
		SheetName:         importSheet,
		WordColumn:        importWordCol,
		TranslationColumn: importTranslationCol,
		DifficultyColumn:  importDifficultyCol,
		StartRow:          importStartRow,
	}
	result, err := wordlist.ImportFile(cfg)
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", cfg.FilePath, err)
	}
	for _, msg := range result.Errors {
		a.log.Warn("skipped row", zap.String("reason", msg))
	}

	st, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := cmd.Context()
	created, existing, err := st.UpsertWords(ctx, result.Words)
	if err != nil {
		return fmt.Errorf("failed to store words: %w", err)
	}

	enrolled := 0
	if importEnroll {
		words, err := st.ListWords(ctx, importLang)
		if err != nil {
			return fmt.Errorf("failed to load words: %w", err)
		}
		enrolled, err = a.reviewService(st).Enroll(ctx, a.userID, words)
		if err != nil {
			return fmt.Errorf("failed to enroll words: %w", err)
		}
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(),
		"Processed %d rows: %d new, %d already known, %d skipped, %d scheduled for review.\n",
		result.Processed, created, existing, result.Skipped, enrolled)
	return err
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List languages with decks or imported words",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	a := current
	seen := map[string]bool{}

	entries, err := os.ReadDir(config.DefaultDeckDir())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to read deck directory: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".tsv") {
			continue
		}
		seen[strings.TrimSuffix(name, ".tsv")] = true
	}

	st, closeStore, err := a.openStore()
	if err != nil {
		return err
	}
	defer closeStore()
	stored, err := st.ListLangs(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list languages: %w", err)
	}
	for _, lang := range stored {
		seen[lang] = true
	}

	if len(seen) == 0 {
		return fmt.Errorf("no decks found; import one with: vocatype import <file> --lang <code>")
	}
	langs := make([]string, 0, len(seen))
	for lang := range seen {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), lang); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
