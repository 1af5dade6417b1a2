package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/joho/godotenv"

	"github.com/goliatone/go-lettergen/pkg/letter"
	"github.com/goliatone/go-lettergen/pkg/store"
	"github.com/goliatone/go-lettergen/pkg/workflow"
)

func main() {
	_ = godotenv.Load()

	storeDir := flag.String("store", os.Getenv("LETTERGEN_STORE"), "badger store directory (in-memory if empty)")
	secret := flag.String("secret", os.Getenv("LETTERGEN_SECRET"), "privacy secret for encrypting recipient data")
	owner := flag.String("owner", "cli", "owner id recorded on the session")
	format := flag.String("format", "print", "output format: print, document, or preview")
	outDir := flag.String("out", ".", "directory generated letters are written to")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *secret == "" {
		logger.Error("a privacy secret is required", "hint", "set LETTERGEN_SECRET or pass -secret")
		os.Exit(1)
	}

	options := []workflow.Option{
		workflow.WithSecret(*secret),
		workflow.WithLogger(logger),
	}
	if *storeDir != "" {
		badger, err := store.OpenBadger(*storeDir)
		if err != nil {
			logger.Error("open store", "error", err)
			os.Exit(1)
		}
		defer badger.Close()
		options = append(options, workflow.WithStore(badger))
	}

	engine, err := workflow.New(options...)
	if err != nil {
		logger.Error("initialize engine", "error", err)
		os.Exit(1)
	}

	if !engine.HasFormat(*format) {
		logger.Error("unknown output format", "format", *format, "known", strings.Join(engine.Formats(), ", "))
		os.Exit(1)
	}

	if err := run(context.Background(), engine, *owner, *format, *outDir); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			fmt.Println("aborted")
			os.Exit(130)
		}
		logger.Error("run", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, engine *workflow.Engine, owner, format, outDir string) error {
	session, err := engine.Start(ctx, owner)
	if err != nil {
		return err
	}

	templates := engine.Templates()
	names := make([]string, len(templates))
	for i, t := range templates {
		names[i] = t.Name
	}
	var choice int
	if err := survey.AskOne(&survey.Select{Message: "Letter type:", Options: names}, &choice); err != nil {
		return err
	}
	if _, err := engine.SelectTemplate(ctx, session.ID, templates[choice].ID); err != nil {
		return err
	}

	var method string
	if err := survey.AskOne(&survey.Select{
		Message: "How do you want to enter the details?",
		Options: []string{"One letter at a time", "Import a CSV file", "Download a blank CSV"},
	}, &method); err != nil {
		return err
	}

	switch method {
	case "Download a blank CSV":
		result, err := engine.ChooseInputMethod(ctx, session.ID, letter.InputDownloadBlank)
		if err != nil {
			return err
		}
		path := filepath.Join(outDir, "blank-"+templates[choice].ID+".csv")
		if err := os.WriteFile(path, result.Blank, 0o644); err != nil {
			return err
		}
		fmt.Printf("Blank import file written to %s\n", path)
		return nil
	case "Import a CSV file":
		return runBulk(ctx, engine, session.ID, format, outDir)
	}
	return runManual(ctx, engine, session.ID, format, outDir)
}

func runManual(ctx context.Context, engine *workflow.Engine, sessionID, format, outDir string) error {
	step, err := engine.ChooseInputMethod(ctx, sessionID, letter.InputManual)
	if err != nil {
		return err
	}

	for {
		for step.Next != nil {
			step, err = collectOne(ctx, engine, sessionID, *step.Next)
			if err != nil {
				return err
			}
		}

		var another bool
		if err := survey.AskOne(&survey.Confirm{Message: "Add another letter with the same template?"}, &another); err != nil {
			return err
		}
		decision := workflow.DecisionFinalize
		if another {
			decision = workflow.DecisionAddAnother
		}
		step, err = engine.CompleteOrRepeat(ctx, sessionID, decision)
		if err != nil {
			return err
		}
		if step.Invalid != nil {
			fmt.Printf("  %s (%s)\n", step.Invalid.Message, step.Invalid.Hint)
			continue
		}
		if !another {
			break
		}
	}

	preview, err := engine.Preview(ctx, sessionID)
	if err != nil {
		return err
	}
	if len(preview.Invalid) > 0 {
		return fmt.Errorf("fields still invalid: %s", strings.Join(preview.Invalid, ", "))
	}
	previewPath := filepath.Join(outDir, "preview.html")
	if err := os.WriteFile(previewPath, preview.Content, 0o644); err != nil {
		return err
	}
	fmt.Printf("Preview written to %s\n", previewPath)

	var confirmed bool
	if err := survey.AskOne(&survey.Confirm{Message: "Generate the letters?", Default: true}, &confirmed); err != nil {
		return err
	}
	if !confirmed {
		return nil
	}

	generated, err := engine.Generate(ctx, sessionID, format)
	if err != nil {
		return err
	}
	return writeArchive(ctx, engine, sessionID, outDir, len(generated.ArtifactIDs))
}

func collectOne(ctx context.Context, engine *workflow.Engine, sessionID string, prompt workflow.Prompt) (workflow.StepResult, error) {
	suffix := ":"
	if !prompt.Required {
		suffix = " (optional, empty to skip):"
	}

	if prompt.Asset {
		var path string
		if err := survey.AskOne(&survey.Input{
			Message: prompt.Label + " (path to image)" + suffix,
			Help:    prompt.Hint,
		}, &path); err != nil {
			return workflow.StepResult{}, err
		}
		if strings.TrimSpace(path) == "" && !prompt.Required {
			return engine.SkipField(ctx, sessionID, prompt.Field)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("  cannot read %s: %v\n", path, err)
			return workflow.StepResult{Next: &prompt}, nil
		}
		return engine.UploadAsset(ctx, sessionID, prompt.Field, data)
	}

	var value string
	if err := survey.AskOne(&survey.Input{Message: prompt.Label + suffix, Help: prompt.Hint}, &value); err != nil {
		return workflow.StepResult{}, err
	}
	if strings.TrimSpace(value) == "" && !prompt.Required {
		return engine.SkipField(ctx, sessionID, prompt.Field)
	}
	result, err := engine.SubmitField(ctx, sessionID, prompt.Field, value)
	if err != nil {
		return workflow.StepResult{}, err
	}
	if result.Invalid != nil {
		fmt.Printf("  %s\n  %s\n", result.Invalid.Message, result.Invalid.Hint)
		result.Next = &prompt
	}
	return result, nil
}

func runBulk(ctx context.Context, engine *workflow.Engine, sessionID, format, outDir string) error {
	if _, err := engine.ChooseInputMethod(ctx, sessionID, letter.InputBulk); err != nil {
		return err
	}

	var path string
	if err := survey.AskOne(&survey.Input{Message: "Path to the CSV file:"}, &path); err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	result, err := engine.ImportCSV(ctx, sessionID, f, format)
	if err != nil {
		return err
	}
	for _, warning := range result.Warnings {
		fmt.Printf("warning: %s\n", warning)
	}
	if result.Rejected() {
		for _, missing := range result.Missing {
			fmt.Printf("error: %s\n", missing)
		}
		return errors.New("batch rejected: required columns missing")
	}
	for _, rowErr := range result.RowErrors {
		fmt.Printf("row error: %s\n", rowErr.Error())
	}
	return writeArchive(ctx, engine, sessionID, outDir, len(result.ArtifactIDs))
}

func writeArchive(ctx context.Context, engine *workflow.Engine, sessionID, outDir string, count int) error {
	if count == 0 {
		return errors.New("no letters were generated")
	}
	archive, err := engine.Archive(ctx, sessionID)
	if err != nil {
		return err
	}
	path := filepath.Join(outDir, "letters.zip")
	if err := os.WriteFile(path, archive, 0o644); err != nil {
		return err
	}
	fmt.Printf("%d letter(s) written to %s\n", count, path)
	return nil
}
