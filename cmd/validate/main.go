package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/quizfighter/quiz-engine/pkg/gamecode"
	"github.com/quizfighter/quiz-engine/pkg/games"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <game.json> [game.json ...]\n", os.Args[0])
		os.Exit(1)
	}

	failed := false
	validator := &GameValidator{}
	for _, filename := range os.Args[1:] {
		if err := validator.validateFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			failed = true
			continue
		}
		fmt.Printf("%s is valid\n", filename)
	}
	if failed {
		os.Exit(1)
	}
}

type GameValidator struct {
	errors []string
}

func (v *GameValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)

	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return fmt.Errorf("game template file must have .json extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ".json")
	if !isValidTemplateName(nameWithoutExt) {
		return fmt.Errorf("game template filename '%s' must be lowercase with hyphens (e.g., web-mc-1.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	v.errors = nil

	if !json.Valid(data) {
		return fmt.Errorf("file %s contains invalid JSON", filename)
	}

	var rec games.GameRecord
	decoder := json.NewDecoder(strings.NewReader(string(data)))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&rec); err != nil {
		return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", filename, err)
	}

	v.validateRecord(&rec, nameWithoutExt)

	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *GameValidator) validateRecord(rec *games.GameRecord, expectedID string) {
	if err := rec.Validate(); err != nil {
		v.addError(err.Error())
	}

	if rec.ID != expectedID {
		v.addError(fmt.Sprintf("id '%s' does not match filename '%s.json'", rec.ID, expectedID))
	}

	// The mutation stage can only splice code that declares a config.
	if !gamecode.HasConfig(rec.Code) {
		v.addError("code has no 'const config = {...};' declaration")
	}
	if rec.Config != "" && !gamecode.HasConfig(rec.Config) {
		v.addError("config must be a 'const config = {...};' declaration")
	}
}

func (v *GameValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var validTemplateNameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$|^[a-z]$`)

func isValidTemplateName(name string) bool {
	return validTemplateNameRegex.MatchString(name)
}
