// Package tui holds the interactive editors of the stacklens CLI.
package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/julianshen/stacklens/internal/config"
)

// ConfigForm wraps a Huh form for editing stacklens configuration.
type ConfigForm struct {
	form         *huh.Form
	cfg          *config.Config
	savePath     string
	maxDepthStr  string
	limitStr     string
	questionsStr string
}

// NewConfigForm creates a config editor form populated from the given config.
func NewConfigForm(cfg *config.Config, savePath string) *ConfigForm {
	cf := &ConfigForm{
		cfg:          cfg,
		savePath:     savePath,
		maxDepthStr:  strconv.Itoa(cfg.Scan.MaxDepth),
		limitStr:     strconv.Itoa(cfg.Recommend.Limit),
		questionsStr: strconv.Itoa(cfg.Quiz.Questions),
	}

	scanGroup := huh.NewGroup(
		huh.NewInput().
			Title("Max Depth").
			Placeholder("5").
			Validate(nonNegative).
			Value(&cf.maxDepthStr),
	).Title("Scan")

	outputGroup := huh.NewGroup(
		huh.NewSelect[string]().
			Title("Format").
			Options(
				huh.NewOption("Terminal", "terminal"),
				huh.NewOption("Markdown", "markdown"),
				huh.NewOption("JSON", "json"),
			).
			Value(&cfg.Output.Format),
		huh.NewSelect[string]().
			Title("Color").
			Options(
				huh.NewOption("Auto", "auto"),
				huh.NewOption("Always", "always"),
				huh.NewOption("Never", "never"),
			).
			Value(&cfg.Output.Color),
	).Title("Output")

	learnGroup := huh.NewGroup(
		huh.NewInput().
			Title("Resources per technology").
			Placeholder("3").
			Validate(positive).
			Value(&cf.limitStr),
		huh.NewInput().
			Title("Quiz questions").
			Placeholder("5").
			Validate(positive).
			Value(&cf.questionsStr),
	).Title("Learning")

	cf.form = huh.NewForm(scanGroup, outputGroup, learnGroup)

	return cf
}

func nonNegative(s string) error {
	if v, err := strconv.Atoi(s); err != nil || v < 0 {
		return fmt.Errorf("must be a whole number >= 0")
	}
	return nil
}

func positive(s string) error {
	if v, err := strconv.Atoi(s); err != nil || v < 1 {
		return fmt.Errorf("must be a whole number >= 1")
	}
	return nil
}

// GroupCount returns the number of form groups.
func (c *ConfigForm) GroupCount() int { return 3 }

// Save persists the config to disk, converting the numeric inputs back
// to ints first. Unparseable inputs keep their previous value.
func (c *ConfigForm) Save() error {
	if v, err := strconv.Atoi(c.maxDepthStr); err == nil {
		c.cfg.Scan.MaxDepth = v
	}
	if v, err := strconv.Atoi(c.limitStr); err == nil {
		c.cfg.Recommend.Limit = v
	}
	if v, err := strconv.Atoi(c.questionsStr); err == nil {
		c.cfg.Quiz.Questions = v
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	return config.Save(c.savePath, c.cfg)
}

// Form returns the underlying huh.Form.
func (c *ConfigForm) Form() *huh.Form { return c.form }

// Run shows the form and saves the result unless the user aborts.
func (c *ConfigForm) Run() error {
	if err := c.form.Run(); err != nil {
		return err
	}
	return c.Save()
}
