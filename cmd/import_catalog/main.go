package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"biostack/internal/config"
	"biostack/internal/db"
	"biostack/models"
)

func main() {
	if err := getRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func getRootCmd() *cobra.Command {
	var (
		filePath string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "import_catalog",
		Short: "Imports the supplement catalog and rule tables from a YAML file",
		Long: `Imports supplement profiles, timing rules, ratio rules, interactions,
and safety limits from a YAML catalog into the database.

Supplements are upserted by name, safety limits by category, and rules by
their supplement pair, so re-running the import against an updated catalog
is safe.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(filePath, dryRun)
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "catalog.yaml", "path to the catalog YAML file")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate and report counts without writing")
	return cmd
}

type catalog struct {
	Supplements  []supplementEntry  `yaml:"supplements"`
	TimingRules  []timingRuleEntry  `yaml:"timing_rules"`
	RatioRules   []ratioRuleEntry   `yaml:"ratio_rules"`
	Interactions []interactionEntry `yaml:"interactions"`
	SafetyLimits []safetyLimitEntry `yaml:"safety_limits"`
}

type supplementEntry struct {
	Name                   string   `yaml:"name"`
	PeakMinutes            float64  `yaml:"peak_minutes"`
	HalfLifeMinutes        float64  `yaml:"half_life_minutes"`
	Kinetics               string   `yaml:"kinetics"`
	Vmax                   *float64 `yaml:"vmax"`
	Km                     *float64 `yaml:"km"`
	RDAAmount              *float64 `yaml:"rda_amount"`
	ElementalWeightPercent *float64 `yaml:"elemental_weight_percent"`
	BioavailabilityPercent *float64 `yaml:"bioavailability_percent"`
	SafetyCategory         *string  `yaml:"safety_category"`
	OptimalTime            string   `yaml:"optimal_time"`
	TimingRationale        *string  `yaml:"timing_rationale"`
	Goals                  []string `yaml:"goals"`
	ResearchChemical       bool     `yaml:"research_chemical"`
}

type timingRuleEntry struct {
	Source        string  `yaml:"source"`
	Target        string  `yaml:"target"`
	MinHoursApart float64 `yaml:"min_hours_apart"`
	Reason        string  `yaml:"reason"`
	Severity      string  `yaml:"severity"`
}

type ratioRuleEntry struct {
	Source       string  `yaml:"source"`
	Target       string  `yaml:"target"`
	MinRatio     float64 `yaml:"min_ratio"`
	MaxRatio     float64 `yaml:"max_ratio"`
	OptimalRatio float64 `yaml:"optimal_ratio"`
	Severity     string  `yaml:"severity"`
}

type interactionEntry struct {
	Source     string  `yaml:"source"`
	Target     string  `yaml:"target"`
	Type       string  `yaml:"type"`
	Mechanism  string  `yaml:"mechanism"`
	Severity   string  `yaml:"severity"`
	Suggestion *string `yaml:"suggestion"`
}

type safetyLimitEntry struct {
	Category     string  `yaml:"category"`
	Limit        float64 `yaml:"limit"`
	Unit         string  `yaml:"unit"`
	Period       string  `yaml:"period"`
	HardLimit    bool    `yaml:"hard_limit"`
	RequiredUnit *string `yaml:"required_unit"`
	Notes        string  `yaml:"notes"`
	Source       string  `yaml:"source"`
}

type importStats struct {
	Supplements  int
	TimingRules  int
	RatioRules   int
	Interactions int
	SafetyLimits int
}

func run(path string, dryRun bool) error {
	cat, err := loadCatalog(path)
	if err != nil {
		return err
	}

	if dryRun {
		fmt.Fprintf(os.Stdout,
			"Catalog %s is valid: %d supplements, %d timing rules, %d ratio rules, %d interactions, %d safety limits\n",
			filepath.Base(path), len(cat.Supplements), len(cat.TimingRules),
			len(cat.RatioRules), len(cat.Interactions), len(cat.SafetyLimits))
		return nil
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	database, err := db.Initialize(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(database); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	stats, err := applyCatalog(context.Background(), database, cat)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout,
		"Imported %d supplements, %d timing rules, %d ratio rules, %d interactions, %d safety limits from %s\n",
		stats.Supplements, stats.TimingRules, stats.RatioRules,
		stats.Interactions, stats.SafetyLimits, filepath.Base(path))
	return nil
}

func loadCatalog(path string) (*catalog, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("catalog path must not be empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	cat := &catalog{}
	if err := yaml.Unmarshal(raw, cat); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if err := validateCatalog(cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func validateCatalog(cat *catalog) error {
	names := make(map[string]struct{}, len(cat.Supplements))
	for idx, entry := range cat.Supplements {
		name := strings.TrimSpace(entry.Name)
		if name == "" {
			return fmt.Errorf("supplement %d: name is required", idx+1)
		}
		if _, dup := names[strings.ToLower(name)]; dup {
			return fmt.Errorf("supplement %q: duplicate name", name)
		}
		names[strings.ToLower(name)] = struct{}{}

		if entry.PeakMinutes <= 0 || entry.HalfLifeMinutes <= 0 {
			return fmt.Errorf("supplement %q: peak_minutes and half_life_minutes must be positive", name)
		}
		switch entry.Kinetics {
		case "", models.KineticsFirstOrder:
		case models.KineticsMichaelisMenten:
			if entry.Vmax == nil || entry.Km == nil || *entry.Vmax <= 0 || *entry.Km <= 0 {
				return fmt.Errorf("supplement %q: michaelis_menten kinetics needs positive vmax and km", name)
			}
		default:
			return fmt.Errorf("supplement %q: unknown kinetics %q", name, entry.Kinetics)
		}
	}

	for _, rule := range cat.TimingRules {
		if err := requirePair("timing rule", rule.Source, rule.Target, names); err != nil {
			return err
		}
		if rule.MinHoursApart <= 0 {
			return fmt.Errorf("timing rule %s -> %s: min_hours_apart must be positive", rule.Source, rule.Target)
		}
	}
	for _, rule := range cat.RatioRules {
		if err := requirePair("ratio rule", rule.Source, rule.Target, names); err != nil {
			return err
		}
		if rule.MinRatio <= 0 || rule.MaxRatio < rule.MinRatio {
			return fmt.Errorf("ratio rule %s -> %s: needs 0 < min_ratio <= max_ratio", rule.Source, rule.Target)
		}
	}
	for _, entry := range cat.Interactions {
		if err := requirePair("interaction", entry.Source, entry.Target, names); err != nil {
			return err
		}
		switch entry.Type {
		case models.InteractionSynergy, models.InteractionInhibition, models.InteractionCompetition:
		default:
			return fmt.Errorf("interaction %s -> %s: unknown type %q", entry.Source, entry.Target, entry.Type)
		}
	}
	for _, limit := range cat.SafetyLimits {
		if strings.TrimSpace(limit.Category) == "" {
			return fmt.Errorf("safety limit: category is required")
		}
		if limit.Limit <= 0 {
			return fmt.Errorf("safety limit %q: limit must be positive", limit.Category)
		}
		if !models.ValidUnit(limit.Unit) {
			return fmt.Errorf("safety limit %q: unknown unit %q", limit.Category, limit.Unit)
		}
		switch limit.Period {
		case "", models.PeriodDaily, models.PeriodWeekly:
		default:
			return fmt.Errorf("safety limit %q: unknown period %q", limit.Category, limit.Period)
		}
	}

	return nil
}

func requirePair(kind, source, target string, names map[string]struct{}) error {
	for _, name := range []string{source, target} {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%s: source and target are required", kind)
		}
		if _, ok := names[strings.ToLower(strings.TrimSpace(name))]; !ok {
			return fmt.Errorf("%s: supplement %q is not in the catalog", kind, name)
		}
	}
	return nil
}

func applyCatalog(ctx context.Context, database *gorm.DB, cat *catalog) (importStats, error) {
	stats := importStats{}
	ids := make(map[string]uuid.UUID, len(cat.Supplements))

	for _, entry := range cat.Supplements {
		var id uuid.UUID
		if err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			id, err = upsertSupplement(ctx, tx, entry)
			return err
		}); err != nil {
			return stats, fmt.Errorf("supplement %q: %w", entry.Name, err)
		}
		ids[strings.ToLower(strings.TrimSpace(entry.Name))] = id
		stats.Supplements++
	}

	for _, rule := range cat.TimingRules {
		if err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return upsertTimingRule(ctx, tx, rule, ids)
		}); err != nil {
			return stats, fmt.Errorf("timing rule %s -> %s: %w", rule.Source, rule.Target, err)
		}
		stats.TimingRules++
	}

	for _, rule := range cat.RatioRules {
		if err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return upsertRatioRule(ctx, tx, rule, ids)
		}); err != nil {
			return stats, fmt.Errorf("ratio rule %s -> %s: %w", rule.Source, rule.Target, err)
		}
		stats.RatioRules++
	}

	for _, entry := range cat.Interactions {
		if err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return upsertInteraction(ctx, tx, entry, ids)
		}); err != nil {
			return stats, fmt.Errorf("interaction %s -> %s: %w", entry.Source, entry.Target, err)
		}
		stats.Interactions++
	}

	for _, limit := range cat.SafetyLimits {
		if err := database.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return upsertSafetyLimit(ctx, tx, limit)
		}); err != nil {
			return stats, fmt.Errorf("safety limit %q: %w", limit.Category, err)
		}
		stats.SafetyLimits++
	}

	return stats, nil
}

func upsertSupplement(ctx context.Context, tx *gorm.DB, entry supplementEntry) (uuid.UUID, error) {
	profile := models.SupplementProfile{
		Name:                   strings.TrimSpace(entry.Name),
		PeakMinutes:            entry.PeakMinutes,
		HalfLifeMinutes:        entry.HalfLifeMinutes,
		KineticsType:           entry.Kinetics,
		Vmax:                   entry.Vmax,
		Km:                     entry.Km,
		RDAAmount:              entry.RDAAmount,
		ElementalWeightPercent: entry.ElementalWeightPercent,
		BioavailabilityPercent: entry.BioavailabilityPercent,
		SafetyCategory:         entry.SafetyCategory,
		OptimalTimeOfDay:       entry.OptimalTime,
		TimingRationaleKey:     entry.TimingRationale,
		IsResearchChemical:     entry.ResearchChemical,
	}
	if profile.KineticsType == "" {
		profile.KineticsType = models.KineticsFirstOrder
	}
	if profile.OptimalTimeOfDay == "" {
		profile.OptimalTimeOfDay = models.TimeAny
	}
	if len(entry.Goals) > 0 {
		encoded, err := yamlGoals(entry.Goals)
		if err != nil {
			return uuid.Nil, err
		}
		profile.CommonGoals = encoded
	}

	var existing models.SupplementProfile
	err := tx.Where("name = ?", profile.Name).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := tx.Create(&profile).Error; err != nil {
			return uuid.Nil, err
		}
		return profile.ID, nil
	}
	if err != nil {
		return uuid.Nil, err
	}

	profile.ID = existing.ID
	profile.CreatedAt = existing.CreatedAt
	if err := tx.Save(&profile).Error; err != nil {
		return uuid.Nil, err
	}
	return existing.ID, nil
}

func upsertTimingRule(ctx context.Context, tx *gorm.DB, rule timingRuleEntry, ids map[string]uuid.UUID) error {
	sourceID := ids[strings.ToLower(strings.TrimSpace(rule.Source))]
	targetID := ids[strings.ToLower(strings.TrimSpace(rule.Target))]

	record := models.TimingRule{
		SourceID:      sourceID,
		TargetID:      targetID,
		MinHoursApart: rule.MinHoursApart,
		Reason:        rule.Reason,
		Severity:      normalizeSeverity(rule.Severity),
	}

	var existing models.TimingRule
	err := tx.Where("source_id = ? AND target_id = ?", sourceID, targetID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&record).Error
	}
	if err != nil {
		return err
	}
	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt
	return tx.Save(&record).Error
}

func upsertRatioRule(ctx context.Context, tx *gorm.DB, rule ratioRuleEntry, ids map[string]uuid.UUID) error {
	sourceID := ids[strings.ToLower(strings.TrimSpace(rule.Source))]
	targetID := ids[strings.ToLower(strings.TrimSpace(rule.Target))]

	record := models.RatioRule{
		SourceID:     sourceID,
		TargetID:     targetID,
		MinRatio:     rule.MinRatio,
		MaxRatio:     rule.MaxRatio,
		OptimalRatio: rule.OptimalRatio,
		Severity:     normalizeSeverity(rule.Severity),
	}

	var existing models.RatioRule
	err := tx.Where("source_id = ? AND target_id = ?", sourceID, targetID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&record).Error
	}
	if err != nil {
		return err
	}
	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt
	return tx.Save(&record).Error
}

func upsertInteraction(ctx context.Context, tx *gorm.DB, entry interactionEntry, ids map[string]uuid.UUID) error {
	sourceID := ids[strings.ToLower(strings.TrimSpace(entry.Source))]
	targetID := ids[strings.ToLower(strings.TrimSpace(entry.Target))]

	record := models.Interaction{
		SourceID:   sourceID,
		TargetID:   targetID,
		Type:       entry.Type,
		Mechanism:  entry.Mechanism,
		Severity:   normalizeSeverity(entry.Severity),
		Suggestion: entry.Suggestion,
	}

	var existing models.Interaction
	err := tx.Where("source_id = ? AND target_id = ? AND type = ?", sourceID, targetID, entry.Type).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&record).Error
	}
	if err != nil {
		return err
	}
	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt
	return tx.Save(&record).Error
}

func upsertSafetyLimit(ctx context.Context, tx *gorm.DB, limit safetyLimitEntry) error {
	record := models.SafetyLimit{
		Category:     strings.TrimSpace(limit.Category),
		Limit:        limit.Limit,
		Unit:         limit.Unit,
		Period:       limit.Period,
		IsHardLimit:  limit.HardLimit,
		RequiredUnit: limit.RequiredUnit,
		Notes:        limit.Notes,
		Source:       limit.Source,
	}
	if record.Period == "" {
		record.Period = models.PeriodDaily
	}

	var existing models.SafetyLimit
	err := tx.Where("category = ?", record.Category).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&record).Error
	}
	if err != nil {
		return err
	}
	record.ID = existing.ID
	record.CreatedAt = existing.CreatedAt
	return tx.Save(&record).Error
}

func normalizeSeverity(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case models.SeverityMedium:
		return models.SeverityMedium
	case models.SeverityCritical:
		return models.SeverityCritical
	default:
		return models.SeverityLow
	}
}

func yamlGoals(goals []string) (datatypes.JSON, error) {
	cleaned := make([]string, 0, len(goals))
	for _, goal := range goals {
		if trimmed := strings.TrimSpace(goal); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	encoded, err := json.Marshal(cleaned)
	if err != nil {
		return nil, fmt.Errorf("encode goals: %w", err)
	}
	return datatypes.JSON(encoded), nil
}
