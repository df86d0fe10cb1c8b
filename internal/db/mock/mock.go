package mock

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	applog "biostack/internal/log"
	"biostack/models"
)

func ptr[T any](v T) *T { return &v }

// Each call gets its own named in-memory database so repeated opens do not
// share state; cache=shared keeps the pool's connections on the same store.
var instance atomic.Int64

// New returns an in-memory sqlite database seeded with a representative
// catalog, rule tables, one account, and a morning of intake logs.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	dsn := fmt.Sprintf("file:biostack-mock-%d?mode=memory&cache=shared", instance.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.SupplementProfile{},
		&models.IntakeLog{},
		&models.TimingRule{},
		&models.RatioRule{},
		&models.Interaction{},
		&models.SafetyLimit{},
	); err != nil {
		return nil, err
	}

	if err := seed(ctx, db); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return db, nil
}

func seed(ctx context.Context, db *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	password, err := bcrypt.GenerateFromPassword([]byte("stacker"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:         "Riley Ota",
		Email:        "riley@biostack.app",
		PasswordHash: string(password),
		Timezone:     "America/Denver",
		Goals:        datatypes.JSON(`["sleep","bone_health"]`),
	}
	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}

	vitaminD := models.SupplementProfile{
		Name:               "Vitamin D3",
		PeakMinutes:        120,
		HalfLifeMinutes:    1200,
		KineticsType:       models.KineticsFirstOrder,
		SafetyCategory:     ptr("vitamin_d"),
		OptimalTimeOfDay:   models.TimeMorning,
		TimingRationaleKey: ptr("fat_soluble"),
		CommonGoals:        datatypes.JSON(`["bone_health","immunity"]`),
	}

	vitaminK2 := models.SupplementProfile{
		Name:             "Vitamin K2 MK-7",
		PeakMinutes:      240,
		HalfLifeMinutes:  4000,
		KineticsType:     models.KineticsFirstOrder,
		OptimalTimeOfDay: models.TimeWithMeals,
		TimingRationaleKey: ptr("fat_soluble"),
		CommonGoals:      datatypes.JSON(`["bone_health"]`),
	}

	zinc := models.SupplementProfile{
		Name:                   "Zinc Picolinate",
		PeakMinutes:            120,
		HalfLifeMinutes:        600,
		KineticsType:           models.KineticsFirstOrder,
		RDAAmount:              ptr(11.0),
		ElementalWeightPercent: ptr(21.0),
		SafetyCategory:         ptr("zinc"),
		OptimalTimeOfDay:       models.TimeAny,
		CommonGoals:            datatypes.JSON(`["immunity","recovery"]`),
	}

	copper := models.SupplementProfile{
		Name:                   "Copper Glycinate",
		PeakMinutes:            120,
		HalfLifeMinutes:        600,
		KineticsType:           models.KineticsFirstOrder,
		ElementalWeightPercent: ptr(30.0),
		OptimalTimeOfDay:       models.TimeAny,
		CommonGoals:            datatypes.JSON(`["immunity"]`),
	}

	magnesium := models.SupplementProfile{
		Name:               "Magnesium Glycinate",
		PeakMinutes:        90,
		HalfLifeMinutes:    600,
		KineticsType:       models.KineticsFirstOrder,
		RDAAmount:          ptr(400.0),
		ElementalWeightPercent: ptr(14.1),
		SafetyCategory:     ptr("magnesium"),
		OptimalTimeOfDay:   models.TimeEvening,
		TimingRationaleKey: ptr("relaxant"),
		CommonGoals:        datatypes.JSON(`["sleep","recovery"]`),
	}

	caffeine := models.SupplementProfile{
		Name:               "Caffeine",
		PeakMinutes:        45,
		HalfLifeMinutes:    300,
		KineticsType:       models.KineticsFirstOrder,
		OptimalTimeOfDay:   models.TimeMorning,
		TimingRationaleKey: ptr("stimulant"),
		CommonGoals:        datatypes.JSON(`["focus","energy"]`),
	}

	vitaminC := models.SupplementProfile{
		Name:            "Vitamin C",
		PeakMinutes:     180,
		HalfLifeMinutes: 120,
		KineticsType:    models.KineticsMichaelisMenten,
		Vmax:            ptr(50.0),
		Km:              ptr(200.0),
		RDAAmount:       ptr(90.0),
		OptimalTimeOfDay: models.TimeAny,
		CommonGoals:     datatypes.JSON(`["immunity"]`),
	}

	iron := models.SupplementProfile{
		Name:                   "Iron Bisglycinate",
		PeakMinutes:            90,
		HalfLifeMinutes:        400,
		KineticsType:           models.KineticsFirstOrder,
		ElementalWeightPercent: ptr(20.0),
		SafetyCategory:         ptr("iron"),
		OptimalTimeOfDay:       models.TimeMorning,
		TimingRationaleKey:     ptr("iron"),
		CommonGoals:            datatypes.JSON(`["energy"]`),
	}

	bpc := models.SupplementProfile{
		Name:               "BPC-157",
		PeakMinutes:        60,
		HalfLifeMinutes:    240,
		KineticsType:       models.KineticsFirstOrder,
		OptimalTimeOfDay:   models.TimeAny,
		IsResearchChemical: true,
	}

	profiles := []*models.SupplementProfile{
		&vitaminD, &vitaminK2, &zinc, &copper, &magnesium,
		&caffeine, &vitaminC, &iron, &bpc,
	}
	for _, profile := range profiles {
		if err := db.WithContext(ctx).Create(profile).Error; err != nil {
			return err
		}
	}

	rules := []any{
		&models.TimingRule{
			SourceID:      zinc.ID,
			TargetID:      copper.ID,
			MinHoursApart: 4,
			Reason:        "Zinc and copper compete for the same intestinal transporter.",
			Severity:      models.SeverityMedium,
		},
		&models.TimingRule{
			SourceID:      iron.ID,
			TargetID:      zinc.ID,
			MinHoursApart: 2,
			Reason:        "Iron blunts zinc uptake when taken close together.",
			Severity:      models.SeverityLow,
		},
		&models.RatioRule{
			SourceID:     zinc.ID,
			TargetID:     copper.ID,
			MinRatio:     8,
			MaxRatio:     15,
			OptimalRatio: 10,
			Severity:     models.SeverityMedium,
		},
		&models.Interaction{
			SourceID:  vitaminD.ID,
			TargetID:  vitaminK2.ID,
			Type:      models.InteractionSynergy,
			Mechanism: "K2 directs the calcium that D3 mobilizes into bone",
			Severity:  models.SeverityLow,
			Suggestion: ptr("adding Vitamin K2 MK-7 keeps mobilized calcium out of arteries."),
		},
		&models.Interaction{
			SourceID:  vitaminC.ID,
			TargetID:  iron.ID,
			Type:      models.InteractionSynergy,
			Mechanism: "ascorbate reduces ferric iron into its absorbable form",
			Severity:  models.SeverityLow,
		},
		&models.SafetyLimit{
			Category:     "vitamin_d",
			Limit:        4000,
			Unit:         models.UnitIU,
			Period:       models.PeriodDaily,
			IsHardLimit:  true,
			RequiredUnit: ptr(models.UnitIU),
			Notes:        "Tolerable upper intake; chronic excess risks hypercalcemia.",
			Source:       "NIH ODS",
		},
		&models.SafetyLimit{
			Category:    "zinc",
			Limit:       40,
			Unit:        models.UnitMG,
			Period:      models.PeriodDaily,
			IsHardLimit: true,
			Notes:       "Chronic high zinc depletes copper.",
			Source:      "NIH ODS",
		},
		&models.SafetyLimit{
			Category:    "iron",
			Limit:       45,
			Unit:        models.UnitMG,
			Period:      models.PeriodDaily,
			IsHardLimit: true,
			Notes:       "Upper limit for adults without diagnosed deficiency.",
			Source:      "NIH ODS",
		},
		&models.SafetyLimit{
			Category:    "magnesium",
			Limit:       350,
			Unit:        models.UnitMG,
			Period:      models.PeriodDaily,
			IsHardLimit: false,
			Notes:       "Supplemental magnesium above this commonly causes GI upset.",
			Source:      "NIH ODS",
		},
	}
	for _, rule := range rules {
		if err := db.WithContext(ctx).Create(rule).Error; err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	logs := []models.IntakeLog{
		{UserID: user.ID, SupplementID: vitaminD.ID, Dosage: 2000, Unit: models.UnitIU, LoggedAt: now.Add(-2 * time.Hour)},
		{UserID: user.ID, SupplementID: zinc.ID, Dosage: 50, Unit: models.UnitMG, LoggedAt: now.Add(-time.Hour)},
		{UserID: user.ID, SupplementID: copper.ID, Dosage: 2, Unit: models.UnitMG, LoggedAt: now.Add(-3 * time.Hour)},
		{UserID: user.ID, SupplementID: magnesium.ID, Dosage: 200, Unit: models.UnitMG, LoggedAt: now.Add(-10 * time.Hour)},
	}
	for _, log := range logs {
		logCopy := log
		if err := db.WithContext(ctx).Create(&logCopy).Error; err != nil {
			return err
		}
	}

	applog.Debug(ctx, "mock database seeded")
	return nil
}
