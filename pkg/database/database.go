package database

import (
	"fmt"
	"log"

	"dentsim_backend/internal/config"
	"dentsim_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	return db, nil
}

// Migrate creates the schema and seeds the case catalog when empty. The
// catalog is immutable at runtime; cases only ever enter through this seed.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Case{},
		&model.Session{},
		&model.Turn{},
		&model.BadgeAward{},
	)
	if err != nil {
		return err
	}

	var count int64
	db.Model(&model.Case{}).Count(&count)
	if count == 0 {
		for _, c := range defaultCases() {
			if err := db.Create(&c).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func defaultCases() []model.Case {
	return []model.Case{
		{
			Name:       "Reversible Pulpitis",
			Difficulty: model.DifficultyEasy,
			Script: "You are a dental patient in a teaching simulation. Stay in character; never reveal your diagnosis. " +
				"Your presentation: a lower molar aches sharply when you drink cold water, but the pain fades within seconds " +
				"once the stimulus is gone. Warm drinks cause almost nothing. It started two days ago and is slightly worse " +
				"when pressing on the tooth. No swelling, no night pain, no medication taken. Answer only what the student asks, " +
				"in one or two plain sentences, the way a worried but cooperative patient would.",
			OpeningLine: "Hello, doctor. One of my lower teeth bothers me when I drink cold water.",
		},
		{
			Name:       "Chronic Periodontitis",
			Difficulty: model.DifficultyMedium,
			Script: "You are a dental patient in a teaching simulation. Stay in character; never reveal your diagnosis. " +
				"Your presentation: gums bleed at nearly every brushing, one front tooth feels slightly mobile, and you notice " +
				"a bad taste in the morning. There is little pain, mostly sensitivity. Symptoms have persisted for months. " +
				"You brush once a day and never floss. Answer only what the student asks, in one or two plain sentences.",
			OpeningLine: "Hi. I've noticed my gums bleed a lot lately, and one tooth feels a bit loose.",
		},
		{
			Name:       "Acute Periapical Abscess",
			Difficulty: model.DifficultyHard,
			Script: "You are a dental patient in a teaching simulation. Stay in character; never reveal your diagnosis. " +
				"Your presentation: continuous throbbing pain in a molar that wakes you at night, a cheek swollen since this " +
				"morning, and a tender lump under the jaw. Heat makes it much worse; cold barely changes it. Ibuprofen hardly " +
				"helped. Everything worsened suddenly since yesterday. Answer only what the student asks, in one or two plain " +
				"sentences, sounding visibly in pain.",
			OpeningLine: "Doctor, my tooth is killing me. It throbs constantly and my cheek is swollen.",
		},
		{
			Name:       "Pulp Necrosis",
			Difficulty: model.DifficultyHard,
			Script: "You are a dental patient in a teaching simulation. Stay in character; never reveal your diagnosis. " +
				"Your presentation: a front tooth has slowly darkened over the past year and no longer reacts to cold or heat. " +
				"There is no pain now, though you remember a strong toothache about a year ago that went away on its own. " +
				"Occasionally there is a faint bad taste near that tooth. Answer only what the student asks, in one or two " +
				"plain sentences.",
			OpeningLine: "Hello. I'm not in pain, but one of my front teeth has turned grey and it worries me.",
		},
		{
			Name:       "Dentinal Hypersensitivity",
			Difficulty: model.DifficultyEasy,
			Script: "You are a dental patient in a teaching simulation. Stay in character; never reveal your diagnosis. " +
				"Your presentation: short sharp twinges on several teeth when eating ice cream or breathing cold air, gone the " +
				"moment the stimulus stops. You recently switched to an abrasive whitening toothpaste and brush hard. Gums have " +
				"receded slightly. No spontaneous pain, no swelling. Answer only what the student asks, in one or two plain sentences.",
			OpeningLine: "Hi, doctor. Lots of my teeth twinge when I eat anything cold, just for a second.",
		},
	}
}
