package main

import (
	"log"
	"os"

	"specialist-match-be/internal/model"
	"specialist-match-be/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/datatypes"
)

func main() {
	// Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Seeding Specialist Catalog...")

	specialists := []model.Specialist{
		{
			Name:             "Anna Petrova",
			Tagline:          "CBT therapist for anxiety and burnout",
			Description:      "Licensed clinical psychologist, 8 years in private practice. Works with anxiety disorders, panic attacks and professional burnout using cognitive behavioral therapy.",
			Category:         "psychology",
			Specializations:  datatypes.NewJSONSlice([]string{"anxiety", "burnout", "panic"}),
			WorkFormats:      datatypes.NewJSONSlice([]string{"online"}),
			City:             "Berlin",
			ExperienceYears:  8,
			Gender:           "female",
			PriceMinor:       450000,
			Verified:         true,
			AcceptingClients: true,
			ContactQuota:     10,
		},
		{
			Name:             "Mark Olsen",
			Tagline:          "Family and relationship therapy",
			Description:      "Systemic family therapist. Helps couples through conflict, divorce decisions and communication breakdowns. In-person or video sessions.",
			Category:         "psychology",
			Specializations:  datatypes.NewJSONSlice([]string{"relationship", "family"}),
			WorkFormats:      datatypes.NewJSONSlice([]string{"hybrid"}),
			City:             "Hamburg",
			ExperienceYears:  12,
			Gender:           "male",
			PriceMinor:       600000,
			Verified:         true,
			AcceptingClients: true,
			ContactQuota:     5,
		},
		{
			Name:             "Sofia Reyes",
			Tagline:          "Strength coach for beginners",
			Description:      "Certified personal trainer. Builds sustainable strength and weight loss programs for people who have never set foot in a gym.",
			Category:         "fitness",
			Specializations:  datatypes.NewJSONSlice([]string{"strength", "weight_loss"}),
			WorkFormats:      datatypes.NewJSONSlice([]string{"online", "offline"}),
			City:             "Madrid",
			ExperienceYears:  5,
			Gender:           "female",
			PriceMinor:       200000,
			Verified:         false,
			AcceptingClients: true,
			ContactQuota:     20,
		},
		{
			Name:             "Jonas Weber",
			Tagline:          "Marathon and endurance training plans",
			Description:      "Running coach and former competitive athlete. Coaches endurance goals from first 5k to marathon, with weekly plan reviews.",
			Category:         "fitness",
			Specializations:  datatypes.NewJSONSlice([]string{"endurance", "running"}),
			WorkFormats:      datatypes.NewJSONSlice([]string{"online"}),
			City:             "Munich",
			ExperienceYears:  9,
			Gender:           "male",
			PriceMinor:       300000,
			Verified:         true,
			AcceptingClients: true,
			ContactQuota:     8,
		},
		{
			Name:             "Elena Rossi",
			Tagline:          "Nutrition plans for digestive health",
			Description:      "Registered dietitian specializing in food intolerances, IBS-friendly meal planning and sustainable weight management without restrictive diets.",
			Category:         "nutrition",
			Specializations:  datatypes.NewJSONSlice([]string{"digestion", "weight_loss"}),
			WorkFormats:      datatypes.NewJSONSlice([]string{"online"}),
			City:             "Milan",
			ExperienceYears:  7,
			Gender:           "female",
			PriceMinor:       350000,
			Verified:         true,
			AcceptingClients: true,
			ContactQuota:     15,
		},
	}

	for _, s := range specialists {
		// Idempotent on name, good enough for a dev seeder
		var existing model.Specialist
		if err := db.Where("name = ?", s.Name).First(&existing).Error; err == nil {
			log.Printf("Specialist '%s' already exists, skipping...", s.Name)
			continue
		}

		if err := db.Create(&s).Error; err != nil {
			log.Printf("Error creating specialist '%s': %v", s.Name, err)
		} else {
			log.Printf("Created specialist: %s (%s)", s.Name, s.Category)
		}
	}

	log.Println("Specialist seeding completed! Run cmd/reindex to generate embeddings.")
}
