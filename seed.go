package main

import (
	"database/sql"
	"log"

	_ "github.com/lib/pq"

	"event-marketplace-server/config"
	"event-marketplace-server/services"
)

type demoListing struct {
	Company  string
	Category string
	City     string
	Title    string
	Price    float64
}

var demoListings = []demoListing{
	{"Château Belmont", "venue", "Paris", "Garden wedding venue up to 200 guests", 4500},
	{"Château Belmont", "venue", "Paris", "Indoor gala hall", 3200},
	{"Maison Gourmet", "catering", "Paris", "Seated dinner menu, per person", 85},
	{"Maison Gourmet", "catering", "Paris", "Cocktail buffet, per person", 45},
	{"Lens & Light", "photography", "Lyon", "Full-day event photography", 1200},
	{"Lens & Light", "photography", "Lyon", "Photo booth rental", 350},
	{"Bassline Collective", "music", "Paris", "Live band, 4-hour set", 1800},
	{"Petal & Vine", "decoration", "Lyon", "Floral arrangements package", 950},
}

// runSeed inserts demo vendors and listings for local development. It goes
// through database/sql directly so it can run before GORM migrations settle
// and stays idempotent via ON CONFLICT DO NOTHING.
func runSeed() {
	dbURL := config.AppConfig.Database.URL
	if dbURL == "" {
		log.Fatal("DB_URL is required for seeding")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}
	log.Println("✅ Successfully connected to database")

	jwtService := services.NewJWTService()
	password, err := jwtService.HashPassword("demo-password-123")
	if err != nil {
		log.Fatal("Failed to hash demo password:", err)
	}

	seeded := 0
	for _, l := range demoListings {
		email := demoEmail(l.Company)

		var userID int64
		err := db.QueryRow(`
			INSERT INTO users (full_name, email, password_hash, role, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, 'vendor', true, NOW(), NOW())
			ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
			RETURNING id`,
			l.Company, email, password).Scan(&userID)
		if err != nil {
			log.Printf("❌ Failed to seed user %s: %v", email, err)
			continue
		}

		var vendorID int64
		err = db.QueryRow(`
			INSERT INTO vendor_profiles (user_id, company_name, category, city, is_verified, created_at, updated_at)
			VALUES ($1, $2, $3, $4, true, NOW(), NOW())
			ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
			RETURNING id`,
			userID, l.Company, l.Category, l.City).Scan(&vendorID)
		if err != nil {
			log.Printf("❌ Failed to seed vendor %s: %v", l.Company, err)
			continue
		}

		result, err := db.Exec(`
			INSERT INTO service_listings (vendor_id, category, title, price, price_type, city, is_active, created_at, updated_at)
			SELECT $1, $2, $3, $4, 'fixed', $5, true, NOW(), NOW()
			WHERE NOT EXISTS (
				SELECT 1 FROM service_listings WHERE vendor_id = $1 AND title = $3
			)`,
			vendorID, l.Category, l.Title, l.Price, l.City)
		if err != nil {
			log.Printf("❌ Failed to seed listing %q: %v", l.Title, err)
			continue
		}
		if rows, _ := result.RowsAffected(); rows > 0 {
			seeded++
		}
	}

	log.Printf("✅ Seeding complete: %d new listings", seeded)
}

func demoEmail(company string) string {
	slug := make([]rune, 0, len(company))
	for _, r := range company {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			slug = append(slug, r)
		case r >= 'A' && r <= 'Z':
			slug = append(slug, r+('a'-'A'))
		}
	}
	return string(slug) + "@demo.local"
}
