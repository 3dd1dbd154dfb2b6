// Package seed resets the database to its stock state: the occasion catalog
// and the super-admin account.
package seed

import (
	"fmt"
	"log"

	"celebra/internal/models"
	"celebra/internal/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

var stockOccasions = []models.Occasion{
	{
		Name:           "San Valentín",
		Slug:           "celebration",
		Icon:           "heart",
		PrimaryColor:   "#ec4899",
		SecondaryColor: strPtr("#ef4444"),
		Description:    strPtr("Celebra el amor y el cariño especial"),
		SortOrder:      1,
	},
	{
		Name:           "Aniversario",
		Slug:           "aniversario",
		Icon:           "rings",
		PrimaryColor:   "#4f46e5",
		SecondaryColor: strPtr("#e0e7ff"),
		Description:    strPtr("Celebra el tiempo compartido juntos"),
		SortOrder:      2,
	},
	{
		Name:           "Año Nuevo",
		Slug:           "ano-nuevo",
		Icon:           "clock",
		PrimaryColor:   "#ca8a04",
		SecondaryColor: strPtr("#fef08a"),
		Description:    strPtr("Nuevos comienzos y metas compartidas"),
		SortOrder:      3,
	},
	{
		Name:           "Navidad",
		Slug:           "navidad",
		Icon:           "tree",
		PrimaryColor:   "#16a34a",
		SecondaryColor: strPtr("#dc2626"),
		Description:    strPtr("Celebra la unión y las tradiciones"),
		SortOrder:      4,
	},
	{
		Name:           "Cumpleaños",
		Slug:           "cumpleanos",
		Icon:           "cake",
		PrimaryColor:   "#9333ea",
		SecondaryColor: strPtr("#f3e8ff"),
		Description:    strPtr("Celebra un año más de vida de esa persona especial"),
		SortOrder:      5,
	},
	{
		Name:           "Halloween",
		Slug:           "halloween",
		Icon:           "pumpkin",
		PrimaryColor:   "#ea580c",
		SecondaryColor: strPtr("#000000"),
		Description:    strPtr("Diversión y celebración temática"),
		SortOrder:      6,
	},
	{
		Name:           "Fiestas Patrias",
		Slug:           "fiestas-patrias",
		Icon:           "flag-pe",
		PrimaryColor:   "#dc2626",
		SecondaryColor: strPtr("#ffffff"),
		Description:    strPtr("Celebra el orgullo nacional peruano"),
		SortOrder:      7,
	},
	{
		Name:           "Semana Santa",
		Slug:           "semana-santa",
		Icon:           "palm",
		PrimaryColor:   "#0891b2",
		SecondaryColor: strPtr("#cffafe"),
		Description:    strPtr("Escapada y momentos de desconexión"),
		SortOrder:      8,
	},
	{
		Name:           "Celebración Especial",
		Slug:           "personalizado",
		Icon:           "sparkles",
		PrimaryColor:   "#2563eb",
		SecondaryColor: strPtr("#dbeafe"),
		Description:    strPtr("Crea tu propia ocasión especial"),
		SortOrder:      9,
	},
}

// Run wipes the existing data and recreates the stock occasions and the
// super-admin user.
func Run(db *gorm.DB) error {
	log.Println("Seeding database...")

	// Requests reference users and occasions, so they go first.
	if err := db.Exec("DELETE FROM celebration_requests").Error; err != nil {
		return fmt.Errorf("failed to clear celebration requests: %w", err)
	}
	if err := db.Exec("DELETE FROM users").Error; err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}
	if err := db.Exec("DELETE FROM occasions").Error; err != nil {
		return fmt.Errorf("failed to clear occasions: %w", err)
	}

	for i := range stockOccasions {
		occasion := stockOccasions[i]
		occasion.ID = uuid.New().String()
		occasion.IsActive = true
		if err := db.Create(&occasion).Error; err != nil {
			return fmt.Errorf("failed to seed occasion %s: %w", occasion.Name, err)
		}
	}
	log.Printf("Seeded %d occasions", len(stockOccasions))

	admin := models.User{
		ID:     uuid.New().String(),
		Email:  services.SuperAdminEmail,
		Name:   "Admin",
		Role:   models.RoleAdmin,
		Status: models.StatusActive,
		// nil MaxRequests: the super admin has no quota
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed super admin: %w", err)
	}
	log.Printf("Seeded super admin %s", admin.Email)

	return nil
}
