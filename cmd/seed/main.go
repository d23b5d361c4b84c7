package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"varaamo/internal/database"
	"varaamo/internal/domain"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "varaamo.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM booking_items")
	db.Exec("DELETE FROM booking_orders")
	db.Exec("DELETE FROM bans")
	db.Exec("DELETE FROM user_organization_roles")
	db.Exec("DELETE FROM organization_items")
	db.Exec("DELETE FROM organization_locations")
	db.Exec("DELETE FROM storage_locations")
	db.Exec("DELETE FROM organizations")
	db.Exec("DELETE FROM roles")
	db.Exec("DELETE FROM users")

	// ================== ROLES ==================
	log.Println("Creating roles...")
	roleNames := []domain.RoleName{
		domain.RoleSuperAdmin,
		domain.RoleMainAdmin,
		domain.RoleAdmin,
		domain.RoleStorageManager,
		domain.RoleRequester,
		domain.RoleUser,
	}
	roles := map[domain.RoleName]domain.Role{}
	for _, name := range roleNames {
		r := domain.Role{Name: name}
		db.Create(&r)
		roles[name] = r
	}

	// ================== USERS ==================
	log.Println("Creating users...")

	superHash, _ := bcrypt.GenerateFromPassword([]byte("super123"), bcrypt.DefaultCost)
	super := domain.User{
		Email:        "super@varaamo.fi",
		PasswordHash: string(superHash),
		Name:         "Super Admin",
		IsActive:     true,
	}
	db.Create(&super)
	log.Println("Super admin created: super@varaamo.fi / super123")

	mkUser := func(email, name, password string) domain.User {
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		u := domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Name:         name,
			IsActive:     true,
		}
		db.Create(&u)
		return u
	}

	mainAdmin := mkUser("maija@globalart.fi", "Maija Virtanen", "admin123")
	admin := mkUser("antti@globalart.fi", "Antti Korhonen", "admin123")
	manager := mkUser("liisa@globalart.fi", "Liisa Nieminen", "manager123")
	requesters := []domain.User{
		mkUser("pekka@example.fi", "Pekka Laine", "user123"),
		mkUser("sanna@example.fi", "Sanna Mäkelä", "user123"),
		mkUser("juha@example.fi", "Juha Heikkinen", "user123"),
	}

	// ================== ORGANIZATIONS ==================
	log.Println("Creating organizations...")
	orgs := make([]domain.Organization, 0, 2)
	for i, name := range []string{"Global Art Collective", "City Theatre Workshop"} {
		org := domain.Organization{
			Name:     name,
			Slug:     fmt.Sprintf("org-%d", i+1),
			IsActive: true,
		}
		db.Create(&org)
		orgs = append(orgs, org)
	}

	// ================== LOCATIONS ==================
	log.Println("Creating storage locations...")
	locations := make([]domain.StorageLocation, 0, 2)
	for i, city := range []string{"Helsinki", "Espoo"} {
		loc := domain.StorageLocation{
			Address: fmt.Sprintf("Varastokatu %d", i+1),
			City:    city,
		}
		db.Create(&loc)
		locations = append(locations, loc)

		db.Create(&domain.OrganizationLocation{
			OrganizationID:    orgs[i%len(orgs)].ID,
			StorageLocationID: loc.ID,
		})
	}

	// ================== ROLE GRANTS ==================
	log.Println("Assigning roles...")
	assign := func(user domain.User, org domain.Organization, role domain.RoleName) {
		db.Create(&domain.UserOrganizationRole{
			UserID:         user.ID,
			OrganizationID: org.ID,
			RoleID:         roles[role].ID,
			IsActive:       true,
		})
	}
	assign(super, orgs[0], domain.RoleSuperAdmin)
	assign(mainAdmin, orgs[0], domain.RoleMainAdmin)
	assign(admin, orgs[0], domain.RoleAdmin)
	assign(manager, orgs[0], domain.RoleStorageManager)
	for _, r := range requesters {
		assign(r, orgs[0], domain.RoleRequester)
	}
	// the second organization gets its own admin
	assign(admin, orgs[1], domain.RoleAdmin)

	// ================== INVENTORY ==================
	log.Println("Creating organization items...")
	for i := 0; i < 6; i++ {
		db.Create(&domain.OrganizationItem{
			StorageItemID:     int64(i + 1),
			OrganizationID:    orgs[i%len(orgs)].ID,
			StorageLocationID: locations[i%len(locations)].ID,
			OwnedQuantity:     3 + i%4,
			UnitPrice:         float64(5 + i*5),
			IsActive:          true,
		})
	}

	// ================== BOOKINGS ==================
	log.Println("Creating booking orders...")
	start := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 7)
	statuses := []domain.BookingStatus{
		domain.BookingPending,
		domain.BookingConfirmed,
		domain.BookingCompleted,
	}
	for i, r := range requesters {
		order := domain.BookingOrder{
			OrderNumber: fmt.Sprintf("ORD-%s-%04d", start.Format("20060102"), i+1),
			UserID:      r.ID,
			Status:      statuses[i%len(statuses)],
		}
		db.Create(&order)

		itemStart := start.AddDate(0, 0, i*2)
		itemEnd := itemStart.AddDate(0, 0, 3)
		item := domain.BookingItem{
			BookingOrderID: order.ID,
			OrgItemID:      int64(i%6 + 1),
			Quantity:       1 + i%2,
			StartDate:      itemStart,
			EndDate:        itemEnd,
			TotalDays:      3,
			Status:         statuses[i%len(statuses)],
			Subtotal:       float64((5 + i*5) * 3 * (1 + i%2)),
		}
		db.Create(&item)

		order.TotalAmount = item.Subtotal
		order.FinalAmount = item.Subtotal
		db.Save(&order)
	}

	log.Println("Seed completed")
	log.Println("Test accounts:")
	log.Println("Super admin: super@varaamo.fi / super123")
	log.Println("Main admin:  maija@globalart.fi / admin123")
	log.Println("Admin:       antti@globalart.fi / admin123")
	log.Println("Manager:     liisa@globalart.fi / manager123")
	log.Println("Requesters:  pekka|sanna|juha@example.fi / user123")
}
