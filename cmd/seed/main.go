package main

import (
	"context"
	"errors"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/paras1506/CSR-Health-Group/internal/config"
	"github.com/paras1506/CSR-Health-Group/internal/db"
	"github.com/paras1506/CSR-Health-Group/internal/model"
	"github.com/paras1506/CSR-Health-Group/internal/repository"
)

// departmentNames is the baseline set of departments requests can be assigned
// to. Seeding is idempotent: existing departments are left untouched.
var departmentNames = []string{
	"Education",
	"Health",
	"Agriculture",
	"Rural Development",
	"Energy",
	"Water Resources",
}

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Department{}, &model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	deptRepo := repository.NewDepartmentRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)

	for _, name := range departmentNames {
		dept, err := deptRepo.FirstOrCreateByName(ctx, name)
		if err != nil {
			log.Fatalf("Failed to seed department %q: %v", name, err)
		}
		log.Printf("Department %q ready (id=%s)", dept.Name, dept.ID)
	}

	if err := seedAdmin(ctx, userRepo); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}

	log.Println("Seed completed")
}

// seedAdmin creates an initial verified Admin account when ADMIN_EMAIL and
// ADMIN_PASSWORD are set. Re-running against an existing account is a no-op.
func seedAdmin(ctx context.Context, userRepo repository.UserRepository) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin account")
		return nil
	}

	if _, err := userRepo.FindByEmail(ctx, email); err == nil {
		log.Printf("Admin account %s already exists, skipping", email)
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return err
	}

	admin := &model.User{
		FirstName:    "Platform",
		LastName:     "Admin",
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		IsVerified:   true,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}
	log.Printf("Admin account %s created", email)
	return nil
}
