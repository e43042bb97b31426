package main

import (
	"flag"

	"zawadi-schools/app/config"
	"zawadi-schools/app/database"
	"zawadi-schools/app/models"

	"github.com/sirupsen/logrus"
)

// Bootstraps a tenant admin. Creates the tenant when the slug is new.
func main() {
	tenantName := flag.String("tenant", "", "tenant (school) name")
	tenantSlug := flag.String("slug", "", "tenant slug")
	email := flag.String("email", "", "admin email")
	password := flag.String("password", "", "admin password")
	firstName := flag.String("first-name", "Admin", "first name")
	lastName := flag.String("last-name", "User", "last name")
	flag.Parse()

	if *tenantSlug == "" || *email == "" || *password == "" {
		logrus.Fatal("usage: adduser -tenant NAME -slug SLUG -email EMAIL -password PASSWORD")
	}

	config.InitLogger()
	cfg := config.Load()
	db := config.InitDB(cfg)
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		logrus.WithError(err).Fatal("migration failed")
	}

	tenant, err := database.GetTenantBySlug(db, *tenantSlug)
	if err != nil {
		if *tenantName == "" {
			logrus.Fatal("tenant not found; pass -tenant to create it")
		}
		tenant = &models.Tenant{Name: *tenantName, Slug: *tenantSlug}
		if err := database.CreateTenant(db, tenant); err != nil {
			logrus.WithError(err).Fatal("failed to create tenant")
		}
		logrus.WithField("tenant_id", tenant.ID).Info("tenant created")
	}

	user := &models.User{
		TenantID:  tenant.ID,
		Email:     *email,
		FirstName: *firstName,
		LastName:  *lastName,
	}
	if err := database.CreateUser(db, user, *password, cfg.BcryptCost, models.RoleAdmin); err != nil {
		logrus.WithError(err).Fatal("failed to create user")
	}

	logrus.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
		"tenant":  tenant.Slug,
	}).Info("admin user created")
}
