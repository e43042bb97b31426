package main

import (
	"zawadi-schools/app/config"
	"zawadi-schools/app/database"

	"github.com/sirupsen/logrus"
)

func main() {
	config.InitLogger()
	cfg := config.Load()

	db := config.InitDB(cfg)
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		logrus.WithError(err).Fatal("migration failed")
	}
	logrus.Info("migration completed")
}
