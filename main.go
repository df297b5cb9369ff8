package main

import (
	"github.com/harryyking/unhooked-sub000/config"
	"github.com/harryyking/unhooked-sub000/models"
	"github.com/harryyking/unhooked-sub000/routes"
	"github.com/harryyking/unhooked-sub000/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.CheckIn{},
		&models.Invite{},
		&models.Partnership{},
		&models.Story{},
		&models.Upvote{},
		&models.AudioResource{},
	)

	r := routes.SetupRouter(db)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
