package main

import (
	"studlance_backend/internal/app"
	"studlance_backend/internal/logger"

	_ "studlance_backend/docs"
)

// @title StudLance API
// @version 1.0
// @description Marketplace backend connecting clients with student freelancers.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := app.Run(); err != nil {
		logger.Fatal("server exited", "error", err.Error())
	}
}
