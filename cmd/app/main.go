package main

import (
	_ "time/tzdata" // APP_TIMEZONE must resolve on minimal images

	"termin/config"
	"termin/di"
	"termin/shared/logger"
)

// @title						Termin API
// @version					1.0
// @description				Parent-teacher conference booking.
// @BasePath					/v1
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				Type "Bearer" followed by a space and JWT token.
func main() {
	logger.InitLogger()
	logger.SetLogLevel(config.Get())

	di.InitializeService().Serve()
}
