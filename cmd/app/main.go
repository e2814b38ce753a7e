package main

import (
	"github.com/mkiss03/utazasparizsbaoff-sub000/config"
	"github.com/mkiss03/utazasparizsbaoff-sub000/di"
	"github.com/mkiss03/utazasparizsbaoff-sub000/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	http := di.InitializeService()
	http.Serve()
}
