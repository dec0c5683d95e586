package main

import (
	"flag"
	stdLog "log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Astemirdum/lending-service/app"
	"github.com/Astemirdum/lending-service/config"
)

func main() {
	seed := flag.Bool("seed", false, "insert the sample catalog when there are no books")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLog.Fatal("load envs from .env ", zap.Error(err))
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
	)

	if err := app.Run(cfg, *seed); err != nil {
		stdLog.Fatalf("%+v", err)
	}
}
