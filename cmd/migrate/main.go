package main

import (
	"flag"
	"log"

	"github.com/pressly/goose/v3"

	"snackapp/internal/commons"
	"snackapp/internal/infrastructure/mysql"
	"snackapp/migrations"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the config file")
	flag.Parse()

	cfg, err := commons.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		log.Fatalf("goose: failed to connect to DB: %v", err)
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("mysql"); err != nil {
		log.Fatalf("goose: %v", err)
	}

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}

	command := arguments[0]
	if err := goose.Run(command, db, ".", arguments[1:]...); err != nil {
		log.Fatalf("goose %v: %v", command, err)
	}

	log.Printf("goose %s success", command)
}
