package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/admin"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
)

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app := admin.NewApp(cfg, os.Stdin, os.Stdout)
	if err := app.Run(context.Background(), os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}

}
