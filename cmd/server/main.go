package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/abusehound/lattice/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment as is")
	}

	cfgPath := flag.String("config", "", "path to TOML config (default: $CONFIG_PATH, then config/config.toml)")
	port := flag.String("port", "", "listen port (default: $PORT, then 8080)")
	flag.Parse()

	if *port == "" {
		*port = os.Getenv("PORT")
	}
	if *port == "" {
		*port = "8080"
	}

	srv := server.NewServer(*cfgPath)
	r := srv.SetupRouter()

	log.Printf("lattice listening on :%s", *port)
	if err := r.Run(":" + *port); err != nil {
		log.Fatal(err)
	}
}
