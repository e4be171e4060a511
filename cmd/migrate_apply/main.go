package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"tasktracker/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	apply := flag.Bool("apply", false, "apply migrations instead of listing them")
	flag.Parse()

	if !*apply {
		names, err := db.Migrations()
		if err != nil {
			log.Fatalf("list migrations: %v", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	_ = godotenv.Load()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	if err := db.Migrate(context.Background(), pool, func(name string) {
		fmt.Printf("applied %s\n", name)
	}); err != nil {
		log.Fatal(err)
	}
}
