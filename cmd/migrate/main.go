package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"gadgetry.org/internal/migrate"
	"gadgetry.org/internal/store/pg"
)

func main() {
	log.SetFlags(0)
	dsn := flag.String("dsn", os.Getenv("GADGETS_PG_DSN"), "PostgreSQL DSN")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("missing DSN: provide via -dsn or GADGETS_PG_DSN")
	}
	if len(flag.Args()) == 0 {
		log.Fatal("usage: migrate [up|down|reset|status|files]")
	}

	if flag.Arg(0) == "files" {
		files, err := migrate.Files()
		if err != nil {
			log.Fatalf("list migrations: %v", err)
		}
		for _, f := range files {
			fmt.Println(f)
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := pg.Open(*dsn)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer store.Close()

	mgr := migrate.NewManager(store.DB())

	switch flag.Arg(0) {
	case "up":
		err = mgr.Up(ctx)
	case "down":
		err = mgr.Down(ctx)
	case "reset":
		err = mgr.Reset(ctx)
	case "status":
		var v int64
		v, err = mgr.Version(ctx)
		if err == nil {
			fmt.Printf("version %d\n", v)
		}
	default:
		log.Fatalf("unknown command %q", flag.Arg(0))
	}
	if err != nil {
		log.Fatalf("migrate %s: %v", flag.Arg(0), err)
	}
}
