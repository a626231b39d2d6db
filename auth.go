package main

import (
	"context"
	"fmt"
	"log"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// authorizeGoogle is the `auth` command: run the interactive OAuth flow
// for the configured Google calendar and cache the token in the state
// database, so later runs can work unattended.
func authorizeGoogle(config *Config) {
	gconf := config.Calendar.Google
	if gconf == nil {
		log.Fatalf("No [calendar.google] section in config file")
	}

	db, err := stateDB(config)
	if err != nil {
		log.Fatalf("Error opening state database: %v", err)
	}
	defer db.Close()

	fmt.Println("🚀 Starting Google calendar authorization...")

	ctx := context.Background()
	oauthConfig := googleOAuthConfig(gconf)
	token := getTokenFromWeb(oauthConfig)
	if err := saveToken(db, gconf.accountName(), token); err != nil {
		log.Fatalf("Error saving token: %v", err)
	}

	service, err := calendar.NewService(ctx, option.WithHTTPClient(oauthConfig.Client(ctx, token)))
	if err != nil {
		log.Fatalf("Error creating calendar client: %v", err)
	}
	if _, err := service.CalendarList.Get(gconf.CalendarID).Do(); err != nil {
		log.Fatalf("❌ Error retrieving calendar %s: %v", gconf.CalendarID, err)
	}

	fmt.Printf("✅ Calendar %s authorized for account %s\n", gconf.CalendarID, gconf.accountName())
}
