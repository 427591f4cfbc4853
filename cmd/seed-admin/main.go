package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/dunkmaster/backend/internal/admin"
	"github.com/dunkmaster/backend/internal/config"
	"github.com/dunkmaster/backend/internal/database"
)

func main() {
	username := flag.String("username", os.Getenv("ADMIN_USERNAME"), "admin username")
	displayName := flag.String("name", "Admin", "display name")
	ips := flag.String("ips", os.Getenv("ADMIN_ALLOWED_IPS"), "comma separated IPs or CIDRs allowed to log in (empty = any)")
	flag.Parse()

	// Initialize configuration (reads .env when present)
	cfg := config.Load()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if *username == "" {
		*username = "admin"
		log.Printf("Using default admin username: %s", *username)
	}

	adminToken := os.Getenv("ADMIN_TOKEN")
	if adminToken == "" {
		adminToken = "change-me-in-production"
		log.Printf("WARNING: Using default admin token. Set ADMIN_TOKEN env var in production!")
	}

	var allowedIPs []string
	for _, ip := range strings.Split(*ips, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			allowedIPs = append(allowedIPs, ip)
		}
	}

	if err := admin.CreateAdminAccount(db, *username, *displayName, adminToken, allowedIPs); err != nil {
		log.Fatalf("Failed to create admin account: %v", err)
	}

	log.Printf("✓ Admin account created/updated successfully")
	log.Printf("  Username: %s", *username)
	log.Printf("  Display Name: %s", *displayName)
	log.Printf("  Allowed IPs: %v", allowedIPs)
	log.Println("\nLog in with POST /api/v1/admin/login using the username and ADMIN_TOKEN")
}
