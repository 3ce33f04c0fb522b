package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/noah-isme/sis-api/internal/models"
	"github.com/noah-isme/sis-api/pkg/client"
)

type check struct {
	name string
	run  func(ctx context.Context, c *client.Client) error
}

func main() {
	var (
		base     string
		email    string
		password string
		timeout  time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080/api", "API base URL")
	flag.StringVar(&email, "email", "", "Login email")
	flag.StringVar(&password, "password", "", "Login password")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "Overall timeout")
	flag.Parse()

	if email == "" || password == "" {
		log.Fatal("email and password are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	c, err := client.New(base).Login(ctx, email, password)
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}
	role := c.Session().Role()
	fmt.Printf("logged in as %s (%s)\n", c.Session().UserID(), role)

	failed := 0
	for _, chk := range checksFor(role) {
		start := time.Now()
		err := chk.run(ctx, c)
		status := "ok"
		if err != nil {
			status = "FAIL: " + err.Error()
			failed++
		}
		fmt.Printf("%-28s %-8s %s\n", chk.name, time.Since(start).Round(time.Millisecond), status)
	}

	if _, err := c.Logout(ctx); err != nil {
		log.Printf("logout failed: %v", err)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func checksFor(role models.UserRole) []check {
	checks := []check{
		{"me", func(ctx context.Context, c *client.Client) error { _, err := c.Me(ctx); return err }},
		{"announcements", func(ctx context.Context, c *client.Client) error { _, err := c.Announcements(ctx); return err }},
		{"notifications", func(ctx context.Context, c *client.Client) error { _, err := c.Notifications(ctx, 1, 20); return err }},
	}
	switch role {
	case models.RoleAdmin:
		checks = append(checks,
			check{"admin dashboard", func(ctx context.Context, c *client.Client) error {
				stats, err := c.AdminDashboard(ctx)
				if err != nil {
					return err
				}
				fees, err := c.AdminFees(ctx)
				if err != nil {
					return err
				}
				rows := make([]models.Fee, 0, len(fees))
				for _, f := range fees {
					rows = append(rows, f.Fee)
				}
				if local := client.FeeSummary(rows); local.Total != stats.Fees.Total {
					return fmt.Errorf("fee total mismatch: dashboard %.2f, fees %.2f", stats.Fees.Total, local.Total)
				}
				return nil
			}},
		)
	case models.RoleStudent:
		checks = append(checks,
			check{"student dashboard", func(ctx context.Context, c *client.Client) error { _, err := c.StudentDashboard(ctx); return err }},
			check{"student results", func(ctx context.Context, c *client.Client) error { _, err := c.StudentResults(ctx); return err }},
		)
	}
	return checks
}
