package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"volunteerhub/db"
	"volunteerhub/models"
	"volunteerhub/services"
)

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Insert a demo organization, an individual, events and opportunities.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "password", Value: "volunteer", Usage: "Password for the demo accounts."},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			st, err := openStores(c.Context, cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := db.InitSchema(c.Context, st.sql); err != nil {
				return err
			}

			users := models.NewSQLUserRepository(st.sql)
			svc := services.New(services.Deps{
				Users:         users,
				Events:        models.NewMongoEventRepository(st.mdb.Collection("events")),
				Opportunities: models.NewMongoOpportunityRepository(st.mdb.Collection("opportunities")),
				Registrations: models.NewSQLRegistrationRepository(st.sql),
				Applications:  models.NewSQLApplicationRepository(st.sql),
				Logger:        logger,
			})

			n, err := seed(c.Context, users, svc, c.String("password"))
			if err != nil {
				return err
			}
			logger.Info("seed complete", "records", n)
			return nil
		},
	}
}

func seed(ctx context.Context, users models.UserRepository, svc *services.Service, password string) (int, error) {
	org := models.User{
		Email: "org@example.org", Password: password, UserType: models.UserTypeOrganization,
		Name: "Riverside Food Bank", OrganizationName: "Riverside Food Bank",
	}
	ind := models.User{
		Email: "volunteer@example.org", Password: password, UserType: models.UserTypeIndividual, Name: "Sam Rivera",
	}
	for _, u := range []*models.User{&org, &ind} {
		if err := users.Create(ctx, u); err != nil {
			if errors.Is(err, models.ErrDuplicateEmail) {
				return 0, fmt.Errorf("seed already applied (%s exists)", u.Email)
			}
			return 0, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
	}
	viewer := &models.Viewer{ID: org.ID, Email: org.Email, UserType: org.UserType}

	start := time.Now().AddDate(0, 0, 14).Truncate(24 * time.Hour)
	events := []models.Event{
		{Title: "River Cleanup", Date: start.Format("2006-01-02"), Time: "09:00", Location: "Riverside Park",
			Description: "Help clear litter along the riverbank. Gloves provided.",
			Metadata:    map[string]string{"durationMinutes": "180"}},
		{Title: "Food Drive Sorting", Date: start.AddDate(0, 0, 7).Format("2006-01-02"), Time: "13:30",
			Location: "Riverside Food Bank warehouse", Description: "Sort and pack donations for local families."},
	}
	for i := range events {
		if err := svc.CreateEvent(ctx, viewer, &events[i]); err != nil {
			return 0, fmt.Errorf("seed event %q: %w", events[i].Title, err)
		}
	}

	opps := []models.Opportunity{
		{Title: "Pantry Assistant", Description: "Greet clients and restock shelves on weekday mornings.",
			Location: "Riverside Food Bank", StartDate: start, RequiredSkills: []string{"Customer service", "Lifting"}},
		{Title: "Delivery Driver", Description: "Deliver grocery boxes to homebound seniors.",
			Location: "Citywide", StartDate: start.AddDate(0, 1, 0), RequiredSkills: []string{"Driving license"}},
	}
	for i := range opps {
		if err := svc.CreateOpportunity(ctx, viewer, &opps[i]); err != nil {
			return 0, fmt.Errorf("seed opportunity %q: %w", opps[i].Title, err)
		}
	}
	return 2 + len(events) + len(opps), nil
}
