package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/frahmantamala/courier-payroll/internal"
	"github.com/frahmantamala/courier-payroll/internal/auth"
	"github.com/frahmantamala/courier-payroll/internal/core/datamodel"
	"github.com/frahmantamala/courier-payroll/internal/directory"
	directoryPostgres "github.com/frahmantamala/courier-payroll/internal/directory/postgres"
	"github.com/frahmantamala/courier-payroll/internal/user"
	userPostgres "github.com/frahmantamala/courier-payroll/internal/user/postgres"
	"github.com/frahmantamala/courier-payroll/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	seedAdminEmail    string
	seedAdminPassword string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the permission catalogue, an admin account and a small directory for development.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, gormDB, err := initDB(cfg.Database, false)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		ctx := context.Background()
		lg := logger.LoggerWrapper()

		if clearData {
			if err := clearTables(gormDB); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		userRepo := userPostgres.NewUserRepository(gormDB)
		if err := userRepo.EnsurePermissions(ctx, auth.AllPermissions); err != nil {
			log.Fatalf("failed to seed permissions: %v", err)
		}
		fmt.Println("Seeded permission catalogue")

		directoryService := directory.NewService(directoryPostgres.NewDirectoryRepository(gormDB), lg)
		userService := user.NewService(userRepo, directoryService, cfg.Security.BCryptCost, lg)

		_, err = userService.CreateUser(ctx, nil, user.CreateUserDTO{
			Email:       seedAdminEmail,
			Name:        "Payroll Admin",
			Password:    seedAdminPassword,
			Permissions: []string{auth.PermissionAdmin},
		})
		switch {
		case err == nil:
			fmt.Println("Seeded admin user:", seedAdminEmail)
		case errors.Is(err, internal.ErrEmailTaken):
			fmt.Println("admin user already exists:", seedAdminEmail)
		default:
			log.Fatalf("failed to seed admin user: %v", err)
		}

		if err := seedDirectory(ctx, directoryService); err != nil {
			log.Fatalf("failed to seed directory: %v", err)
		}
	},
}

// seedDirectory adds one client with a staff member and one in-house courier.
func seedDirectory(ctx context.Context, svc *directory.Service) error {
	clients, err := svc.ListClients(ctx)
	if err != nil {
		return err
	}
	const taxID = "900123456-7"
	if slices.ContainsFunc(clients, func(c *directory.Client) bool { return c.TaxID == taxID }) {
		fmt.Println("sample directory already present")
		return nil
	}

	client, err := svc.CreateClient(ctx, directory.CreateClientDTO{
		Name:    "Mensajeria Andina",
		TaxID:   taxID,
		Phone:   "+57 601 555 0100",
		Address: "Calle 80 # 12-40, Bogota",
	})
	if err != nil {
		return err
	}

	employees := []directory.CreateEmployeeDTO{
		{
			FullName:          "Laura Gomez",
			DocumentID:        "1020304050",
			Phone:             "+57 300 555 0101",
			Kind:              directory.KindCourier,
			DefaultHourlyRate: decimal.NewFromInt(10000),
		},
		{
			FullName:          "Andres Rojas",
			DocumentID:        "1020304051",
			Phone:             "+57 300 555 0102",
			Kind:              directory.KindClientStaff,
			ClientID:          &client.ID,
			DefaultHourlyRate: decimal.NewFromInt(12000),
		},
	}
	for _, dto := range employees {
		emp, err := svc.CreateEmployee(ctx, dto)
		if err != nil {
			return err
		}
		fmt.Printf("Seeded employee: %s (%s)\n", emp.FullName, emp.Kind)
	}
	return nil
}

// clearTables truncates every application table, children first.
func clearTables(db *gorm.DB) error {
	models := datamodel.Models()
	for i := len(models) - 1; i >= 0; i-- {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(models[i]); err != nil {
			return err
		}
		if err := db.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", stmt.Schema.Table)).Error; err != nil {
			return fmt.Errorf("truncate %s: %w", stmt.Schema.Table, err)
		}
	}
	return nil
}

func init() {
	seedCmd.Flags().StringVar(&seedAdminEmail, "admin-email", "admin@courier.local", "email of the seeded admin")
	seedCmd.Flags().StringVar(&seedAdminPassword, "admin-password", "change-me-now", "password of the seeded admin")
}
