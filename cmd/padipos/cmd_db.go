package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/padipos/padipos/internal/models"
	"github.com/padipos/padipos/internal/service"
	"github.com/padipos/padipos/internal/transport"
)

// withApp boots, runs fn and closes the store.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx, a, err := boot(cmd.Context())
	if err != nil {
		return err
	}
	defer func() {
		if err := a.close(); err != nil {
			a.log.Warn("store_close_error", "error", err)
		}
	}()
	return fn(ctx, a)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update tables and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if err := a.store.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			a.log.Info("migrate_success")
			return nil
		})
	},
}

func seedMenu() []models.MenuItem {
	return []models.MenuItem{
		{Name: "Nasi Goreng Spesial", Description: "Fried rice with egg and chicken", Price: 25000, Category: models.CategoryFood},
		{Name: "Mie Ayam", Description: "Chicken noodles", Price: 20000, Category: models.CategoryFood},
		{Name: "Es Teh Manis", Description: "Sweet iced tea", Price: 8000, Category: models.CategoryBeverages},
		{Name: "Kopi Susu", Description: "Iced milk coffee", Price: 15000, Category: models.CategoryBeverages},
		{Name: "Kue Lapis", Description: "Steamed layer cake", Price: 15000, Category: models.CategoryDessert},
	}
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Replace the menu with the sample catalog and make sure an admin exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if err := a.store.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			menu := &service.MenuService{Repo: a.store}
			if err := attachMenuIndex(ctx, a.cfg, menu); err != nil {
				return err
			}
			items := seedMenu()
			if err := menu.Replace(ctx, items); err != nil {
				return fmt.Errorf("seed menu: %w", err)
			}
			a.log.Info("seed_menu_success", "items", len(items))

			auth := &service.AuthService{Repo: a.store}
			created, err := auth.EnsureAdmin(ctx, transport.RegisterRequest{
				Username: a.cfg.AdminUsername,
				Email:    a.cfg.AdminEmail,
				Password: a.cfg.AdminPassword,
			})
			if err != nil {
				return fmt.Errorf("seed admin: %w", err)
			}
			a.log.Info("seed_admin_success", "created", created, "email", a.cfg.AdminEmail)
			return nil
		})
	},
}

var confirmClear bool

var clearOrdersCmd = &cobra.Command{
	Use:   "clear-orders",
	Short: "Delete every order of every user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmClear {
			return fmt.Errorf("refusing to delete all orders without --yes")
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			orders := &service.OrderService{Orders: a.store, Menu: a.store}
			n, err := orders.ClearAll(ctx)
			if err != nil {
				return fmt.Errorf("clear orders: %w", err)
			}
			a.log.Info("clear_orders_success", "deleted", n)
			return nil
		})
	},
}

func init() {
	clearOrdersCmd.Flags().BoolVar(&confirmClear, "yes", false, "confirm deleting all orders")
}
