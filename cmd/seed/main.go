package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/ikkim/storefront-backend/config"
	"github.com/ikkim/storefront-backend/internal/app/repository"
	"github.com/ikkim/storefront-backend/internal/app/service"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/ikkim/storefront-backend/internal/sheet"
	"github.com/ikkim/storefront-backend/internal/storage"
	"github.com/ikkim/storefront-backend/pkg/logger"
)

// seed imports a catalog workbook in the layout produced by GET /products/export:
//
//	go run ./cmd/seed catalog.xlsx [-y]
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: go run ./cmd/seed <xlsx_file_path> [-y]")
		os.Exit(2)
	}
	filePath := os.Args[1]
	assumeYes := len(os.Args) > 2 && os.Args[2] == "-y"

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logger.Initialize(logger.Config{
		Level:       "info",
		Format:      "console",
		EnableColor: true,
	})

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal("Failed to open workbook", err, map[string]interface{}{
			"path": filePath,
		})
	}
	defer f.Close()

	rows, skipped, err := sheet.ReadCatalog(f)
	if err != nil {
		logger.Fatal("Failed to read workbook", err)
	}

	fmt.Printf("Products to import: %d (skipped rows: %d)\n", len(rows), skipped)
	if len(rows) == 0 {
		return
	}

	if !assumeYes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "yes" && answer != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	database := db.GetDB()
	products := service.NewProductService(
		repository.NewProductRepository(database),
		repository.NewVariantRepository(database),
		repository.NewCategoryRepository(database),
		storage.NewS3Storage(cfg.S3.Region, cfg.S3.Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, cfg.S3.BaseURL, cfg.S3.Folder),
		service.UploadLimits{MaxFileSize: cfg.Upload.MaxFileSize, MaxFiles: cfg.Upload.MaxFiles},
		database,
	)

	created, err := products.Import(rows)
	if err != nil {
		logger.Error("Import stopped early", err, map[string]interface{}{
			"created": created,
		})
		os.Exit(1)
	}

	fmt.Printf("Import completed: %d created, %d already present\n", created, len(rows)-created)
}
