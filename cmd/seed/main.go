package main

import (
	"fmt"
	"log"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/Nil9n/merchshop-backend/config"
	"github.com/Nil9n/merchshop-backend/internal/app/model"
	"github.com/Nil9n/merchshop-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Imports a product catalog from an XLSX export. Expected columns:
// category | name | description | price | stock | image_url

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	categories, products, err := readCatalogFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Categories to import: %d\n", len(categories))
	fmt.Printf("Products to import: %d\n", len(products))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	categoryIDs := make(map[string]uint, len(categories))
	for _, c := range categories {
		category := model.Category{Name: c, Slug: generateSlug(c)}
		if err := db.GetDB().Where(model.Category{Slug: category.Slug}).
			FirstOrCreate(&category).Error; err != nil {
			log.Fatal("Failed to create category:", err)
		}
		categoryIDs[c] = category.ID
	}

	for i := range products {
		products[i].product.CategoryID = categoryIDs[products[i].categoryName]
	}

	batch := make([]model.Product, 0, len(products))
	for i := range products {
		batch = append(batch, products[i].product)
	}
	if err := db.GetDB().CreateInBatches(batch, 500).Error; err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(batch))
}

type catalogRow struct {
	categoryName string
	product      model.Product
}

func readCatalogFromXLSX(filePath string) ([]string, []catalogRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no data found in XLSX file")
	}

	var categories []string
	seenCategories := make(map[string]bool)
	slugCounter := make(map[string]int)
	var products []catalogRow
	skippedCount := 0

	for i, row := range rows {
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 5 {
			skippedCount++
			continue
		}

		categoryName := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		description := strings.TrimSpace(row[2])
		priceStr := strings.TrimSpace(row[3])
		stockStr := strings.TrimSpace(row[4])
		imageURL := ""
		if len(row) > 5 {
			imageURL = strings.TrimSpace(row[5])
		}

		if categoryName == "" || name == "" || priceStr == "" {
			skippedCount++
			continue
		}

		price, err := decimal.NewFromString(priceStr)
		if err != nil || price.IsNegative() {
			skippedCount++
			continue
		}

		stock, err := strconv.Atoi(stockStr)
		if err != nil || stock < 0 {
			stock = 0
		}

		if !seenCategories[categoryName] {
			seenCategories[categoryName] = true
			categories = append(categories, categoryName)
		}

		baseSlug := generateSlug(name)
		slug := baseSlug
		if count, exists := slugCounter[baseSlug]; exists {
			slugCounter[baseSlug] = count + 1
			slug = fmt.Sprintf("%s-%d", baseSlug, count+1)
		} else {
			slugCounter[baseSlug] = 1
		}

		products = append(products, catalogRow{
			categoryName: categoryName,
			product: model.Product{
				Name:        name,
				Slug:        slug,
				Description: description,
				Price:       price,
				ImageURL:    imageURL,
				Stock:       stock,
				Available:   stock > 0,
			},
		})

		if len(products)%500 == 0 {
			fmt.Printf("Processed %d products...\n", len(products))
		}
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", len(rows)-1)
	fmt.Printf("  Valid products: %d\n", len(products))
	fmt.Printf("  Skipped rows: %d\n", skippedCount)

	return categories, products, nil
}

// generateSlug builds a URL slug from a display name.
func generateSlug(name string) string {
	slug := strings.ToLower(name)

	reg := regexp.MustCompile(`[^\p{L}\p{N}-]+`)
	slug = reg.ReplaceAllString(slug, "-")

	reg = regexp.MustCompile(`-+`)
	slug = reg.ReplaceAllString(slug, "-")

	return strings.Trim(slug, "-")
}
