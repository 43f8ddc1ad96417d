package main

import (
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/uttu25/AdGenius-AI-Campaigner/internal/model"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/repository"
)

// Seeder: applies the schema and imports customer/product CSVs.
//
// Customer CSV columns: name, mobile_number, email, age, sex, city, state,
// whatsapp_opt_in, gmail_opt_in. Product CSV columns: name, description,
// price, url.
func main() {
	schemaPath := flag.String("schema", "seed/schema.sql", "schema file to apply")
	customersPath := flag.String("customers", "", "customers CSV to import")
	productsPath := flag.String("products", "", "products CSV to import")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if *schemaPath != "" {
		content, err := os.ReadFile(*schemaPath)
		if err != nil {
			log.Fatalf("failed to read %s: %v", *schemaPath, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			log.Fatalf("failed to execute %s: %v", *schemaPath, err)
		}
		fmt.Printf("Applied schema: %s\n", *schemaPath)
	}

	if *customersPath != "" {
		n, err := importCustomers(db, *customersPath)
		if err != nil {
			log.Fatalf("failed to import customers: %v", err)
		}
		fmt.Printf("Imported %d customers from %s\n", n, *customersPath)
	}

	if *productsPath != "" {
		n, err := importProducts(db, *productsPath)
		if err != nil {
			log.Fatalf("failed to import products: %v", err)
		}
		fmt.Printf("Imported %d products from %s\n", n, *productsPath)
	}

	fmt.Println("Database seeding completed successfully!")
}

func importCustomers(db *sql.DB, path string) (int, error) {
	repo := &repository.CustomerRepository{DB: db}

	rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}

	count := 0
	for i, row := range rows {
		if len(row) < 9 {
			return count, fmt.Errorf("row %d: expected 9 columns, got %d", i+2, len(row))
		}
		age, _ := strconv.Atoi(row[3])
		c := &model.Customer{
			ID:            uuid.NewString(),
			Name:          row[0],
			MobileNumber:  row[1],
			Email:         row[2],
			Age:           age,
			Sex:           row[4],
			City:          row[5],
			State:         row[6],
			WhatsAppOptIn: row[7],
			GmailOptIn:    row[8],
		}
		if err := repo.Insert(c); err != nil {
			return count, fmt.Errorf("row %d: %w", i+2, err)
		}
		count++
	}
	return count, nil
}

func importProducts(db *sql.DB, path string) (int, error) {
	repo := &repository.ProductRepository{DB: db}

	rows, err := readCSV(path)
	if err != nil {
		return 0, err
	}

	count := 0
	for i, row := range rows {
		if len(row) < 4 {
			return count, fmt.Errorf("row %d: expected 4 columns, got %d", i+2, len(row))
		}
		if row[3] == "" {
			return count, fmt.Errorf("row %d: product url is required", i+2)
		}
		p := &model.Product{
			ID:          uuid.NewString(),
			Name:        row[0],
			Description: row[1],
			Price:       row[2],
			URL:         row[3],
		}
		if err := repo.Insert(p); err != nil {
			return count, fmt.Errorf("row %d: %w", i+2, err)
		}
		count++
	}
	return count, nil
}

// readCSV returns all data rows, skipping the header line.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil { // header
		if err == io.EOF {
			return nil, nil
		}
		return nil, err
	}
	return reader.ReadAll()
}
