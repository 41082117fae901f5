package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/blendtrack/pkg/domain/entities"
)

// Scenario file names looked up inside a seed directory
const (
	CustomersFile = "customers.csv"
	ProductsFile  = "products.csv"
	TanksFile     = "tanks.csv"
	RecipesFile   = "recipes.csv"
)

// Scenario is the master data read from a seed directory
type Scenario struct {
	Customers []*entities.Customer
	Products  []*entities.Product
	Tanks     []*entities.Tank
	Recipes   []*entities.RecipeLine
}

// Loader handles loading master data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadScenario reads every seed file in dir. Products and tanks are required;
// customers and recipes are optional.
func (l *Loader) LoadScenario(dir string) (*Scenario, error) {
	var (
		scenario Scenario
		err      error
	)

	if scenario.Products, err = l.LoadProducts(filepath.Join(dir, ProductsFile)); err != nil {
		return nil, fmt.Errorf("error loading products: %w", err)
	}
	if scenario.Tanks, err = l.LoadTanks(filepath.Join(dir, TanksFile)); err != nil {
		return nil, fmt.Errorf("error loading tanks: %w", err)
	}
	if path := filepath.Join(dir, CustomersFile); fileExists(path) {
		if scenario.Customers, err = l.LoadCustomers(path); err != nil {
			return nil, fmt.Errorf("error loading customers: %w", err)
		}
	}
	if path := filepath.Join(dir, RecipesFile); fileExists(path) {
		if scenario.Recipes, err = l.LoadRecipes(path); err != nil {
			return nil, fmt.Errorf("error loading recipes: %w", err)
		}
	}

	return &scenario, nil
}

// LoadCustomers loads customers from a CSV file
func (l *Loader) LoadCustomers(filename string) ([]*entities.Customer, error) {
	records, err := readRecords(filename, "customers", []string{"code", "name", "contact_email"})
	if err != nil {
		return nil, err
	}

	var customers []*entities.Customer
	for i, record := range records {
		customer, err := entities.NewCustomer(record[0], record[1], record[2])
		if err != nil {
			return nil, fmt.Errorf("customers CSV row %d: %w", i+2, err)
		}
		customers = append(customers, customer)
	}

	return customers, nil
}

// LoadProducts loads products from a CSV file
func (l *Loader) LoadProducts(filename string) ([]*entities.Product, error) {
	records, err := readRecords(filename, "products", []string{"code", "name", "unit_of_measure", "density"})
	if err != nil {
		return nil, err
	}

	var products []*entities.Product
	for i, record := range records {
		density, err := decimal.NewFromString(record[3])
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: invalid density: %s", i+2, record[3])
		}
		product, err := entities.NewProduct(entities.ProductCode(record[0]), record[1], record[2], density)
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
		products = append(products, product)
	}

	return products, nil
}

// LoadTanks loads tanks from a CSV file
func (l *Loader) LoadTanks(filename string) ([]*entities.Tank, error) {
	records, err := readRecords(filename, "tanks", []string{"code", "description", "capacity", "location"})
	if err != nil {
		return nil, err
	}

	var tanks []*entities.Tank
	for i, record := range records {
		capacity, err := decimal.NewFromString(record[2])
		if err != nil {
			return nil, fmt.Errorf("tanks CSV row %d: invalid capacity: %s", i+2, record[2])
		}
		tank, err := entities.NewTank(entities.TankCode(record[0]), record[1], capacity, record[3])
		if err != nil {
			return nil, fmt.Errorf("tanks CSV row %d: %w", i+2, err)
		}
		tanks = append(tanks, tank)
	}

	return tanks, nil
}

// LoadRecipes loads recipe lines from a CSV file
func (l *Loader) LoadRecipes(filename string) ([]*entities.RecipeLine, error) {
	records, err := readRecords(filename, "recipes", []string{"product_code", "component_code", "fraction", "sequence"})
	if err != nil {
		return nil, err
	}

	var lines []*entities.RecipeLine
	for i, record := range records {
		fraction, err := decimal.NewFromString(record[2])
		if err != nil {
			return nil, fmt.Errorf("recipes CSV row %d: invalid fraction: %s", i+2, record[2])
		}
		sequence, err := strconv.Atoi(record[3])
		if err != nil {
			return nil, fmt.Errorf("recipes CSV row %d: invalid sequence: %s", i+2, record[3])
		}
		line, err := entities.NewRecipeLine(
			entities.ProductCode(record[0]),
			entities.ProductCode(record[1]),
			fraction,
			sequence,
		)
		if err != nil {
			return nil, fmt.Errorf("recipes CSV row %d: %w", i+2, err)
		}
		lines = append(lines, line)
	}

	return lines, nil
}

// readRecords opens a CSV file, checks its header and column counts, and
// returns the data rows
func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}

	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
