package repository

import (
	"database/sql"

	"github.com/uttu25/AdGenius-AI-Campaigner/internal/model"
)

// CustomerRepositoryInterface defines the methods the handlers and the
// orchestration entry points need.
type CustomerRepositoryInterface interface {
	GetByID(id string) (*model.Customer, error)
	ListAll() ([]model.Customer, error)
	ListSelected() ([]model.Customer, error)
	ReplaceSelection(ids []string) error
	Insert(c *model.Customer) error
}

// CustomerRepository is the concrete implementation
type CustomerRepository struct {
	DB *sql.DB
}

const customerColumns = `id, name, mobile_number, email, age, sex, city, state, whatsapp_opt_in, gmail_opt_in, selected`

func scanCustomer(row interface{ Scan(...any) error }) (*model.Customer, error) {
	var c model.Customer
	err := row.Scan(&c.ID, &c.Name, &c.MobileNumber, &c.Email, &c.Age, &c.Sex,
		&c.City, &c.State, &c.WhatsAppOptIn, &c.GmailOptIn, &c.Selected)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID fetches a customer by ID
func (r *CustomerRepository) GetByID(id string) (*model.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(r.DB.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // not found
		}
		return nil, err
	}
	return c, nil
}

func (r *CustomerRepository) ListAll() ([]model.Customer, error) {
	return r.list(`SELECT ` + customerColumns + ` FROM customers ORDER BY name`)
}

// ListSelected returns the user's chosen target set in selection order.
func (r *CustomerRepository) ListSelected() ([]model.Customer, error) {
	return r.list(`SELECT ` + customerColumns + ` FROM customers WHERE selected ORDER BY selection_seq`)
}

func (r *CustomerRepository) list(query string) ([]model.Customer, error) {
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers := []model.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

// ReplaceSelection marks exactly the given customers as selected, numbering
// them so ListSelected can return them in the order they were chosen.
func (r *CustomerRepository) ReplaceSelection(ids []string) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE customers SET selected = FALSE, selection_seq = 0`); err != nil {
		return err
	}
	for i, id := range ids {
		if _, err := tx.Exec(`UPDATE customers SET selected = TRUE, selection_seq = $2 WHERE id = $1`, id, i+1); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *CustomerRepository) Insert(c *model.Customer) error {
	query := `
        INSERT INTO customers (` + customerColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `
	_, err := r.DB.Exec(query, c.ID, c.Name, c.MobileNumber, c.Email, c.Age, c.Sex,
		c.City, c.State, c.WhatsAppOptIn, c.GmailOptIn, c.Selected)
	return err
}

var _ CustomerRepositoryInterface = (*CustomerRepository)(nil)
