package repository

import (
	"database/sql"

	"github.com/uttu25/AdGenius-AI-Campaigner/internal/model"
)

type ProductRepositoryInterface interface {
	GetByID(id string) (*model.Product, error)
	ListAll() ([]model.Product, error)
	ListSelected() ([]model.Product, error)
	ReplaceSelection(ids []string) error
	Insert(p *model.Product) error
}

type ProductRepository struct {
	DB *sql.DB
}

const productColumns = `id, name, description, price, url, selected`

func (r *ProductRepository) GetByID(id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p model.Product
	err := r.DB.QueryRow(query, id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.URL, &p.Selected)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) ListAll() ([]model.Product, error) {
	return r.list(`SELECT ` + productColumns + ` FROM products ORDER BY name`)
}

// ListSelected returns the chosen product set in selection order.
func (r *ProductRepository) ListSelected() ([]model.Product, error) {
	return r.list(`SELECT ` + productColumns + ` FROM products WHERE selected ORDER BY selection_seq`)
}

func (r *ProductRepository) list(query string) ([]model.Product, error) {
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.URL, &p.Selected); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *ProductRepository) ReplaceSelection(ids []string) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE products SET selected = FALSE, selection_seq = 0`); err != nil {
		return err
	}
	for i, id := range ids {
		if _, err := tx.Exec(`UPDATE products SET selected = TRUE, selection_seq = $2 WHERE id = $1`, id, i+1); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *ProductRepository) Insert(p *model.Product) error {
	query := `
        INSERT INTO products (` + productColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.DB.Exec(query, p.ID, p.Name, p.Description, p.Price, p.URL, p.Selected)
	return err
}

var _ ProductRepositoryInterface = (*ProductRepository)(nil)
