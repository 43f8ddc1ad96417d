package model

type Product struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	Price       string `db:"price" json:"price"`
	URL         string `db:"url" json:"url"`
	Selected    bool   `db:"selected" json:"selected"`

	// Populated during a campaign run, regenerated fresh every time.
	AdCopy   string `db:"-" json:"ad_copy,omitempty"`
	ImageURL string `db:"-" json:"image_url,omitempty"`
}
