package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uttu25/AdGenius-AI-Campaigner/internal/model"
	"github.com/uttu25/AdGenius-AI-Campaigner/internal/service"
)

func TestPersonalizeHonorifics(t *testing.T) {
	tests := []struct {
		name     string
		customer model.Customer
		want     string
	}{
		{
			name:     "male",
			customer: model.Customer{Name: "Ravi Kumar", Sex: "Male"},
			want:     "Hello Mr. Ravi Kumar!\n\nCheck out our sale.",
		},
		{
			name:     "female",
			customer: model.Customer{Name: "Priya Sharma", Sex: "Female"},
			want:     "Hello Ms. Priya Sharma!\n\nCheck out our sale.",
		},
		{
			name:     "other drops the honorific and the double space",
			customer: model.Customer{Name: "Alex Doe", Sex: "Other"},
			want:     "Hello Alex Doe!\n\nCheck out our sale.",
		},
		{
			name:     "unset sex",
			customer: model.Customer{Name: "Sam Lee"},
			want:     "Hello Sam Lee!\n\nCheck out our sale.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.Personalize("Check out our sale.", tt.customer)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPersonalizeIsPure(t *testing.T) {
	customer := model.Customer{Name: "Priya Sharma", Sex: "Female"}
	copyText := "Big discount!"

	first := service.Personalize(copyText, customer)
	second := service.Personalize(copyText, customer)

	assert.Equal(t, first, second)
	assert.Equal(t, "Big discount!", copyText)
	assert.Equal(t, "Priya Sharma", customer.Name)
}
