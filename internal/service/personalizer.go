package service

import (
	"strings"

	"github.com/uttu25/AdGenius-AI-Campaigner/internal/model"
)

// Personalize builds the per-recipient message from the generated ad copy.
// Pure function: no I/O, no failure mode, never mutates its arguments.
func Personalize(adCopy string, customer model.Customer) string {
	honorific := ""
	switch customer.Sex {
	case "Male":
		honorific = "Mr."
	case "Female":
		honorific = "Ms."
	}

	greeting := strings.TrimSpace("Hello " + honorific + " " + customer.Name)
	greeting = strings.Join(strings.Fields(greeting), " ")
	return greeting + "!\n\n" + adCopy
}
